package pascal

import (
	"math"
	"testing"

	"github.com/xzf1234/twostream-attention/ava"
)

const eps = 1e-12

func TestIOU(t *testing.T) {
	cases := []struct {
		a, b [4]float64
		want float64
	}{
		{[4]float64{0, 0, 1, 1}, [4]float64{0, 0, 1, 1}, 1},
		{[4]float64{0, 0, 0.5, 0.5}, [4]float64{0.5, 0.5, 1, 1}, 0},
		{[4]float64{0, 0, 1, 1}, [4]float64{0, 0.5, 1, 1.5}, 1.0 / 3},
		{[4]float64{0, 0, 0, 0}, [4]float64{0, 0, 0, 0}, 0},
	}
	for _, c := range cases {
		if got := IOU(c.a, c.b); math.Abs(got-c.want) > eps {
			t.Errorf("IOU(%v, %v): want %g, got %g", c.a, c.b, c.want, got)
		}
	}
}

func TestMetricKeys(t *testing.T) {
	if got, want := MAPKey(0.5), "PascalBoxes_Precision/mAP@0.5IOU"; got != want {
		t.Errorf("MAPKey: want %q, got %q", want, got)
	}
	got := CategoryKey(0.75, "crouch/kneel")
	want := "PascalBoxes_PerformanceByCategory/AP@0.75IOU/crouch/kneel"
	if got != want {
		t.Errorf("CategoryKey: want %q, got %q", want, got)
	}
}

func TestEvaluatePerfect(t *testing.T) {
	cats := []ava.Category{{ID: 1, Name: "bend"}}
	ev := New(cats, 0.5)
	box := [4]float64{0.2, 0.1, 0.4, 0.3}
	err := ev.AddGroundTruth("v1,0005", GroundTruth{
		Boxes: [][4]float64{box}, Classes: []int{1}, Difficult: []bool{false},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = ev.AddDetections("v1,0005", Detections{
		Boxes: [][4]float64{box}, Classes: []int{1}, Scores: []float64{0.9},
	})
	if err != nil {
		t.Fatal(err)
	}
	metrics, err := ev.Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if got := metrics[CategoryKey(0.5, "bend")]; math.Abs(got-1) > eps {
		t.Errorf("AP: want 1, got %g", got)
	}
	if got := metrics[MAPKey(0.5)]; math.Abs(got-1) > eps {
		t.Errorf("mAP: want 1, got %g", got)
	}
}

func TestEvaluateMissedInstance(t *testing.T) {
	// Two instances, one detected. Recall tops out at one half.
	cats := []ava.Category{{ID: 1, Name: "bend"}}
	ev := New(cats, 0.5)
	boxA := [4]float64{0.1, 0.1, 0.3, 0.3}
	boxB := [4]float64{0.6, 0.6, 0.8, 0.8}
	err := ev.AddGroundTruth("v1,0001", GroundTruth{
		Boxes:     [][4]float64{boxA, boxB},
		Classes:   []int{1, 1},
		Difficult: []bool{false, false},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = ev.AddDetections("v1,0001", Detections{
		Boxes: [][4]float64{boxA}, Classes: []int{1}, Scores: []float64{0.9},
	})
	if err != nil {
		t.Fatal(err)
	}
	metrics, err := ev.Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if got := metrics[CategoryKey(0.5, "bend")]; math.Abs(got-0.5) > eps {
		t.Errorf("AP: want 0.5, got %g", got)
	}
}

func TestEvaluateFalsePositiveFirst(t *testing.T) {
	// A high-scoring false positive halves the precision at full recall.
	cats := []ava.Category{{ID: 1, Name: "bend"}}
	ev := New(cats, 0.5)
	box := [4]float64{0.1, 0.1, 0.3, 0.3}
	far := [4]float64{0.6, 0.6, 0.8, 0.8}
	err := ev.AddGroundTruth("v1,0001", GroundTruth{
		Boxes: [][4]float64{box}, Classes: []int{1}, Difficult: []bool{false},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = ev.AddDetections("v1,0001", Detections{
		Boxes:   [][4]float64{far, box},
		Classes: []int{1, 1},
		Scores:  []float64{0.9, 0.8},
	})
	if err != nil {
		t.Fatal(err)
	}
	metrics, err := ev.Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if got := metrics[CategoryKey(0.5, "bend")]; math.Abs(got-0.5) > eps {
		t.Errorf("AP: want 0.5, got %g", got)
	}
}

func TestEvaluateTiedScores(t *testing.T) {
	// Detections with equal scores from different images are ranked by
	// image key, so the metrics do not depend on map iteration order.
	// Here the true positive's image sorts first: AP is 1, not 0.5.
	cats := []ava.Category{{ID: 1, Name: "bend"}}
	box := [4]float64{0.1, 0.1, 0.3, 0.3}
	far := [4]float64{0.6, 0.6, 0.8, 0.8}
	for _, reversed := range []bool{false, true} {
		ev := New(cats, 0.5)
		addTrue := func() {
			err := ev.AddGroundTruth("v1,0001", GroundTruth{
				Boxes: [][4]float64{box}, Classes: []int{1}, Difficult: []bool{false},
			})
			if err != nil {
				t.Fatal(err)
			}
			err = ev.AddDetections("v1,0001", Detections{
				Boxes: [][4]float64{box}, Classes: []int{1}, Scores: []float64{0.5},
			})
			if err != nil {
				t.Fatal(err)
			}
		}
		addFalse := func() {
			err := ev.AddDetections("v1,0002", Detections{
				Boxes: [][4]float64{far}, Classes: []int{1}, Scores: []float64{0.5},
			})
			if err != nil {
				t.Fatal(err)
			}
		}
		if reversed {
			addFalse()
			addTrue()
		} else {
			addTrue()
			addFalse()
		}
		metrics, err := ev.Evaluate()
		if err != nil {
			t.Fatal(err)
		}
		if got := metrics[CategoryKey(0.5, "bend")]; math.Abs(got-1) > eps {
			t.Errorf("reversed=%v: AP: want 1, got %g", reversed, got)
		}
	}
}

func TestEvaluateDifficult(t *testing.T) {
	// Difficult instances are not positives and detections matched to
	// them are ignored. A category with only difficult ground truth
	// has no defined AP.
	cats := []ava.Category{{ID: 1, Name: "bend"}, {ID: 2, Name: "sit"}}
	ev := New(cats, 0.5)
	bendBox := [4]float64{0.1, 0.1, 0.3, 0.3}
	sitBox := [4]float64{0.5, 0.5, 0.7, 0.7}
	err := ev.AddGroundTruth("v1,0001", GroundTruth{
		Boxes:     [][4]float64{bendBox, sitBox},
		Classes:   []int{1, 2},
		Difficult: []bool{true, false},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = ev.AddDetections("v1,0001", Detections{
		Boxes:   [][4]float64{bendBox, sitBox},
		Classes: []int{1, 2},
		Scores:  []float64{0.9, 0.9},
	})
	if err != nil {
		t.Fatal(err)
	}
	metrics, err := ev.Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if got := metrics[CategoryKey(0.5, "bend")]; !math.IsNaN(got) {
		t.Errorf("bend AP: want NaN, got %g", got)
	}
	if got := metrics[MAPKey(0.5)]; math.Abs(got-1) > eps {
		t.Errorf("mAP: want 1, got %g", got)
	}
}

func TestEvaluateNoGroundTruth(t *testing.T) {
	ev := New([]ava.Category{{ID: 1, Name: "bend"}}, 0.5)
	if _, err := ev.Evaluate(); err == nil {
		t.Error("no error without ground truth")
	}
}

func TestAddDuplicateKey(t *testing.T) {
	ev := New([]ava.Category{{ID: 1, Name: "bend"}}, 0.5)
	gt := GroundTruth{Boxes: [][4]float64{{0, 0, 1, 1}}, Classes: []int{1}, Difficult: []bool{false}}
	if err := ev.AddGroundTruth("v1,0001", gt); err != nil {
		t.Fatal(err)
	}
	if err := ev.AddGroundTruth("v1,0001", gt); err == nil {
		t.Error("no error for duplicate ground-truth key")
	}
	det := Detections{Boxes: [][4]float64{{0, 0, 1, 1}}, Classes: []int{1}, Scores: []float64{1}}
	if err := ev.AddDetections("v1,0001", det); err != nil {
		t.Fatal(err)
	}
	if err := ev.AddDetections("v1,0001", det); err == nil {
		t.Error("no error for duplicate detection key")
	}
}
