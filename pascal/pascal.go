package pascal

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/xzf1234/twostream-attention/ava"
)

// PascalEvaluator computes per-category average precision with greedy
// best-overlap matching at a fixed IoU threshold.
type PascalEvaluator struct {
	categories []ava.Category
	iou        float64
	gt         map[string]GroundTruth
	det        map[string]Detections
}

var _ Evaluator = (*PascalEvaluator)(nil)

func New(categories []ava.Category, iou float64) *PascalEvaluator {
	return &PascalEvaluator{
		categories: categories,
		iou:        iou,
		gt:         make(map[string]GroundTruth),
		det:        make(map[string]Detections),
	}
}

func (e *PascalEvaluator) AddGroundTruth(key string, gt GroundTruth) error {
	if _, ok := e.gt[key]; ok {
		return fmt.Errorf("ground truth for image already added: %s", key)
	}
	if len(gt.Boxes) != len(gt.Classes) || len(gt.Boxes) != len(gt.Difficult) {
		return fmt.Errorf("ground truth lengths differ: %d boxes, %d classes, %d difficult",
			len(gt.Boxes), len(gt.Classes), len(gt.Difficult))
	}
	e.gt[key] = gt
	return nil
}

func (e *PascalEvaluator) AddDetections(key string, det Detections) error {
	if _, ok := e.det[key]; ok {
		return fmt.Errorf("detections for image already added: %s", key)
	}
	if len(det.Boxes) != len(det.Classes) || len(det.Boxes) != len(det.Scores) {
		return fmt.Errorf("detection lengths differ: %d boxes, %d classes, %d scores",
			len(det.Boxes), len(det.Classes), len(det.Scores))
	}
	e.det[key] = det
	return nil
}

// valScore is one scored detection with its validation outcome.
type valScore struct {
	Score float64
	True  bool
}

type byScore []valScore

func (s byScore) Len() int           { return len(s) }
func (s byScore) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s byScore) Less(i, j int) bool { return s[i].Score > s[j].Score }

// Evaluate returns one average-precision metric per category and the
// mean over categories which have at least one ground-truth instance.
// Categories without ground truth get NaN.
func (e *PascalEvaluator) Evaluate() (map[string]float64, error) {
	keySet := make(map[string]bool)
	for key := range e.gt {
		keySet[key] = true
	}
	for key := range e.det {
		keySet[key] = true
	}
	// Iterate images in sorted order so that detections with tied
	// scores are ranked the same way on every run.
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	metrics := make(map[string]float64)
	var aps []float64
	for _, cat := range e.categories {
		var vals []valScore
		var numPos int
		for _, key := range keys {
			imVals, imPos := e.validate(key, cat.ID)
			vals = append(vals, imVals...)
			numPos += imPos
		}
		ap := math.NaN()
		if numPos > 0 {
			sort.Stable(byScore(vals))
			ap = avgPrec(vals, numPos)
			aps = append(aps, ap)
		}
		metrics[CategoryKey(e.iou, cat.Name)] = ap
	}
	if len(aps) == 0 {
		return nil, fmt.Errorf("no category has ground-truth instances")
	}
	metrics[MAPKey(e.iou)] = floats.Sum(aps) / float64(len(aps))
	return metrics, nil
}

// validate greedily matches one image's detections of one category
// against its ground truth, in decreasing score order. A detection whose
// best overlap is a difficult region is ignored. Returns the validated
// detections and the number of non-difficult ground-truth instances.
func (e *PascalEvaluator) validate(key string, class int) ([]valScore, int) {
	gt := e.gt[key]
	det := e.det[key]

	var gtBoxes [][4]float64
	var gtDifficult []bool
	for i, c := range gt.Classes {
		if c != class {
			continue
		}
		gtBoxes = append(gtBoxes, gt.Boxes[i])
		gtDifficult = append(gtDifficult, gt.Difficult[i])
	}
	var numPos int
	for _, difficult := range gtDifficult {
		if !difficult {
			numPos++
		}
	}

	var order []int
	for i, c := range det.Classes {
		if c == class {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return det.Scores[order[i]] > det.Scores[order[j]]
	})

	matched := make([]bool, len(gtBoxes))
	var vals []valScore
	for _, i := range order {
		best := -1
		bestIOU := 0.0
		for j := range gtBoxes {
			overlap := IOU(det.Boxes[i], gtBoxes[j])
			if overlap >= e.iou && overlap > bestIOU {
				best = j
				bestIOU = overlap
			}
		}
		switch {
		case best < 0:
			vals = append(vals, valScore{Score: det.Scores[i], True: false})
		case gtDifficult[best]:
			// Ignored region. Neither correct nor incorrect.
		case matched[best]:
			vals = append(vals, valScore{Score: det.Scores[i], True: false})
		default:
			matched[best] = true
			vals = append(vals, valScore{Score: det.Scores[i], True: true})
		}
	}
	return vals, numPos
}

// avgPrec integrates the precision envelope over recall.
// vals must be sorted by decreasing score.
func avgPrec(vals []valScore, numPos int) float64 {
	n := len(vals)
	prec := make([]float64, n)
	recall := make([]float64, n)
	var truePos int
	for i, v := range vals {
		if v.True {
			truePos++
		}
		prec[i] = float64(truePos) / float64(i+1)
		recall[i] = float64(truePos) / float64(numPos)
	}
	// Make precision monotonically decreasing from the right.
	for i := n - 2; i >= 0; i-- {
		prec[i] = math.Max(prec[i], prec[i+1])
	}
	var ap float64
	prev := 0.0
	for i := 0; i < n; i++ {
		ap += (recall[i] - prev) * prec[i]
		prev = recall[i]
	}
	return ap
}
