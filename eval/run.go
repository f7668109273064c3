package eval

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xzf1234/twostream-attention/ava"
	"github.com/xzf1234/twostream-attention/pascal"
)

// Experiment describes one named comparison: a ground-truth file and the
// detection files of each variant, with a display label per variant.
type Experiment struct {
	Name        string
	GroundTruth string
	Detections  []string
	Labels      []string
}

// CategoryAP is the average precision of one category.
type CategoryAP struct {
	Category ava.Category
	AP       float64
}

// VariantResult collects the metrics of one detection variant.
type VariantResult struct {
	Label       string
	MAP         float64
	PerCategory []CategoryAP
	// Metrics is the raw metric map returned by the evaluator.
	Metrics   map[string]float64
	Confusion *ConfusionMatrix
}

// RunVariant evaluates one detection source against one ground-truth
// source. Both annotation files are read once for scoring, then rewound
// and re-scanned for the confusion matrix. Frames in the excluded set are
// dropped from both sides before scoring.
func RunVariant(label string, gt, det io.ReadSeeker, cats []ava.Category,
	whitelist map[int]bool, excluded map[string]bool,
	ev pascal.Evaluator, iou float64, copts ConfusionOpts) (*VariantResult, error) {

	gtIndex, err := ava.ReadCSV(gt, whitelist)
	if err != nil {
		return nil, fmt.Errorf("read ground truth: %v", err)
	}
	for _, key := range gtIndex.Keys() {
		if excluded[key] {
			log.Printf("found excluded timestamp in ground truth: %s. It will be ignored.", key)
			continue
		}
		err := ev.AddGroundTruth(key, pascal.GroundTruth{
			Boxes:     gtIndex.Boxes[key],
			Classes:   gtIndex.Labels[key],
			Difficult: make([]bool, len(gtIndex.Boxes[key])),
		})
		if err != nil {
			return nil, err
		}
	}

	detIndex, err := ava.ReadCSV(det, whitelist)
	if err != nil {
		return nil, fmt.Errorf("read detections: %v", err)
	}
	for _, key := range detIndex.Keys() {
		if excluded[key] {
			log.Printf("found excluded timestamp in detections: %s. It will be ignored.", key)
			continue
		}
		err := ev.AddDetections(key, pascal.Detections{
			Boxes:   detIndex.Boxes[key],
			Classes: detIndex.Labels[key],
			Scores:  detIndex.Scores[key],
		})
		if err != nil {
			return nil, err
		}
	}

	metrics, err := ev.Evaluate()
	if err != nil {
		return nil, err
	}

	res := &VariantResult{Label: label, Metrics: metrics}
	mapName := lastComponent(pascal.MAPKey(iou))
	perCategory := make(map[string]float64)
	for name, value := range metrics {
		if lastComponent(name) == mapName {
			res.MAP = value
			continue
		}
		perCategory[lastComponent(name)] = value
	}
	for _, cat := range cats {
		value, ok := perCategory[lastComponent(cat.Name)]
		if !ok {
			continue
		}
		res.PerCategory = append(res.PerCategory, CategoryAP{Category: cat, AP: value})
	}

	res.Confusion, err = Confusion(gt, det, copts)
	if err != nil {
		return nil, fmt.Errorf("confusion matrix: %v", err)
	}
	return res, nil
}

func lastComponent(name string) string {
	parts := strings.Split(name, "/")
	return parts[len(parts)-1]
}
