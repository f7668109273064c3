/*
Package pascal scores detections against ground truth in the PASCAL VOC
style: per-category average precision at a fixed intersection-over-union
threshold, plus the mean over categories.

The Evaluator interface is the seam between annotation ingestion and
scoring, so that another scoring engine can be substituted.
*/
package pascal

import (
	"fmt"
	"strconv"
)

// GroundTruth holds the annotated boxes of one image.
// Boxes are normalized (y1, x1, y2, x2).
// Difficult regions do not count as positives and detections matched to
// them are neither correct nor incorrect.
type GroundTruth struct {
	Boxes     [][4]float64
	Classes   []int
	Difficult []bool
}

// Detections holds the detected boxes of one image.
type Detections struct {
	Boxes   [][4]float64
	Classes []int
	Scores  []float64
}

// Evaluator accumulates per-image ground truth and detections and then
// computes a map from metric name to value.
type Evaluator interface {
	AddGroundTruth(key string, gt GroundTruth) error
	AddDetections(key string, det Detections) error
	Evaluate() (map[string]float64, error)
}

// MAPKey is the metric name of the mean average precision.
func MAPKey(iou float64) string {
	return "PascalBoxes_Precision/mAP@" + formatIOU(iou) + "IOU"
}

// CategoryKey is the metric name of one category's average precision.
// Category names may themselves contain "/", so consumers should compare
// by the final path component.
func CategoryKey(iou float64, name string) string {
	return fmt.Sprintf("PascalBoxes_PerformanceByCategory/AP@%sIOU/%s", formatIOU(iou), name)
}

func formatIOU(iou float64) string {
	return strconv.FormatFloat(iou, 'g', -1, 64)
}
