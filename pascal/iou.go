package pascal

import "math"

func area(b [4]float64) float64 {
	h := b[2] - b[0]
	w := b[3] - b[1]
	if h <= 0 || w <= 0 {
		return 0
	}
	return h * w
}

func interArea(a, b [4]float64) float64 {
	y1 := math.Max(a[0], b[0])
	x1 := math.Max(a[1], b[1])
	y2 := math.Min(a[2], b[2])
	x2 := math.Min(a[3], b[3])
	return area([4]float64{y1, x1, y2, x2})
}

// IOU returns the intersection-over-union of two (y1, x1, y2, x2) boxes.
// Returns zero if both boxes are empty.
func IOU(a, b [4]float64) float64 {
	inter := interArea(a, b)
	union := area(a) + area(b) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
