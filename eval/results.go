package eval

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xzf1234/twostream-attention/ava"
)

// WriteResults writes one line per variant:
//	<label>: mAP@<iou>IOU = <value>
func WriteResults(w io.Writer, iou float64, results []*VariantResult) error {
	for _, res := range results {
		_, err := fmt.Fprintf(w, "%s: mAP@%sIOU = %s\n",
			res.Label,
			strconv.FormatFloat(iou, 'g', -1, 64),
			strconv.FormatFloat(res.MAP, 'g', -1, 64))
		if err != nil {
			return err
		}
	}
	return nil
}

// FiniteMetrics returns a copy of the metric map without NaN entries.
// Categories with no ground-truth instances have NaN average precision,
// which cannot be written as JSON.
func FiniteMetrics(metrics map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for name, value := range metrics {
		if math.IsNaN(value) {
			continue
		}
		out[name] = value
	}
	return out
}

// GroupByBand buckets per-category results by semantic band,
// preserving category order within each band.
func GroupByBand(perCategory []CategoryAP) map[ava.Band][]CategoryAP {
	bands := make(map[ava.Band][]CategoryAP)
	for _, c := range perCategory {
		band := ava.BandOf(c.Category.ID)
		bands[band] = append(bands[band], c)
	}
	return bands
}

// Interleave splits a list into the given number of contiguous parts and
// merges them round-robin, so that the i-th entries of each part become
// adjacent. Trailing entries of parts longer than the shortest part are
// dropped.
func Interleave[T any](xs []T, parts int) []T {
	n := len(xs)
	chunks := make([][]T, parts)
	shortest := -1
	for i := 0; i < parts; i++ {
		chunks[i] = xs[i*n/parts : (i+1)*n/parts]
		if shortest < 0 || len(chunks[i]) < shortest {
			shortest = len(chunks[i])
		}
	}
	out := make([]T, 0, shortest*parts)
	for j := 0; j < shortest; j++ {
		for i := range chunks {
			out = append(out, chunks[i][j])
		}
	}
	return out
}
