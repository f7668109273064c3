/*
Package eval drives evaluation of detection variants against AVA ground
truth and builds the pose confusion matrix.
*/
package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xzf1234/twostream-attention/ava"
)

// ConfusionMatrix counts matched (truth, predicted) pose pairs.
// Indices are zero-based pose ids (action id minus one).
type ConfusionMatrix [ava.NumPose][ava.NumPose]int

// ConfusionOpts controls confusion-matrix construction.
// The zero value reproduces the historical behavior: a ground-truth match
// key with no detection entry is an error.
type ConfusionOpts struct {
	// SkipUnmatched treats a ground-truth key with no detection entry
	// as "no prediction" instead of failing.
	SkipUnmatched bool
}

const matchSep = "@"

// matchKey aligns a ground-truth box with a detected box purely by
// coordinate equality: video id, frame id with leading zeros stripped,
// and the four coordinates formatted to three decimals, in file order.
func matchKey(row []string) (string, error) {
	if len(row) != 7 && len(row) != 8 {
		return "", fmt.Errorf("wrong number of columns: %d: %v", len(row), row)
	}
	parts := make([]string, 0, 6)
	parts = append(parts, row[0], strings.TrimLeft(row[1], "0"))
	for _, field := range row[2:6] {
		coord, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return "", fmt.Errorf("parse coordinate %q: %v", field, err)
		}
		parts = append(parts, fmt.Sprintf("%.3f", coord))
	}
	return strings.Join(parts, matchSep), nil
}

// scan rewinds the source and calls fn on every row.
func scan(r io.ReadSeeker, fn func(row []string) error) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// index builds the match-key index of one row source in two passes:
// first register every key, then append action ids. Pre-registration
// tolerates rows for the same key arriving in any order.
func index(r io.ReadSeeker) (map[string][]int, error) {
	acts := make(map[string][]int)
	err := scan(r, func(row []string) error {
		key, err := matchKey(row)
		if err != nil {
			return err
		}
		acts[key] = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = scan(r, func(row []string) error {
		key, err := matchKey(row)
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(row[6])
		if err != nil {
			return fmt.Errorf("parse action id %q: %v", row[6], err)
		}
		acts[key] = append(acts[key], id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acts, nil
}

// lastPose returns the zero-based index of the last pose-band action in
// the list, or -1 if there is none. Later entries deliberately win.
func lastPose(acts []int) int {
	pose := -1
	for _, id := range acts {
		if id <= ava.NumPose {
			pose = id - 1
		}
	}
	return pose
}

// Confusion tallies the pose confusion matrix from raw ground-truth and
// detection row sources belonging to the same run. Both sources are
// rewound and scanned twice. For every match key with a pose action on
// both sides, the (truth, predicted) cell and its transpose are
// incremented; the diagonal is incremented once.
func Confusion(gt, det io.ReadSeeker, opts ConfusionOpts) (*ConfusionMatrix, error) {
	gtActs, err := index(gt)
	if err != nil {
		return nil, err
	}
	detActs, err := index(det)
	if err != nil {
		return nil, err
	}

	cm := new(ConfusionMatrix)
	for key, acts := range gtActs {
		predActs, ok := detActs[key]
		if !ok {
			if opts.SkipUnmatched {
				continue
			}
			return nil, fmt.Errorf("no detection entry for key %q", key)
		}
		truth := lastPose(acts)
		pred := lastPose(predActs)
		if truth < 0 || pred < 0 {
			continue
		}
		cm[truth][pred]++
		if truth != pred {
			cm[pred][truth]++
		}
	}
	return cm, nil
}
