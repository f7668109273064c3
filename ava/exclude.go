package ava

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReadExclusions loads a CSV of video_id,timestamp pairs and returns the
// set of image keys to exclude. A nil reader yields an empty set.
func ReadExclusions(r io.Reader) (map[string]bool, error) {
	excluded := make(map[string]bool)
	if r == nil {
		return excluded, nil
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) != 2 {
			return nil, fmt.Errorf("expected 2 columns, got %d: %v", len(row), row)
		}
		timestamp, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %v", row[1], err)
		}
		excluded[ImageKey(row[0], timestamp)] = true
	}
	return excluded, nil
}
