package ava

import (
	"encoding/csv"
	"io"
)

// ReadCSV loads boxes, labels and scores from a reader of AVA CSV rows.
// Rows whose action id is outside the whitelist are skipped.
// A row with a field count other than 7 or 8 aborts the read.
func ReadCSV(r io.Reader, whitelist map[int]bool) (*FrameIndex, error) {
	index := NewFrameIndex()
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
		key, box, ok, err := ParseRow(row, whitelist)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		index.Add(key, box)
	}
	return index, nil
}
