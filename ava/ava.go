/*
Package ava loads annotations in the AVA CSV format.

Ground truth and detection files share one row format:
	video_id,timestamp,x1,y1,x2,y2,action_id[,score]
Boxes are stored in (y1, x1, y2, x2) order to match the shape
expected by the evaluator.
*/
package ava

import (
	"fmt"
	"sort"
	"strconv"
)

// ImageKey returns a unique identifier for a video id and timestamp.
// The timestamp is rendered with four digits, e.g. "vid,0042".
func ImageKey(video string, timestamp int) string {
	return fmt.Sprintf("%s,%04d", video, timestamp)
}

// Box is one annotated or detected region in a frame.
type Box struct {
	// Coords are normalized (y1, x1, y2, x2).
	Coords [4]float64
	Label  int
	Score  float64
}

// ParseRow converts one CSV row into an image key and a box.
// Rows must have 7 fields, or 8 if they carry a score.
// The score defaults to 1 when absent.
// If whitelist is non-nil and the row's action id is not a member,
// the row is dropped: ok is false and err is nil.
func ParseRow(row []string, whitelist map[int]bool) (key string, box Box, ok bool, err error) {
	if len(row) != 7 && len(row) != 8 {
		return "", Box{}, false, fmt.Errorf("wrong number of columns: %d: %v", len(row), row)
	}
	timestamp, err := strconv.Atoi(row[1])
	if err != nil {
		return "", Box{}, false, fmt.Errorf("parse timestamp %q: %v", row[1], err)
	}
	var coords [4]float64
	for i := 0; i < 4; i++ {
		coords[i], err = strconv.ParseFloat(row[2+i], 64)
		if err != nil {
			return "", Box{}, false, fmt.Errorf("parse coordinate %q: %v", row[2+i], err)
		}
	}
	x1, y1, x2, y2 := coords[0], coords[1], coords[2], coords[3]
	label, err := strconv.Atoi(row[6])
	if err != nil {
		return "", Box{}, false, fmt.Errorf("parse action id %q: %v", row[6], err)
	}
	if whitelist != nil && !whitelist[label] {
		return "", Box{}, false, nil
	}
	score := 1.0
	if len(row) == 8 {
		score, err = strconv.ParseFloat(row[7], 64)
		if err != nil {
			return "", Box{}, false, fmt.Errorf("parse score %q: %v", row[7], err)
		}
	}
	box = Box{Coords: [4]float64{y1, x1, y2, x2}, Label: label, Score: score}
	return ImageKey(row[0], timestamp), box, true, nil
}

// FrameIndex maps image keys to the boxes, labels and scores of a frame.
// The three sequences for a key have equal length and position i of each
// describes the same box. A frame with no surviving rows has no entry.
type FrameIndex struct {
	Boxes  map[string][][4]float64
	Labels map[string][]int
	Scores map[string][]float64
}

func NewFrameIndex() *FrameIndex {
	return &FrameIndex{
		Boxes:  make(map[string][][4]float64),
		Labels: make(map[string][]int),
		Scores: make(map[string][]float64),
	}
}

func (x *FrameIndex) Add(key string, box Box) {
	x.Boxes[key] = append(x.Boxes[key], box.Coords)
	x.Labels[key] = append(x.Labels[key], box.Label)
	x.Scores[key] = append(x.Scores[key], box.Score)
}

// Keys returns the image keys in sorted order.
func (x *FrameIndex) Keys() []string {
	keys := make([]string, 0, len(x.Boxes))
	for key := range x.Boxes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
