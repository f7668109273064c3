package ava

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Category is one entry of the action label map.
type Category struct {
	ID   int
	Name string
}

// ReadLabelMap reads a label map in pbtxt form without depending on
// protocol buffers. Parsing is line-driven: a name line is remembered and
// attached to the next id line. Categories are returned in encounter
// order, together with the set of valid action ids.
func ReadLabelMap(r io.Reader) ([]Category, map[int]bool, error) {
	var categories []Category
	classIDs := make(map[int]bool)
	var name string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "  name:"):
			parts := strings.Split(line, `"`)
			if len(parts) < 2 {
				return nil, nil, fmt.Errorf("name line without quoted value: %q", line)
			}
			name = parts[1]
		case strings.HasPrefix(line, "  id:") || strings.HasPrefix(line, "  label_id:"):
			fields := strings.Fields(line)
			id, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil {
				return nil, nil, err
			}
			categories = append(categories, Category{ID: id, Name: name})
			classIDs[id] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return categories, classIDs, nil
}
