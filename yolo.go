package yoloedit

// YOLO label format parsing and serialization.

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLabels parses YOLO label text into a box collection. Each non-empty
// line that does not start with '#' describes one box as
// "<classId> <xCenter> <yCenter> <width> <height>" with whitespace-separated
// tokens and fractional coordinates. Malformed or out-of-range lines are
// skipped; their count is returned alongside the parsed boxes. Every parsed
// box receives a fresh id.
func ParseLabels(text string) (boxes []Box, skipped int) {
	lines := strings.Split(text, "\n")
	boxes = make([]Box, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		b, err := parseLabelLine(line)
		if err != nil {
			skipped++
			continue
		}
		boxes = append(boxes, b)
	}

	return boxes, skipped
}

// parseLabelLine parses the values for a single annotation.
func parseLabelLine(line string) (Box, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 5 {
		return Box{}, fmt.Errorf("insufficient tokens in %q", line)
	}

	classID, err := strconv.Atoi(tokens[0])
	if err != nil {
		return Box{}, fmt.Errorf("unexpected class id in %q: %v", line, err)
	}

	var vals [4]float64
	for i := 1; i < 5 && err == nil; i++ {
		vals[i-1], err = strconv.ParseFloat(tokens[i], 64)
	}
	if err != nil {
		return Box{}, fmt.Errorf("unexpected values in %q: %v", line, err)
	}

	b := NewBox(classID, vals[0], vals[1], vals[2], vals[3])
	if err := validateBox(b); err != nil {
		return Box{}, err
	}

	return b, nil
}

// validateBox checks the YOLO value ranges: a non-negative class id, centers
// in [0, 1] and sizes in (0, 1].
func validateBox(b Box) error {
	switch {
	case b.ClassID < 0:
		return fmt.Errorf("negative class id %d", b.ClassID)
	case b.XCenter < 0 || b.XCenter > 1:
		return fmt.Errorf("x center %v out of range", b.XCenter)
	case b.YCenter < 0 || b.YCenter > 1:
		return fmt.Errorf("y center %v out of range", b.YCenter)
	case b.Width <= 0 || b.Width > 1:
		return fmt.Errorf("width %v out of range", b.Width)
	case b.Height <= 0 || b.Height > 1:
		return fmt.Errorf("height %v out of range", b.Height)
	}
	return nil
}

// SerializeLabels formats a box collection as YOLO label text: one box per
// line with six decimal places, deleted boxes excluded, no trailing newline.
// Parsing the result reproduces the same classes and coordinates to the
// serialized precision.
func SerializeLabels(boxes []Box) string {
	lines := make([]string, 0, len(boxes))
	for _, b := range boxes {
		if b.Deleted {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d %.6f %.6f %.6f %.6f",
			b.ClassID, b.XCenter, b.YCenter, b.Width, b.Height))
	}

	return strings.Join(lines, "\n")
}
