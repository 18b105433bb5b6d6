package yoloedit

// The in-memory representation of box annotations.

import (
	"github.com/google/uuid"
)

// Box is a single bounding box annotation on one image.
//
// The coordinates are fractions of the image dimensions: (XCenter, YCenter)
// is the box center and (Width, Height) its size, all in [0, 1].
type Box struct {
	ID      string // Opaque identifier, unique within one image, stable across clones.
	ClassID int    // Non-negative category index.
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64

	Deleted  bool // Tombstone; deleted boxes stay in the collection for undo.
	Selected bool // Transient UI state, never persisted.
}

// NewBox creates a live, unselected box with a fresh id.
func NewBox(classID int, xCenter, yCenter, width, height float64) Box {
	return Box{
		ID:      uuid.NewString(),
		ClassID: classID,
		XCenter: xCenter,
		YCenter: yCenter,
		Width:   width,
		Height:  height,
	}
}

// CloneBoxes returns an independent copy of a box collection. Ids are
// preserved; mutating the copy never affects the source.
func CloneBoxes(boxes []Box) []Box {
	if boxes == nil {
		return nil
	}
	out := make([]Box, len(boxes))
	copy(out, boxes)
	return out
}

// LiveBoxes returns the non-deleted boxes from the collection, in order.
func LiveBoxes(boxes []Box) []Box {
	live := make([]Box, 0, len(boxes))
	for _, b := range boxes {
		if !b.Deleted {
			live = append(live, b)
		}
	}
	return live
}
