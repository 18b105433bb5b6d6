package yoloedit

// Rectangle geometry for hit-testing and drag math.

import "fmt"

// Rect is an axis-aligned rectangle in pixel space, in top-left corner form.
type Rect struct {
	X, Y, W, H float64
}

// PixelRect converts the normalized box coordinates to a pixel-space Rect for
// an image with the given dimensions.
func (b Box) PixelRect(imgWidth, imgHeight int) (Rect, error) {
	if imgWidth <= 0 || imgHeight <= 0 {
		return Rect{}, fmt.Errorf("invalid image dimensions %dx%d", imgWidth, imgHeight)
	}

	w := b.Width * float64(imgWidth)
	h := b.Height * float64(imgHeight)
	return Rect{
		X: b.XCenter*float64(imgWidth) - w/2,
		Y: b.YCenter*float64(imgHeight) - h/2,
		W: w,
		H: h,
	}, nil
}

// BoxFromPixelRect converts a pixel-space rectangle to normalized coordinates
// for an image with the given dimensions. It is the inverse of PixelRect and
// mints a fresh box id.
func BoxFromPixelRect(classID int, r Rect, imgWidth, imgHeight int) (Box, error) {
	if imgWidth <= 0 || imgHeight <= 0 {
		return Box{}, fmt.Errorf("invalid image dimensions %dx%d", imgWidth, imgHeight)
	}

	return NewBox(classID,
		(r.X+r.W/2)/float64(imgWidth),
		(r.Y+r.H/2)/float64(imgHeight),
		r.W/float64(imgWidth),
		r.H/float64(imgHeight)), nil
}

// Intersects reports whether r and o overlap. Rectangles that merely touch
// along an edge count as intersecting.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W &&
			r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// Contains reports whether the point (x, y) lies within r, inclusive of all
// four edges.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}
