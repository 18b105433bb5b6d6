package yoloedit

// Mapping between image-pixel space and screen space.

import (
	"fmt"
	"math"
)

// The zoom multiplier limits. A zoom of 1.0 fits the image to the viewport.
const (
	MinZoom = 0.05
	MaxZoom = 20.0
)

// ClampZoom limits a zoom multiplier to [MinZoom, MaxZoom].
func ClampZoom(zoom float64) float64 {
	return math.Min(math.Max(zoom, MinZoom), MaxZoom)
}

// ViewTransform maps image-pixel coordinates to screen coordinates for one
// image centered in a viewport. The image is recentered from the current zoom
// and viewport size on every use; no pan offset is tracked.
type ViewTransform struct {
	ImageW, ImageH       int
	ViewportW, ViewportH float64
	Zoom                 float64
}

// NewViewTransform constructs a transform for the given image and viewport
// dimensions. Zoom is clamped to the supported range. Non-positive dimensions
// are a caller error; there is no sane default to map coordinates with.
func NewViewTransform(imageW, imageH int, viewportW, viewportH, zoom float64) (ViewTransform, error) {
	if imageW <= 0 || imageH <= 0 {
		return ViewTransform{}, fmt.Errorf("invalid image dimensions %dx%d", imageW, imageH)
	}
	if viewportW <= 0 || viewportH <= 0 {
		return ViewTransform{}, fmt.Errorf("invalid viewport size %gx%g", viewportW, viewportH)
	}

	return ViewTransform{
		ImageW:    imageW,
		ImageH:    imageH,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Zoom:      ClampZoom(zoom),
	}, nil
}

// Scale is the effective image-to-screen scale factor: the aspect-preserving
// fit-to-viewport scale times the zoom multiplier.
func (v ViewTransform) Scale() float64 {
	fit := math.Min(v.ViewportW/float64(v.ImageW), v.ViewportH/float64(v.ImageH))
	return fit * v.Zoom
}

// Offset is the screen position of the image's top-left corner, centering the
// scaled image in the viewport.
func (v ViewTransform) Offset() (x, y float64) {
	scale := v.Scale()
	x = (v.ViewportW - float64(v.ImageW)*scale) / 2
	y = (v.ViewportH - float64(v.ImageH)*scale) / 2
	return x, y
}

// ImageToScreen maps an image-pixel point to screen coordinates.
func (v ViewTransform) ImageToScreen(ix, iy float64) (sx, sy float64) {
	ox, oy := v.Offset()
	scale := v.Scale()
	return ox + ix*scale, oy + iy*scale
}

// ScreenToImage maps a screen point to image-pixel coordinates. It is the
// inverse of ImageToScreen.
func (v ViewTransform) ScreenToImage(sx, sy float64) (ix, iy float64) {
	ox, oy := v.Offset()
	scale := v.Scale()
	return (sx - ox) / scale, (sy - oy) / scale
}

// ScreenRect maps an image-pixel rectangle to screen space.
func (v ViewTransform) ScreenRect(r Rect) Rect {
	x, y := v.ImageToScreen(r.X, r.Y)
	scale := v.Scale()
	return Rect{X: x, Y: y, W: r.W * scale, H: r.H * scale}
}

// HitTest returns the id of the topmost live box whose rectangle contains the
// screen point (sx, sy). Later boxes in the collection are drawn on top and
// therefore tested first.
func (v ViewTransform) HitTest(boxes []Box, sx, sy float64) (string, bool) {
	ix, iy := v.ScreenToImage(sx, sy)
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].Deleted {
			continue
		}
		r, err := boxes[i].PixelRect(v.ImageW, v.ImageH)
		if err != nil {
			continue
		}
		if r.Contains(ix, iy) {
			return boxes[i].ID, true
		}
	}

	return "", false
}
