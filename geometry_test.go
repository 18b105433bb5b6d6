package yoloedit

import (
	"math"
	"testing"
)

func TestBox_PixelRect(t *testing.T) {
	b := NewBox(0, 0.5, 0.5, 0.2, 0.4)
	r, err := b.PixelRect(1000, 500)
	if err != nil {
		t.Fatalf("PixelRect: %v", err)
	}

	want := Rect{X: 400, Y: 150, W: 200, H: 200}
	if r != want {
		t.Fatalf("PixelRect = %+v, want %+v", r, want)
	}

	if _, err := b.PixelRect(0, 500); err == nil {
		t.Fatal("expected an error for zero image dimensions")
	}
}

func TestBoxFromPixelRect_InvertsPixelRect(t *testing.T) {
	const tol = 1e-12
	in := NewBox(3, 0.42, 0.11, 0.3, 0.05)

	r, err := in.PixelRect(1920, 1080)
	if err != nil {
		t.Fatalf("PixelRect: %v", err)
	}
	out, err := BoxFromPixelRect(in.ClassID, r, 1920, 1080)
	if err != nil {
		t.Fatalf("BoxFromPixelRect: %v", err)
	}

	if out.ClassID != in.ClassID {
		t.Fatalf("class = %d, want %d", out.ClassID, in.ClassID)
	}
	if math.Abs(out.XCenter-in.XCenter) > tol || math.Abs(out.YCenter-in.YCenter) > tol ||
			math.Abs(out.Width-in.Width) > tol || math.Abs(out.Height-in.Height) > tol {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
	if out.ID == in.ID {
		t.Fatal("BoxFromPixelRect must mint a fresh id")
	}

	if _, err := BoxFromPixelRect(0, r, 1920, 0); err == nil {
		t.Fatal("expected an error for zero image dimensions")
	}
}

func TestRect_Intersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 10, H: 10}
	cases := []struct {
		name string
		r    Rect
		want bool
	}{
		{"overlapping", Rect{X: 5, Y: 5, W: 10, H: 10}, true},
		{"contained", Rect{X: 2, Y: 2, W: 3, H: 3}, true},
		{"touching right edge", Rect{X: 10, Y: 0, W: 5, H: 5}, true},
		{"touching corner", Rect{X: 10, Y: 10, W: 5, H: 5}, true},
		{"separated on x", Rect{X: 11, Y: 0, W: 5, H: 5}, false},
		{"separated on y", Rect{X: 0, Y: -6, W: 5, H: 5}, false},
	}
	for _, c := range cases {
		if got := base.Intersects(c.r); got != c.want {
			t.Fatalf("%s: Intersects = %v, want %v", c.name, got, c.want)
		}
		if got := c.r.Intersects(base); got != c.want {
			t.Fatalf("%s: Intersects is not symmetric", c.name)
		}
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	for _, p := range [][2]float64{{10, 20}, {40, 60}, {10, 60}, {40, 20}, {25, 40}} {
		if !r.Contains(p[0], p[1]) {
			t.Fatalf("Contains(%v, %v) = false, want true (edges are inclusive)", p[0], p[1])
		}
	}
	for _, p := range [][2]float64{{9.99, 20}, {40.01, 60}, {25, 19.99}, {25, 60.01}} {
		if r.Contains(p[0], p[1]) {
			t.Fatalf("Contains(%v, %v) = true, want false", p[0], p[1])
		}
	}
}
