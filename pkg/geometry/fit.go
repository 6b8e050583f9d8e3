// Package geometry computes canvas dimensions for uploaded images.
package geometry

import "math"

// Bounds is the largest canvas the editor will allocate.
type Bounds struct {
	MaxWidth  float64
	MaxHeight float64
}

// DefaultBounds is the 1024x1024 limit used by the inpainting model.
var DefaultBounds = Bounds{MaxWidth: 1024, MaxHeight: 1024}

// Dimensions is a canvas size before rounding to whole pixels.
type Dimensions struct {
	Width  float64
	Height float64
}

// Pixels rounds both sides to whole pixels. A side never rounds below 1.
func (d Dimensions) Pixels() (width, height int) {
	return roundSide(d.Width), roundSide(d.Height)
}

// Aspect returns width/height.
func (d Dimensions) Aspect() float64 {
	if d.Height == 0 {
		return 0
	}
	return d.Width / d.Height
}

// Fit scales a naturalW x naturalH image into bounds, preserving aspect ratio.
//
// Width is clamped first. Height is then clamped on its own, recomputing width
// from the natural size; width is not checked again afterwards. The second pass
// only runs when height is over bound, which makes the recomputed width smaller
// than the one it replaces, so the unchecked width still fits. Rounding to
// pixels is the only source of aspect drift (see Pixels).
func Fit(naturalW, naturalH int, b Bounds) Dimensions {
	w := float64(naturalW)
	h := float64(naturalH)
	out := Dimensions{Width: w, Height: h}

	if out.Width > b.MaxWidth {
		out.Width = b.MaxWidth
		out.Height = h * b.MaxWidth / w
	}
	if out.Height > b.MaxHeight {
		out.Height = b.MaxHeight
		out.Width = w * b.MaxHeight / h
	}
	return out
}

func roundSide(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}
