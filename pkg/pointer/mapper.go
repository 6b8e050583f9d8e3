// Package pointer maps on-screen pointer input onto the mask surface.
//
// A canvas may be displayed at a different size than its pixel dimensions, so
// page coordinates are transformed into intrinsic mask coordinates before any
// painting. The brush cursor ring is positioned in on-screen space and uses
// the untransformed offset instead; the two spaces have distinct types.
package pointer

// PagePoint is a pointer position in page (client) coordinates.
type PagePoint struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// ScreenPoint is an offset inside the canvas's on-screen box, in CSS pixels.
type ScreenPoint struct {
	X float64
	Y float64
}

// MaskPoint is a position in the mask buffer's intrinsic pixel grid.
type MaskPoint struct {
	X float64
	Y float64
}

// Box is the canvas's on-screen bounding box.
type Box struct {
	Left   float64 `yaml:"left" json:"left"`
	Top    float64 `yaml:"top" json:"top"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Scale returns intrinsic pixels per on-screen pixel on each axis.
// ok is false when the box has no area.
func (b Box) Scale(intrinsicW, intrinsicH int) (scaleX, scaleY float64, ok bool) {
	if b.Width <= 0 || b.Height <= 0 {
		return 0, 0, false
	}
	return float64(intrinsicW) / b.Width, float64(intrinsicH) / b.Height, true
}

// MapToMask converts a page point into mask coordinates.
func MapToMask(p PagePoint, box Box, intrinsicW, intrinsicH int) (MaskPoint, bool) {
	sx, sy, ok := box.Scale(intrinsicW, intrinsicH)
	if !ok {
		return MaskPoint{}, false
	}
	return MaskPoint{
		X: (p.X - box.Left) * sx,
		Y: (p.Y - box.Top) * sy,
	}, true
}

// Offset returns the untransformed position of p inside box.
func Offset(p PagePoint, box Box) ScreenPoint {
	return ScreenPoint{X: p.X - box.Left, Y: p.Y - box.Top}
}
