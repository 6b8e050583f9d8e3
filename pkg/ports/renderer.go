package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts raster operations for the editor's image and mask layers.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage sniffs and decodes image data, applies any EXIF orientation
	// and reports the format name, e.g. "png".
	DecodeImage(data []byte) (image.Image, string, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas is a mutable raster surface with a persistent brush, modelled on a
// 2D drawing context: the brush is configured once and reused by every stroke.
type Canvas interface {
	// Fill paints the entire canvas with c.
	Fill(c color.Color)

	// SetBrush configures color, width, cap and join for subsequent strokes.
	SetBrush(brush Brush)

	// FillCircle paints a filled disc of radius r centred at (x, y) with the brush color.
	FillCircle(x, y, r float64)

	// StrokeSegment strokes a line from (x0, y0) to (x1, y1) with the current brush.
	StrokeSegment(x0, y0, x1, y1 float64)

	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// DrawImageAlpha draws an image at the origin with the given opacity (0..1).
	DrawImageAlpha(img image.Image, opacity float64)

	// Binarize snaps every pixel inside rect to whichever of fg or bg it is
	// closer to, keeping the surface strictly two-colour.
	Binarize(rect image.Rectangle, fg, bg color.Color)

	// Size returns the canvas dimensions in pixels.
	Size() (width, height int)

	// ToImage returns the canvas backing image. Callers must not retain it
	// across further drawing.
	ToImage() *image.RGBA
}

// Brush describes stroke state for a Canvas.
type Brush struct {
	Color color.Color
	Width float64
	Cap   LineCap
	Join  LineJoin
}

// LineCap specifies how stroke ends are drawn.
type LineCap int

const (
	CapRound LineCap = iota
	CapButt
	CapSquare
)

// LineJoin specifies how stroke corners are drawn.
type LineJoin int

const (
	JoinRound LineJoin = iota
	JoinBevel
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
	FormatAuto
)
