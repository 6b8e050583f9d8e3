// Package canvas keeps the editor's image layer and mask layer pixel-aligned.
//
// The image layer is drawn once from the source image and never changes. The
// mask layer starts as solid background and is only mutated by brush strokes
// and Clear. Both share the same intrinsic dimensions.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/user/maskpaint/pkg/geometry"
	"github.com/user/maskpaint/pkg/ports"
)

// Polarity selects which colour marks the region to regenerate.
type Polarity string

const (
	// WhiteOnBlack paints white over a black background. Replicate's
	// stable-diffusion inpainting treats white as "repaint".
	WhiteOnBlack Polarity = "white-on-black"
	// BlackOnWhite paints black over a white background.
	BlackOnWhite Polarity = "black-on-white"
)

// ParsePolarity maps a config string to a Polarity, defaulting to WhiteOnBlack.
func ParsePolarity(s string) Polarity {
	if Polarity(s) == BlackOnWhite {
		return BlackOnWhite
	}
	return WhiteOnBlack
}

// Colors returns the paint and background colours for the polarity.
func (p Polarity) Colors() (paint, background color.RGBA) {
	black := color.RGBA{A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if p == BlackOnWhite {
		return black, white
	}
	return white, black
}

// MaskStyle configures the mask layer brush and preview overlay.
type MaskStyle struct {
	Polarity       Polarity
	BrushSize      float64
	OverlayOpacity float64
}

// DefaultMaskStyle matches the editor defaults: 60px brush, half-opaque overlay.
func DefaultMaskStyle() MaskStyle {
	return MaskStyle{
		Polarity:       WhiteOnBlack,
		BrushSize:      60,
		OverlayOpacity: 0.5,
	}
}

// Dual owns the two layers for one source image.
type Dual struct {
	renderer ports.Renderer
	style    MaskStyle
	width    int
	height   int
	paint    color.RGBA
	bg       color.RGBA

	image image.Image
	mask  ports.Canvas
}

// New draws src into an image layer of dims and creates a background-filled mask
// layer of the same size with the brush configured for the session.
func New(renderer ports.Renderer, src image.Image, dims geometry.Dimensions, style MaskStyle) *Dual {
	w, h := dims.Pixels()
	paint, bg := style.Polarity.Colors()

	layer := renderer.CreateCanvas(w, h, color.Transparent)
	layer.DrawImage(renderer.ResizeImage(src, w, h), 0, 0)

	d := &Dual{
		renderer: renderer,
		style:    style,
		width:    w,
		height:   h,
		paint:    paint,
		bg:       bg,
		image:    cloneRGBA(layer.ToImage()),
		mask:     renderer.CreateCanvas(w, h, bg),
	}
	d.mask.SetBrush(ports.Brush{
		Color: paint,
		Width: style.BrushSize,
		Cap:   ports.CapRound,
		Join:  ports.JoinRound,
	})
	return d
}

// Size returns the intrinsic pixel size shared by both layers.
func (d *Dual) Size() (width, height int) {
	return d.width, d.height
}

// Style returns the mask style the layers were created with.
func (d *Dual) Style() MaskStyle {
	return d.style
}

// FillCircle paints a disc of radius r at (x, y) in mask coordinates.
func (d *Dual) FillCircle(x, y, r float64) {
	d.mask.FillCircle(x, y, r)
	d.settle(x-r, y-r, x+r, y+r)
}

// StrokeSegment paints a brush-width segment between two mask points.
func (d *Dual) StrokeSegment(x0, y0, x1, y1 float64) {
	d.mask.StrokeSegment(x0, y0, x1, y1)
	half := d.style.BrushSize / 2
	d.settle(math.Min(x0, x1)-half, math.Min(y0, y1)-half, math.Max(x0, x1)+half, math.Max(y0, y1)+half)
}

// Clear resets the mask layer to solid background. The brush is kept.
func (d *Dual) Clear() {
	d.mask.Fill(d.bg)
}

// Snapshot encodes the whole mask layer as PNG.
func (d *Dual) Snapshot() ([]byte, error) {
	data, err := d.renderer.EncodeImage(d.mask.ToImage(), ports.FormatPNG, 0)
	if err != nil {
		return nil, fmt.Errorf("snapshot mask: %w", err)
	}
	return data, nil
}

// ImageSnapshot encodes the image layer as PNG.
func (d *Dual) ImageSnapshot() ([]byte, error) {
	data, err := d.renderer.EncodeImage(d.image, ports.FormatPNG, 0)
	if err != nil {
		return nil, fmt.Errorf("snapshot image: %w", err)
	}
	return data, nil
}

// MaskImage returns a copy of the mask layer.
func (d *Dual) MaskImage() *image.RGBA {
	return cloneRGBA(d.mask.ToImage())
}

// Image returns the image layer. It must not be modified.
func (d *Dual) Image() image.Image {
	return d.image
}

// Composite renders the preview: the photo with the mask on top at the
// configured overlay opacity.
func (d *Dual) Composite() image.Image {
	out := d.renderer.CreateCanvas(d.width, d.height, color.Transparent)
	out.DrawImage(d.image, 0, 0)
	out.DrawImageAlpha(d.mask.ToImage(), d.style.OverlayOpacity)
	return out.ToImage()
}

// IsBlank reports whether every mask pixel is background.
func (d *Dual) IsBlank() bool {
	img := d.mask.ToImage()
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			if img.RGBAAt(x, y) != d.bg {
				return false
			}
		}
	}
	return true
}

// settle re-binarises the area a brush operation may have touched.
func (d *Dual) settle(minX, minY, maxX, maxY float64) {
	rect := image.Rect(
		int(math.Floor(minX))-1,
		int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1,
		int(math.Ceil(maxY))+1,
	)
	d.mask.Binarize(rect, d.paint, d.bg)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
