// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/user/maskpaint/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// CreateCanvas creates a new drawing canvas filled with bg.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	c := &Canvas{dc: dc}
	c.Fill(bg)
	return c
}

// DecodeImage decodes PNG, JPEG, GIF or WebP data. JPEG files are rotated
// according to their EXIF orientation tag.
func (r *Renderer) DecodeImage(data []byte) (image.Image, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	return img, format, nil
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context. gg keeps one path state and
// one paint colour, which matches the persistent brush of a 2D context.
type Canvas struct {
	dc    *gg.Context
	brush ports.Brush
}

// Fill paints the whole surface.
func (c *Canvas) Fill(col color.Color) {
	c.dc.Push()
	defer c.dc.Pop()
	c.dc.SetColor(col)
	c.dc.Clear()
}

// SetBrush configures the stroke state used by FillCircle and StrokeSegment.
func (c *Canvas) SetBrush(brush ports.Brush) {
	c.brush = brush
	c.dc.SetColor(brush.Color)
	c.dc.SetLineWidth(brush.Width)

	switch brush.Cap {
	case ports.CapButt:
		c.dc.SetLineCap(gg.LineCapButt)
	case ports.CapSquare:
		c.dc.SetLineCap(gg.LineCapSquare)
	default:
		c.dc.SetLineCap(gg.LineCapRound)
	}

	switch brush.Join {
	case ports.JoinBevel:
		c.dc.SetLineJoin(gg.LineJoinBevel)
	default:
		c.dc.SetLineJoin(gg.LineJoinRound)
	}
}

// FillCircle paints a disc with the brush colour.
func (c *Canvas) FillCircle(x, y, r float64) {
	c.dc.NewSubPath()
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

// StrokeSegment strokes one line segment with the brush.
func (c *Canvas) StrokeSegment(x0, y0, x1, y1 float64) {
	c.dc.NewSubPath()
	c.dc.MoveTo(x0, y0)
	c.dc.LineTo(x1, y1)
	c.dc.Stroke()
}

// DrawImage draws an image at the specified position.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// DrawImageAlpha composites img over the canvas at the given opacity.
func (c *Canvas) DrawImageAlpha(img image.Image, opacity float64) {
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	dst := c.ToImage()
	mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, dst.Bounds(), img, img.Bounds().Min, mask, image.Point{}, draw.Over)
}

// Binarize snaps each pixel in rect to the nearer of fg and bg.
func (c *Canvas) Binarize(rect image.Rectangle, fg, bg color.Color) {
	dst := c.ToImage()
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}

	f := color.RGBAModel.Convert(fg).(color.RGBA)
	b := color.RGBAModel.Convert(bg).(color.RGBA)

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			i := dst.PixOffset(x, y)
			px := color.RGBA{R: dst.Pix[i], G: dst.Pix[i+1], B: dst.Pix[i+2], A: dst.Pix[i+3]}
			out := b
			if distance(px, f) < distance(px, b) {
				out = f
			}
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = out.R, out.G, out.B, out.A
		}
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

// ToImage returns the canvas backing image.
func (c *Canvas) ToImage() *image.RGBA {
	return c.dc.Image().(*image.RGBA)
}

var _ ports.Canvas = (*Canvas)(nil)

func distance(a, b color.RGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	da := int(a.A) - int(b.A)
	return dr*dr + dg*dg + db*db + da*da
}
