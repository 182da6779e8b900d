package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is a mutable pixel buffer.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// RGBImage is a 24-bits per pixel 8-8-8-bit RGB image.
type RGBImage struct {
	Buffer
}

func NewRGBImage(w, h int) *RGBImage {
	return &RGBImage{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, w*3*h),
			Stride: w * 3,
		},
	}
}

func (p *RGBImage) ColorModel() color.Model {
	return RGBModel
}

func (p *RGBImage) PixOffset(x, y int) int {
	return y*p.Stride + x*3
}

func (p *RGBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.RGBAt(x, y)
}

func (p *RGBImage) RGBAt(x, y int) RGB {
	i := p.PixOffset(x, y)
	return RGB{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2]}
}

func (p *RGBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	v := rgbModel(c).(RGB)
	i := p.PixOffset(x, y)
	p.Pix[i] = v.R
	p.Pix[i+1] = v.G
	p.Pix[i+2] = v.B
}

func (p *RGBImage) Fill(c color.Color) {
	v := rgbModel(c).(RGB)
	for i, l := 0, len(p.Pix); i < l; i += 3 {
		p.Pix[i] = v.R
		p.Pix[i+1] = v.G
		p.Pix[i+2] = v.B
	}
}

// EncodeRGB565 converts the whole image into the panel's 5-6-5 wire
// format in one row-major pass, two bytes per pixel, high byte first.
// dst must hold 2 bytes per source pixel. This runs once per frame and
// must not allocate.
func EncodeRGB565(dst []byte, src *RGBImage) {
	pix := src.Pix
	for i, j := 0, 0; i < len(pix); i, j = i+3, j+2 {
		v := uint16(pix[i]>>3)<<11 | uint16(pix[i+1]>>2)<<5 | uint16(pix[i+2]>>3)
		dst[j] = byte(v >> 8)
		dst[j+1] = byte(v)
	}
}

// Interface checks.
var (
	_ Image = (*RGBImage)(nil)
)
