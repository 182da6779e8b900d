package pixel

import "image/color"

// Models for the color types in this package.
var (
	RGBModel    color.Model = color.ModelFunc(rgbModel)
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
)

// RGB represents an opaque 24-bit 8-8-8 RGB color, the framebuffer's
// working format.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGB); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// CRGB16 represents a 16-bit 5-6-5 RGB color, the panel's native format.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

func crgb16Model(c color.Color) color.Color {
	if c, ok := c.(CRGB16); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	r = (r & 0xF800)
	g = (g & 0xFC00) >> 5
	b = (b & 0xF800) >> 11
	return CRGB16{uint16(r | g | b)}
}

// To565 packs an 8-8-8 RGB triple into the panel's 5-6-5 layout: the top
// 5 bits of red in bits 11-15, the top 6 bits of green in bits 5-10, and
// the top 5 bits of blue in bits 0-4. The mapping is total and
// truncating.
func To565(c RGB) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// From565 unpacks a 5-6-5 value into the truncated 8-8-8 triple that
// To565 preserves.
func From565(v uint16) RGB {
	return RGB{
		R: uint8(v>>11) << 3,
		G: uint8(v>>5&0x3F) << 2,
		B: uint8(v&0x1F) << 3,
	}
}
