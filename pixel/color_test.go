package pixel

import (
	"image/color"
	"testing"
)

func TestRGB(t *testing.T) {
	testCases := []RGB{
		{},
		{R: 255, G: 255, B: 255},
		{R: 0x12, G: 0x34, B: 0x56},
	}
	for _, c := range testCases {
		t.Run("", func(it *testing.T) {
			r, g, b, a := c.RGBA()
			if want := uint32(c.R) | uint32(c.R)<<8; r != want {
				it.Errorf("expected red to be %#04x, got %#04x", want, r)
			}
			if want := uint32(c.G) | uint32(c.G)<<8; g != want {
				it.Errorf("expected green to be %#04x, got %#04x", want, g)
			}
			if want := uint32(c.B) | uint32(c.B)<<8; b != want {
				it.Errorf("expected blue to be %#04x, got %#04x", want, b)
			}
			if a != 0xffff {
				it.Errorf("expected alpha to be opaque, got %#04x", a)
			}
		})
	}
}

func TestRGBModel(t *testing.T) {
	c := RGBModel.Convert(color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF})
	if want := (RGB{R: 0x12, G: 0x34, B: 0x56}); c != want {
		t.Errorf("expected %#+v, got %#+v", want, c)
	}
}

func TestTo565(t *testing.T) {
	testCases := []struct {
		c    RGB
		want uint16
	}{
		{RGB{}, 0x0000},
		{RGB{R: 255, G: 255, B: 255}, 0xFFFF},
		{RGB{R: 255}, 0xF800},
		{RGB{G: 255}, 0x07E0},
		{RGB{B: 255}, 0x001F},
		{RGB{R: 0x08, G: 0x04, B: 0x08}, 0x0821},
		{RGB{R: 0x07, G: 0x03, B: 0x07}, 0x0000}, // truncated bits drop
	}
	for _, test := range testCases {
		t.Run("", func(it *testing.T) {
			if v := To565(test.c); v != test.want {
				it.Errorf("expected %#+v to encode as %#04x, got %#04x", test.c, test.want, v)
			}
		})
	}
}

// Decoding an encoded color recovers exactly the truncated channel bits.
func TestFrom565Truncation(t *testing.T) {
	for r := 0; r < 256; r += 7 {
		for g := 0; g < 256; g += 11 {
			for b := 0; b < 256; b += 13 {
				c := RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
				want := RGB{
					R: uint8(r>>3) << 3,
					G: uint8(g>>2) << 2,
					B: uint8(b>>3) << 3,
				}
				if v := From565(To565(c)); v != want {
					t.Fatalf("expected %#+v to decode as %#+v, got %#+v", c, want, v)
				}
			}
		}
	}
}

func TestCRGB16Model(t *testing.T) {
	c := CRGB16Model.Convert(RGB{R: 255}).(CRGB16)
	if c.V != 0xF800 {
		t.Errorf("expected pure red to be %#04x, got %#04x", 0xF800, c.V)
	}
	r, _, _, _ := c.RGBA()
	if r != 0xFFFF {
		t.Errorf("expected red channel to round-trip to %#04x, got %#04x", 0xFFFF, r)
	}
}
