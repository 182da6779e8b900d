package pixel

import (
	"encoding/binary"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestRGBImage(t *testing.T) {
	testCases := []image.Point{
		{},
		image.Pt(1, 1),
		image.Pt(2, 2),
		image.Pt(128, 128),
	}
	for _, test := range testCases {
		t.Run(test.String(), func(it *testing.T) {
			i := NewRGBImage(test.X, test.Y)

			if v := i.Bounds().Size(); !v.Eq(test) {
				it.Errorf("expected image size %s, got %s", test, v)
			}

			if v := i.ColorModel(); v != RGBModel {
				it.Errorf("expected color model %T, got %T", RGBModel, v)
			}

			it.Run("in-bounds", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := testRandomColor()
						i.Set(x, y, c)
						if v := RGBModel.Convert(c); i.At(x, y) != v {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v", x, y, i.At(x, y), v)
							return
						}
					}
				}
			})

			it.Run("out-bounds", func(itt *testing.T) {
				for y := -test.Y - 1; y < test.Y*2+1; y++ {
					for x := -test.X - 1; x < test.X*2+1; x++ {
						if (image.Point{X: x, Y: y}).In(i.Bounds()) {
							continue
						}
						i.Set(x, y, testRandomColor())
						if v := i.At(x, y); v != color.Transparent {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
							return
						}
					}
				}
			})

			it.Run("fill", func(itt *testing.T) {
				c := testRandomColor()
				i.Fill(c)
				want := RGBModel.Convert(c)
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						if v := i.At(x, y); v != want {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v", x, y, v, want)
							return
						}
					}
				}
			})

			it.Run("clear", func(itt *testing.T) {
				i.Clear()
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.RGBAt(x, y); v != (RGB{}) {
						itt.Fatalf("pixel (%d,%d) is not black", x, y)
					}
				}
			})
		})
	}
}

func TestEncodeRGB565(t *testing.T) {
	const w, h = 16, 8
	i := NewRGBImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i.Set(x, y, testRandomColor())
		}
	}

	dst := make([]byte, w*h*2)
	EncodeRGB565(dst, i)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Row-major, two bytes per pixel, high byte first.
			v := binary.BigEndian.Uint16(dst[2*(y*w+x):])
			if want := To565(i.RGBAt(x, y)); v != want {
				t.Fatalf("pixel (%d,%d) encoded as %#04x, expected %#04x", x, y, v, want)
			}
		}
	}
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
