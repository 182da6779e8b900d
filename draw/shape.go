// Package draw rasterizes the driver's geometric primitives onto a
// [draw.Image]. All routines clip through the destination's Set and
// never fail on out-of-range geometry.
package draw

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Line draws a line between two points. A width greater than one widens
// the stroke perpendicular to its dominant direction.
func Line(dst Image, a, b image.Point, width int, c color.Color) {
	if width <= 1 {
		bresenham(dst, a.X, a.Y, b.X, b.Y, c)
		return
	}

	dx, dy := b.X-a.X, b.Y-a.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	for i := -(width - 1) / 2; i <= width/2; i++ {
		if dx >= dy {
			bresenham(dst, a.X, a.Y+i, b.X, b.Y+i, c)
		} else {
			bresenham(dst, a.X+i, a.Y, b.X+i, b.Y, c)
		}
	}
}

// Rectangle draws the one pixel border just inside rect.
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	if rect.Empty() {
		return
	}
	for x := rect.Min.X; x < rect.Max.X; x++ {
		dst.Set(x, rect.Min.Y, c)
		dst.Set(x, rect.Max.Y-1, c)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		dst.Set(rect.Min.X, y, c)
		dst.Set(rect.Max.X-1, y, c)
	}
}

// Box draws a filled rectangle covering rect.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, y, c)
		}
	}
}

// Ellipse draws the filled ellipse inscribed in rect. A non-nil outline
// color traces the boundary on top of the fill.
func Ellipse(dst Image, rect image.Rectangle, fill, outline color.Color) {
	if rect.Empty() {
		return
	}

	// Semi-axes and center of the inscribed ellipse; for even extents
	// the center falls between two pixels.
	var (
		a  = float64(rect.Dx()) / 2
		b  = float64(rect.Dy()) / 2
		cx = float64(rect.Min.X) + a - 0.5
		cy = float64(rect.Min.Y) + b - 0.5
	)

	if fill != nil {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			dy := (float64(y) - cy) / b
			if dy < -1 || dy > 1 {
				continue
			}
			half := a * math.Sqrt(1-dy*dy)
			x0 := int(math.Ceil(cx - half))
			x1 := int(math.Floor(cx + half))
			for x := x0; x <= x1; x++ {
				dst.Set(x, y, fill)
			}
		}
	}

	if outline != nil {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			dy := (float64(y) - cy) / b
			if dy < -1 || dy > 1 {
				continue
			}
			half := a * math.Sqrt(1-dy*dy)
			dst.Set(int(math.Ceil(cx-half)), y, outline)
			dst.Set(int(math.Floor(cx+half)), y, outline)
		}
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dx := (float64(x) - cx) / a
			if dx < -1 || dx > 1 {
				continue
			}
			half := b * math.Sqrt(1-dx*dx)
			dst.Set(x, int(math.Ceil(cy-half)), outline)
			dst.Set(x, int(math.Floor(cy+half)), outline)
		}
	}
}

// Generalized with integer
func bresenham(dst Image, x1, y1, x2, y2 int, c color.Color) {
	var dx, dy, e, slope int

	// Because drawing p1 -> p2 is equivalent to draw p2 -> p1,
	// I sort points in x-axis order to handle only half of possible cases.
	if x1 > x2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx, dy = x2-x1, y2-y1
	// Because point is x-axis ordered, dx cannot be negative
	if dy < 0 {
		dy = -dy
	}

	switch {

	// Is line a point ?
	case x1 == x2 && y1 == y2:
		dst.Set(x1, y1, c)

	// Is line an horizontal ?
	case y1 == y2:
		for ; dx != 0; dx-- {
			dst.Set(x1, y1, c)
			x1++
		}
		dst.Set(x1, y1, c)

	// Is line a vertical ?
	case x1 == x2:
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		for ; dy != 0; dy-- {
			dst.Set(x1, y1, c)
			y1++
		}
		dst.Set(x1, y1, c)

	// Is line a diagonal ?
	case dx == dy:
		if y1 < y2 {
			for ; dx != 0; dx-- {
				dst.Set(x1, y1, c)
				x1++
				y1++
			}
		} else {
			for ; dx != 0; dx-- {
				dst.Set(x1, y1, c)
				x1++
				y1--
			}
		}
		dst.Set(x1, y1, c)

	// wider than high ?
	case dx > dy:
		if y1 < y2 {
			dy, e, slope = 2*dy, dx, 2*dx
			for ; dx != 0; dx-- {
				dst.Set(x1, y1, c)
				x1++
				e -= dy
				if e < 0 {
					y1++
					e += slope
				}
			}
		} else {
			dy, e, slope = 2*dy, dx, 2*dx
			for ; dx != 0; dx-- {
				dst.Set(x1, y1, c)
				x1++
				e -= dy
				if e < 0 {
					y1--
					e += slope
				}
			}
		}
		dst.Set(x2, y2, c)

	// higher than wide.
	default:
		if y1 < y2 {
			dx, e, slope = 2*dx, dy, 2*dy
			for ; dy != 0; dy-- {
				dst.Set(x1, y1, c)
				y1++
				e -= dx
				if e < 0 {
					x1++
					e += slope
				}
			}
		} else {
			dx, e, slope = 2*dx, dy, 2*dy
			for ; dy != 0; dy-- {
				dst.Set(x1, y1, c)
				y1--
				e -= dx
				if e < 0 {
					x1++
					e += slope
				}
			}
		}
		dst.Set(x2, y2, c)
	}
}
