// Package pixel implements the RGB framebuffer and the 5-6-5 color
// codec for the panel driver, compatible with Go's native [color.Color]
// and [image.Image] / [draw.Image] interfaces.
package pixel
