package display

import (
	"log"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// DefaultFontPaths is the ordered TrueType candidate list, evaluated
// once at construction. The first file that parses provides every
// supported size.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/droid/DroidSans.ttf",
}

// FontSizes are the supported text sizes. DrawText snaps any requested
// size to the nearest entry.
var FontSizes = []int{8, 9, 10, 12, 14, 16, 20, 24}

type fontCache struct {
	faces map[int]font.Face
}

func loadFonts(paths []string) *fontCache {
	faces := make(map[int]font.Face, len(FontSizes))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			log.Printf("display: skipping font %s: %v", path, err)
			continue
		}
		for _, size := range FontSizes {
			faces[size] = truetype.NewFace(f, &truetype.Options{
				Size: float64(size),
				DPI:  72,
			})
		}
		if debug {
			log.Printf("display: loaded fonts from %s", path)
		}
		return &fontCache{faces: faces}
	}

	log.Println("display: no TrueType fonts found, using built-in font")
	for _, size := range FontSizes {
		faces[size] = basicfont.Face7x13
	}
	return &fontCache{faces: faces}
}

// face returns the face for the nearest supported size; ties snap to
// the smaller size.
func (fc *fontCache) face(size int) font.Face {
	best := FontSizes[0]
	for _, s := range FontSizes[1:] {
		if abs(s-size) < abs(best-size) {
			best = s
		}
	}
	return fc.faces[best]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
