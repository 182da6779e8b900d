package display

import (
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

func TestLoadFontsFallback(t *testing.T) {
	fc := loadFonts([]string{"testdata/missing.ttf"})
	for _, size := range FontSizes {
		if fc.faces[size] != font.Face(basicfont.Face7x13) {
			t.Errorf("expected built-in face for size %d", size)
		}
	}
}

func TestFaceSnapsToNearestSize(t *testing.T) {
	// Distinct face values per size so snapping is observable.
	fc := &fontCache{faces: make(map[int]font.Face, len(FontSizes))}
	for _, size := range FontSizes {
		face := *basicfont.Face7x13
		fc.faces[size] = &face
	}

	testCases := []struct {
		request int
		want    int
	}{
		{8, 8},
		{24, 24},
		{0, 8},
		{100, 24},
		{11, 10}, // ties snap to the smaller size
		{13, 12},
		{15, 14},
		{18, 16},
		{22, 20}, // 22 is equidistant from 20 and 24
		{23, 24},
	}
	for _, test := range testCases {
		if v := fc.face(test.request); v != fc.faces[test.want] {
			t.Errorf("size %d snapped to the wrong face, expected %d", test.request, test.want)
		}
	}
}
