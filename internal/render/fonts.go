package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Face wraps a loaded font face with its origin for logging.
type Face struct {
	font.Face
	Source string
	Bitmap bool
	Size   float64
}

// LoadFace walks the candidate font paths in order and returns the first face
// that parses. When no candidate loads, it returns the built-in bitmap face so
// rendering always has something to draw with.
func LoadFace(paths []string, size float64) *Face {
	if size <= 0 {
		size = 100
	}
	for _, path := range paths {
		face, err := loadOpenType(path, size)
		if err != nil {
			continue
		}
		return &Face{Face: face, Source: path, Size: size}
	}
	return &Face{Face: basicfont.Face7x13, Source: "builtin", Bitmap: true, Size: size}
}

func loadOpenType(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build face %s: %w", path, err)
	}
	return face, nil
}
