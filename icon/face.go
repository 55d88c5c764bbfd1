package icon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"janouch.name/badgen/bdf"
)

// FaceFunc returns the font face to draw the badge letter with,
// given the layout's suggested point size.
type FaceFunc func(points int) (font.Face, error)

// BuiltinFace always returns the fixed 7x13 bitmap face that ships with
// golang.org/x/image, so that no font files need to be present.
func BuiltinFace(points int) (font.Face, error) {
	return basicfont.Face7x13, nil
}

// LoadBDF reads a bitmap font from a BDF file.
func LoadBDF(path string) (*bdf.Font, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bf, err := bdf.NewFromBDF(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bf, nil
}

// FileFace returns a FaceFunc loading the font at path each time it is
// called. Files with the .bdf extension are parsed as bitmap fonts and used
// at their native size, anything else goes to the TrueType loader.
func FileFace(path string) FaceFunc {
	if strings.EqualFold(filepath.Ext(path), ".bdf") {
		return func(points int) (font.Face, error) {
			return LoadBDF(path)
		}
	}
	return func(points int) (font.Face, error) {
		return gg.LoadFontFace(path, float64(points))
	}
}
