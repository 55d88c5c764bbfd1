// Package iconset writes the complete set of extension icons into
// a directory, along with optional favicon, manifest fragment and preview.
package iconset

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fogleman/gg"
	ico "github.com/sergeymakinen/go-ico"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"janouch.name/badgen/icon"
	"janouch.name/badgen/sheet"
)

// File names of optional artefacts.
const (
	FaviconName  = "favicon.ico"
	ManifestName = "icons.json"
	SheetName    = "preview.png"
)

// FaviconSize is the edge length of the favicon.
const FaviconSize = 32

// SheetOptions enable the preview sheet.
type SheetOptions struct {
	Face  font.Face // caption font, nil means the built-in one
	Scale int
	URL   string
}

// Options describe what to generate and where.
type Options struct {
	Dir      string
	Sizes    []int
	Favicon  bool
	Manifest bool
	Sheet    *SheetOptions
}

// Result lists the files that have been written, in order.
type Result struct {
	Icons []string
	Extra []string
}

// FileName returns the name of the icon file for the given size.
func FileName(size int) string {
	return fmt.Sprintf("icon-%d.png", size)
}

// Manifest returns the "icons" map of a web extension manifest
// referring to the generated files.
func Manifest(sizes []int) map[string]string {
	m := make(map[string]string, len(sizes))
	for _, size := range sizes {
		m[strconv.Itoa(size)] = "/" + FileName(size)
	}
	return m
}

// Generate renders every requested size into opts.Dir, creating it first
// if needed. Existing files are overwritten. The first failure aborts.
func Generate(r *icon.Renderer, opts Options) (*Result, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, err
	}

	result := &Result{}
	var (
		entries []sheet.Entry
		largest *image.RGBA
	)
	for _, size := range opts.Sizes {
		path := filepath.Join(opts.Dir, FileName(size))
		img, err := r.Save(path, size)
		if err != nil {
			return result, err
		}
		result.Icons = append(result.Icons, path)
		entries = append(entries, sheet.Entry{Size: size, Image: img})
		if largest == nil || size > largest.Bounds().Dx() {
			largest = img
		}
	}

	manifest, err := json.MarshalIndent(Manifest(opts.Sizes), "", "  ")
	if err != nil {
		return result, err
	}
	r.Log.Infof("Icon configuration for manifest:\n%s", manifest)

	if opts.Manifest {
		path := filepath.Join(opts.Dir, ManifestName)
		if err := os.WriteFile(path, append(manifest, '\n'), 0644); err != nil {
			return result, err
		}
		r.Log.Infof("Created %s", path)
		result.Extra = append(result.Extra, path)
	}

	if opts.Favicon && largest != nil {
		path := filepath.Join(opts.Dir, FaviconName)
		if err := writeFavicon(path, largest); err != nil {
			return result, fmt.Errorf("%s: %w", path, err)
		}
		r.Log.Infof("Created %s", path)
		result.Extra = append(result.Extra, path)
	}

	if opts.Sheet != nil && len(entries) > 0 {
		face := opts.Sheet.Face
		if face == nil {
			face = basicfont.Face7x13
		}
		img, err := sheet.Generate(face, entries, sheet.Options{
			Scale: opts.Sheet.Scale,
			URL:   opts.Sheet.URL,
		})
		if err != nil {
			return result, fmt.Errorf("preview: %w", err)
		}
		path := filepath.Join(opts.Dir, SheetName)
		if err := gg.SavePNG(path, img); err != nil {
			return result, fmt.Errorf("%s: %w", path, err)
		}
		r.Log.Infof("Created %s", path)
		result.Extra = append(result.Extra, path)
	}

	r.Log.Info("All icons have been created.")
	r.Log.Info("Note: these are basic procedurally generated icons, " +
		"consider professionally designed ones for production.")
	return result, nil
}

// writeFavicon downsamples src, which should be the sharpest icon we have,
// into a single-image ICO file.
func writeFavicon(path string, src image.Image) error {
	dst := image.NewNRGBA(image.Rect(0, 0, FaviconSize, FaviconSize))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ico.Encode(f, dst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
