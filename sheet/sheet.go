// Package sheet composes rendered icons into a single preview image.
package sheet

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"janouch.name/badgen/imgutil"
)

// Entry is a single icon to be shown on the sheet.
type Entry struct {
	Size  int
	Image image.Image
}

// Options control how the sheet is laid out.
type Options struct {
	Scale int    // integer magnification of icons
	URL   string // encoded as a QR code next to the icons unless empty
}

const (
	padding = 10 // around the sheet, between cells and below icons
	gap     = 4  // between an icon and its caption
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Caption returns the label shown under an icon.
func Caption(size int) string { return strconv.Itoa(size) + "px" }

// Generate lays icons out left to right on a white strip, each magnified
// and captioned with its size, optionally followed by a QR code.
func Generate(face font.Face, entries []Entry, opts Options) (image.Image, error) {
	if opts.Scale < 1 {
		return nil, fmt.Errorf("invalid scale: %d", opts.Scale)
	}
	if len(entries) == 0 {
		return nil, errors.New("nothing to show")
	}

	// Measure cells first, the tallest icon determines the row height.
	metrics := face.Metrics()
	ascent, captionHeight := metrics.Ascent.Ceil(), metrics.Height.Ceil()

	widths := make([]int, len(entries))
	iconsHeight := 0
	for i, e := range entries {
		r := e.Image.Bounds()
		captionWidth := font.MeasureString(face, Caption(e.Size)).Ceil()
		widths[i] = max(r.Dx()*opts.Scale, captionWidth)
		iconsHeight = max(iconsHeight, r.Dy()*opts.Scale)
	}

	height := padding + iconsHeight + gap + captionHeight + padding
	width := padding
	for _, w := range widths {
		width += w + padding
	}

	var code barcode.Barcode
	if opts.URL != "" {
		var err error
		side := height - 2*padding
		if code, err = qr.Encode(opts.URL, qr.M, qr.Auto); err != nil {
			return nil, fmt.Errorf("QR code: %w", err)
		}
		if code, err = barcode.Scale(code, side, side); err != nil {
			return nil, fmt.Errorf("QR code: %w", err)
		}
		width += code.Bounds().Dx() + padding
	}

	// Combine.
	sheetRect := image.Rect(0, 0, width, height)
	sheetImg := image.NewRGBA(sheetRect)
	draw.Draw(sheetImg, sheetRect, image.White, image.Point{}, draw.Src)

	x := padding
	for i, e := range entries {
		scaled := &imgutil.Scale{Image: e.Image, Scale: opts.Scale}
		r := scaled.Bounds()
		target := image.Rect(0, 0, r.Dx(), r.Dy()).Add(image.Point{
			X: x + (widths[i]-r.Dx())/2,
			Y: padding + iconsHeight - r.Dy(),
		})
		draw.Draw(sheetImg, target, scaled, r.Min, draw.Over)

		caption := Caption(e.Size)
		d := font.Drawer{
			Dst:  sheetImg,
			Src:  image.NewUniform(color.Black),
			Face: face,
		}
		d.Dot = fixed.P(x+(widths[i]-d.MeasureString(caption).Ceil())/2,
			padding+iconsHeight+gap+ascent)
		d.DrawString(caption)

		x += widths[i] + padding
	}

	if code != nil {
		r := code.Bounds()
		draw.Draw(sheetImg, r.Sub(r.Min).Add(image.Pt(x, padding)),
			code, r.Min, draw.Src)
	}
	return sheetImg, nil
}
