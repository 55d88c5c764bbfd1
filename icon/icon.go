// Package icon draws the extension's badge icon at arbitrary sizes.
package icon

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
)

// Palette holds the colours an icon is drawn with.
type Palette struct {
	Background color.Color
	Outline    color.Color
	Page       color.Color
	Rule       color.Color
	Badge      color.Color
	Letter     color.Color
}

// DefaultPalette is GitHub blue with white and a slate grey for rules.
var DefaultPalette = Palette{
	Background: color.RGBA{9, 105, 218, 255},
	Outline:    color.RGBA{255, 255, 255, 255},
	Page:       color.RGBA{255, 255, 255, 255},
	Rule:       color.RGBA{101, 109, 118, 255},
	Badge:      color.RGBA{255, 255, 255, 255},
	Letter:     color.RGBA{9, 105, 218, 255},
}

// DefaultLetter is what goes into the corner badge.
const DefaultLetter = "W"

// Renderer draws icons. The zero value is not usable, see New.
type Renderer struct {
	Palette Palette
	Letter  string
	Face    FaceFunc
	Log     logrus.FieldLogger
}

// New returns a renderer with the default palette, letter and the built-in
// bitmap font.
func New(log logrus.FieldLogger) *Renderer {
	return &Renderer{
		Palette: DefaultPalette,
		Letter:  DefaultLetter,
		Face:    BuiltinFace,
		Log:     log,
	}
}

// Draw renders an icon of size×size pixels.
func (r *Renderer) Draw(size int) *image.RGBA {
	l := NewLayout(size)
	dc := gg.NewContext(size, size)

	dc.SetColor(r.Palette.Background)
	dc.Clear()

	// The ring is stroked inside the disc's bounding box.
	cx, cy := float64(l.Disc.Min.X+l.Disc.Max.X)/2,
		float64(l.Disc.Min.Y+l.Disc.Max.Y)/2
	radius := float64(l.Disc.Dx()) / 2
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()
	dc.DrawCircle(cx, cy, radius-float64(l.RingWidth)/2)
	dc.SetLineWidth(float64(l.RingWidth))
	dc.SetColor(r.Palette.Outline)
	dc.Stroke()

	b := l.Book
	dc.DrawRectangle(float64(b.Min.X), float64(b.Min.Y),
		float64(b.Dx()), float64(b.Dy()))
	dc.SetColor(r.Palette.Page)
	dc.Fill()

	dc.SetLineCapButt()
	dc.SetLineWidth(float64(l.RuleWidth))
	dc.SetColor(r.Palette.Rule)
	for _, y := range l.Rules {
		// Odd widths need to be centred on the pixel row to stay crisp.
		fy := float64(y) + float64(l.RuleWidth%2)/2
		dc.DrawLine(float64(b.Min.X+l.RuleInset), fy,
			float64(b.Max.X-l.RuleInset), fy)
		dc.Stroke()
	}

	if l.HasBadge() {
		bx, by, br := l.BadgeCenter()
		dc.DrawCircle(bx, by, br)
		dc.SetColor(r.Palette.Badge)
		dc.Fill()

		if err := r.drawLetter(dc, &l); err != nil {
			r.Log.WithError(err).WithField("size", size).
				Debug("skipping badge letter")
		}
	}
	return dc.Image().(*image.RGBA)
}

// drawLetter is best effort, nothing that goes wrong in here may prevent
// the rest of the icon from being produced.
func (r *Renderer) drawLetter(dc *gg.Context, l *Layout) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("font rendering panicked: %v", p)
		}
	}()

	if r.Letter == "" {
		return nil
	}
	if r.Face == nil {
		return errors.New("no font")
	}
	face, err := r.Face(l.LetterSize)
	if err != nil {
		return err
	}
	for _, c := range r.Letter {
		if _, ok := face.GlyphAdvance(c); !ok {
			return fmt.Errorf("the font has no glyph for %q", c)
		}
	}

	bx, by, _ := l.BadgeCenter()
	dc.SetFontFace(face)
	dc.SetColor(r.Palette.Letter)
	dc.DrawStringAnchored(r.Letter, bx, by-1, 0.5, 0.5)
	return nil
}

// Encode renders an icon and writes it to w as PNG.
func (r *Renderer) Encode(w io.Writer, size int) error {
	return png.Encode(w, r.Draw(size))
}

// Save renders an icon into a PNG file, replacing any previous contents,
// and returns the image for further use.
func (r *Renderer) Save(path string, size int) (*image.RGBA, error) {
	img := r.Draw(size)
	if err := gg.SavePNG(path, img); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Log.Infof("Created %s", path)
	return img, nil
}
