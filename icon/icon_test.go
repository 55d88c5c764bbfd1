package icon

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	blue  = DefaultPalette.Background.(color.RGBA)
	slate = DefaultPalette.Rule.(color.RGBA)
)

func newRenderer(t *testing.T) (*Renderer, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(log), hook
}

func TestLayout(t *testing.T) {
	l := NewLayout(16)
	assert.Equal(t, 2, l.Margin)
	assert.Equal(t, image.Rect(4, 5, 12, 11), l.Book)
	assert.Empty(t, l.Rules)
	assert.False(t, l.HasBadge())

	l = NewLayout(24)
	assert.Empty(t, l.Rules)
	assert.True(t, l.HasBadge())
	assert.Equal(t, image.Rect(6, 6, 22, 22), l.Badge)

	l = NewLayout(48)
	assert.Equal(t, image.Rect(2, 2, 46, 46), l.Disc)
	assert.Equal(t, image.Rect(12, 15, 36, 33), l.Book)
	assert.Equal(t, []int{18, 21, 24}, l.Rules)
	assert.Equal(t, 3, l.RuleInset)
	assert.Equal(t, 1, l.RuleWidth)
	assert.Equal(t, image.Rect(30, 30, 46, 46), l.Badge)

	l = NewLayout(128)
	assert.Equal(t, 6, l.Margin)
	assert.Equal(t, 3, l.RingWidth)
	assert.Equal(t, image.Rect(32, 40, 96, 88), l.Book)
	assert.Equal(t, []int{48, 56, 64}, l.Rules)
	assert.Equal(t, 2, l.RuleWidth)
	assert.Equal(t, 21, l.LetterSize)
	assert.Equal(t, image.Rect(102, 102, 122, 122), l.Badge)

	x, y, r := l.BadgeCenter()
	assert.Equal(t, []float64{112, 112, 10}, []float64{x, y, r})
}

func TestDrawDimensions(t *testing.T) {
	r, _ := newRenderer(t)
	for _, size := range []int{16, 24, 48, 128, 200} {
		img := r.Draw(size)
		assert.Equal(t, image.Rect(0, 0, size, size), img.Bounds())
	}
}

func countColor(img *image.RGBA, rect image.Rectangle, c color.RGBA) int {
	n := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestRules(t *testing.T) {
	r, _ := newRenderer(t)
	for _, size := range []int{16, 24, 48, 128} {
		img := r.Draw(size)
		l := NewLayout(size)
		n := countColor(img, l.Book, slate)
		if size < RulesMinSize {
			assert.Zero(t, n, "size %d", size)
			assert.Zero(t, countColor(img, img.Bounds(), slate), "size %d", size)
			continue
		}

		assert.NotZero(t, n, "size %d", size)
		for _, y := range l.Rules {
			assert.Equal(t, slate,
				img.RGBAAt(l.Book.Min.X+l.RuleInset+2, y), "size %d", size)
		}
		// The book between rules is left blank.
		assert.Equal(t, white, img.RGBAAt(l.Book.Min.X+l.RuleInset+2,
			l.Rules[0]-2), "size %d", size)
	}
}

func TestBadge(t *testing.T) {
	r, _ := newRenderer(t)
	for _, size := range []int{24, 48, 128} {
		img := r.Draw(size)
		l := NewLayout(size)
		x, y, radius := l.BadgeCenter()
		px, py := int(x+radius)-2, int(y)
		assert.Equal(t, white, img.RGBAAt(px, py), "size %d", size)
	}

	img := r.Draw(16)
	assert.Equal(t, blue, img.RGBAAt(8, 11))
	assert.Equal(t, blue, img.RGBAAt(7, 11))
}

// letterPixels counts non-white pixels in the middle of the badge.
func letterPixels(img *image.RGBA, l *Layout) int {
	x, y, _ := l.BadgeCenter()
	rect := image.Rect(int(x)-4, int(y)-4, int(x)+4, int(y)+4)
	return rect.Dx()*rect.Dy() - countColor(img, rect, white)
}

func TestLetterBestEffort(t *testing.T) {
	l := NewLayout(48)

	r, hook := newRenderer(t)
	assert.NotZero(t, letterPixels(r.Draw(48), &l))
	assert.Empty(t, hook.AllEntries())

	for name, face := range map[string]FaceFunc{
		"missing": func(int) (font.Face, error) {
			return nil, errors.New("no such font")
		},
		"panic": func(int) (font.Face, error) {
			panic("font subsystem unavailable")
		},
		"unreadable": FileFace(filepath.Join(t.TempDir(), "nope.bdf")),
		"nil":        nil,
	} {
		t.Run(name, func(t *testing.T) {
			r, hook := newRenderer(t)
			r.Face = face
			img := r.Draw(48)

			assert.Equal(t, image.Rect(0, 0, 48, 48), img.Bounds())
			assert.Zero(t, letterPixels(img, &l))
			assert.Equal(t, white, img.RGBAAt(44, 38))

			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
			assert.Equal(t, 48, hook.LastEntry().Data["size"])
		})
	}
}

func TestFileFaceBDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.bdf")
	require.NoError(t, os.WriteFile(path, []byte(`STARTFONT 2.1
FONT badge
FONTBOUNDINGBOX 5 5 0 0
CHARS 1
STARTCHAR W
ENCODING 87
DWIDTH 6 0
BBX 5 5 0 0
BITMAP
88
88
A8
A8
50
ENDCHAR
ENDFONT
`), 0644))

	r, hook := newRenderer(t)
	r.Face = FileFace(path)
	l := NewLayout(128)
	assert.NotZero(t, letterPixels(r.Draw(128), &l))
	assert.Empty(t, hook.AllEntries())

	// The font has nothing but "W".
	r.Letter = "X"
	assert.Zero(t, letterPixels(r.Draw(128), &l))
	assert.NotEmpty(t, hook.AllEntries())
}

func TestSave(t *testing.T) {
	r, hook := newRenderer(t)
	path := filepath.Join(t.TempDir(), "icon.png")
	for i := 0; i < 2; i++ {
		img, err := r.Save(path, 24)
		require.NoError(t, err)
		assert.Equal(t, 24, img.Bounds().Dx())
	}
	assert.Equal(t, "Created "+path, hook.LastEntry().Message)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24, 24), img.Bounds())

	_, err = r.Save(filepath.Join(t.TempDir(), "missing", "icon.png"), 24)
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	r, _ := newRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf, 16))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 16, cfg.Height)
}
