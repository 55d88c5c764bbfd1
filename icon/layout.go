package icon

import "image"

// Sizes from which the optional parts of the icon are drawn.
const (
	RulesMinSize = 32
	BadgeMinSize = 24
)

// Layout is the geometry of an icon of a particular size. All rectangles
// follow the image package convention, Max is exclusive.
type Layout struct {
	Size      int
	Margin    int
	RingWidth int
	Disc      image.Rectangle // bounding box of the background circle
	Book      image.Rectangle

	Rules     []int // rows of rule lines inside the book, may be empty
	RuleInset int   // horizontal inset of rules from the book's sides
	RuleWidth int

	Badge      image.Rectangle // bounding box of the badge, empty if none
	LetterSize int             // suggested point size for scalable fonts
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// NewLayout computes the geometry of an icon with the given edge length.
// Sizes are not validated.
func NewLayout(size int) Layout {
	l := Layout{
		Size:       size,
		Margin:     max(2, size/20),
		RingWidth:  max(1, size/40),
		LetterSize: max(8, size/6),
	}
	l.Disc = image.Rect(l.Margin, l.Margin, size-l.Margin, size-l.Margin)

	bookMargin := size / 4
	bookWidth := size - 2*bookMargin
	bookHeight := bookWidth * 3 / 4
	bookY := (size - bookHeight) / 2
	l.Book = image.Rect(bookMargin, bookY,
		bookMargin+bookWidth, bookY+bookHeight)

	if size >= RulesMinSize {
		spacing := max(2, bookHeight/6)
		l.RuleInset = max(2, bookWidth/8)
		l.RuleWidth = max(1, size/64)
		for i := 0; i < 3; i++ {
			y := l.Book.Min.Y + spacing + i*spacing
			if y >= l.Book.Max.Y {
				break
			}
			l.Rules = append(l.Rules, y)
		}
	}

	if size >= BadgeMinSize {
		badge := max(12, size/8)
		x := size - badge - l.Margin - 2
		y := size - badge - l.Margin - 2
		l.Badge = image.Rect(x-2, y-2, x+badge+2, y+badge+2)
	}
	return l
}

// HasBadge reports whether the layout includes the corner badge.
func (l *Layout) HasBadge() bool { return !l.Badge.Empty() }

// BadgeCenter returns the centre and radius of the badge circle.
func (l *Layout) BadgeCenter() (x, y, r float64) {
	b := l.Badge
	return float64(b.Min.X+b.Max.X) / 2, float64(b.Min.Y+b.Max.Y) / 2,
		float64(b.Dx()) / 2
}
