package text

import (
	"github.com/go-text/typesetting/di"
	"golang.org/x/text/unicode/bidi"
)

// Segment is a run of text in one font and size, positioned at its
// baseline origin (X, Y) in a y-down target.
type Segment struct {
	Text string

	// Language is a BCP 47 tag. Empty means "en".
	Language string

	Font  int
	Size  int
	X, Y  int
	Color uint32
}

// Direction returns the base direction of the segment text as resolved by
// the Unicode bidirectional algorithm. Text without strong characters is
// left to right.
func (s Segment) Direction() di.Direction {
	if s.Text == "" {
		return di.DirectionLTR
	}

	p := bidi.Paragraph{}
	_, _ = p.SetString(s.Text, bidi.DefaultDirection(bidi.Neutral))

	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	first := ordering.Run(0)
	if first.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}
