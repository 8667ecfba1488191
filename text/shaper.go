package text

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphatlas/fontdb"
)

// ErrNoFace is returned by Shape without a font face.
var ErrNoFace = errors.New("text: no font face")

// Shape is one shaped glyph. Offsets and advances are in pixels with six
// fractional bits, y up.
type Shape struct {
	Glyph   int
	Cluster int

	XOffset, YOffset   fixed.Int26_6
	XAdvance, YAdvance fixed.Int26_6
}

// Shaper converts segments into glyph shapes with HarfBuzz.
//
// Shaper is safe for concurrent use. Parsed fonts are cached per font id
// and shared; HarfBuzz shapers are pooled since they hold per-call state.
type Shaper struct {
	shapers sync.Pool

	mu    sync.RWMutex
	fonts map[int]*font.Font
}

// NewShaper returns a shaper with an empty font cache.
func NewShaper() *Shaper {
	return &Shaper{
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		fonts: make(map[int]*font.Font),
	}
}

// Shape shapes seg.Text with face at seg.Size pixels per em. The result is
// in visual order.
func (s *Shaper) Shape(seg Segment, face *fontdb.Face) ([]Shape, error) {
	if face == nil {
		return nil, ErrNoFace
	}
	if seg.Text == "" {
		return nil, nil
	}

	f, err := s.font(face)
	if err != nil {
		return nil, err
	}

	runes := []rune(seg.Text)
	lang := seg.Language
	if lang == "" {
		lang = "en"
	}
	dir := seg.Direction()

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(f),
		Size:      fixed.I(seg.Size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage(lang),
	}

	hb := s.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.shapers.Put(hb)

	shapes := make([]Shape, len(out.Glyphs))
	for i, g := range out.Glyphs {
		sh := Shape{
			Glyph:   int(g.GlyphID),
			Cluster: g.TextIndex(),
			XOffset: g.XOffset,
			YOffset: g.YOffset,
		}
		if dir.IsVertical() {
			sh.YAdvance = g.Advance
		} else {
			sh.XAdvance = g.Advance
		}
		shapes[i] = sh
	}
	return shapes, nil
}

// font returns the parsed go-text font for face, parsing it on first use.
func (s *Shaper) font(face *fontdb.Face) (*font.Font, error) {
	s.mu.RLock()
	if f, ok := s.fonts[face.ID]; ok {
		s.mu.RUnlock()
		return f, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.fonts[face.ID]; ok {
		return f, nil
	}
	parsed, err := font.ParseTTF(bytes.NewReader(face.Data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font %d: %w", face.ID, err)
	}
	s.fonts[face.ID] = parsed.Font
	return parsed.Font, nil
}

// Forget drops the cached parse of the font with the given id.
func (s *Shaper) Forget(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fonts, id)
}

// detectScript returns the script of the first character that is not
// white space.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
