package fontdb

import (
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face is a registered font.
type Face struct {
	// ID is the registry id, used as the font field of atlas keys.
	ID int

	// Path is the file the font was loaded from. It may be a synthetic
	// name for fonts added from memory.
	Path string

	// Name is the PostScript name, or the full name if the font has
	// none.
	Name     string
	Family   string
	FullName string

	// Data is the raw font file, kept for shaping.
	Data []byte

	font *sfnt.Font
}

func newFace(id int, path string, data []byte) (*Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	face := &Face{
		ID:       id,
		Path:     path,
		Data:     data,
		font:     f,
		Family:   name(f, sfnt.NameIDFamily),
		FullName: name(f, sfnt.NameIDFull),
		Name:     name(f, sfnt.NameIDPostScript),
	}
	if face.Name == "" {
		face.Name = face.FullName
	}
	return face, nil
}

func name(f *sfnt.Font, id sfnt.NameID) string {
	s, err := f.Name(nil, id)
	if err != nil {
		return ""
	}
	return s
}

// AtlasBase returns Path without its extension. Atlases for this font
// are saved next to it under this base name.
func (f *Face) AtlasBase() string {
	return strings.TrimSuffix(f.Path, filepath.Ext(f.Path))
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Face) NumGlyphs() int {
	return f.font.NumGlyphs()
}

// UnitsPerEm returns the font's design units per em.
func (f *Face) UnitsPerEm() int {
	return int(f.font.UnitsPerEm())
}

// GlyphIndex returns the glyph id for r, or 0 if the font does not map
// it.
func (f *Face) GlyphIndex(r rune) int {
	var buf sfnt.Buffer
	idx, err := f.font.GlyphIndex(&buf, r)
	if err != nil {
		return 0
	}
	return int(idx)
}

// Advance returns the horizontal advance of glyph at size pixels per em.
func (f *Face) Advance(glyph, size int) fixed.Int26_6 {
	var buf sfnt.Buffer
	adv, err := f.font.GlyphAdvance(&buf, sfnt.GlyphIndex(glyph), fixed.I(size), font.HintingNone)
	if err != nil {
		return 0
	}
	return adv
}

// Metrics returns the font metrics at size pixels per em.
func (f *Face) Metrics(size int) (font.Metrics, error) {
	var buf sfnt.Buffer
	return f.font.Metrics(&buf, fixed.I(size), font.HintingNone)
}
