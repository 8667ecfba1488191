package atlas

import "fmt"

// TemplateSize is the size under which scale independent entries are
// cached.
const TemplateSize = 0

const (
	keyBits = 20
	keyMask = 1<<keyBits - 1
)

// Key packs a font id, size and glyph id into one integer. Each field
// holds 20 bits: glyph in the low bits, then size, then font.
type Key uint64

// NewKey returns the key for (font, size, glyph). Values are truncated
// to 20 bits.
func NewKey(font, size, glyph int) Key {
	return Key(uint64(glyph)&keyMask |
		(uint64(size)&keyMask)<<keyBits |
		(uint64(font)&keyMask)<<(2*keyBits))
}

// Font returns the font id.
func (k Key) Font() int { return int(k >> (2 * keyBits) & keyMask) }

// Size returns the size.
func (k Key) Size() int { return int(k >> keyBits & keyMask) }

// Glyph returns the glyph id.
func (k Key) Glyph() int { return int(k & keyMask) }

// IsTemplate reports whether k addresses a template entry.
func (k Key) IsTemplate() bool { return k.Size() == TemplateSize }

func (k Key) String() string {
	return fmt.Sprintf("font=%d size=%d glyph=%d", k.Font(), k.Size(), k.Glyph())
}

// Entry is a cached glyph placement.
//
// X and Y locate the raster on the surface. OX, OY, W and H are the glyph
// metrics: the offset of the raster from the pen position and its extent.
// UV holds left, top, right and bottom texture coordinates.
type Entry struct {
	BinID int
	Size  int
	X, Y  int
	OX    int
	OY    int
	W, H  int
	UV    [4]float32
}

// FullEntry is returned by Insert when the surface has no room.
var FullEntry = Entry{BinID: -1}

// IsFull reports whether e is the surface full sentinel.
func (e Entry) IsFull() bool { return e.BinID < 0 }

// Empty reports whether the glyph has no raster, as for a space.
func (e Entry) Empty() bool { return e.W <= 0 || e.H <= 0 }
