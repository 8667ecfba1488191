package atlas

import (
	"fmt"
	"maps"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/binpack"
)

// Padding is the border reserved to the right of and above every glyph
// so that bilinear filtering does not bleed between neighbors.
const Padding = 1

// Atlas is a glyph cache backed by one packed texture surface.
//
// Atlas is safe for concurrent use. Cache reads share a read lock;
// Insert, DeriveScaled and Blit are serialized. Renderers are always
// called without the lock held.
type Atlas struct {
	mu sync.RWMutex

	width  int
	height int
	depth  Depth
	format ImageFormat

	pixels  []byte
	packer  *binpack.Packer
	entries map[Key]Entry

	// nextBin is the bin id of the next allocation. It equals the entry
	// count unless a truncated sidecar was loaded.
	nextBin int

	dirty binpack.Rect

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty atlas.
func New(cfg Config) (*Atlas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Atlas{format: cfg.ImageFormat}
	a.reset(cfg.Width, cfg.Height, cfg.Depth)

	glyphatlas.Logger().Debug("atlas: created",
		"width", cfg.Width, "height", cfg.Height, "depth", cfg.Depth.String())
	return a, nil
}

// Reset discards all entries and pixels and resizes the surface.
func (a *Atlas) Reset(width, height int, depth Depth) error {
	cfg := Config{Width: width, Height: height, Depth: depth, ImageFormat: FormatPNG}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset(width, height, depth)
	return nil
}

func (a *Atlas) reset(width, height int, depth Depth) {
	a.width = width
	a.height = height
	a.depth = depth

	size := width * height * int(depth)
	if cap(a.pixels) >= size {
		a.pixels = a.pixels[:size]
		clear(a.pixels)
	} else {
		a.pixels = make([]byte, size)
	}

	if a.packer == nil {
		a.packer = binpack.New(binpack.Pt(width, height))
	} else {
		a.packer.SetSize(binpack.Pt(width, height))
	}
	a.entries = make(map[Key]Entry)
	a.nextBin = 0
	a.dirty = a.emptyDirty()
}

// Config returns the atlas size, depth and image format.
func (a *Atlas) Config() Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Config{Width: a.width, Height: a.height, Depth: a.depth, ImageFormat: a.format}
}

// Width returns the surface width in pixels.
func (a *Atlas) Width() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.width
}

// Height returns the surface height in pixels.
func (a *Atlas) Height() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.height
}

// Depth returns the number of bytes per pixel.
func (a *Atlas) Depth() Depth {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.depth
}

// Pixels returns the pixel buffer, rows bottom to top. The slice aliases
// the atlas; it must not be read while glyphs are being written.
func (a *Atlas) Pixels() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pixels
}

// Lookup returns the entry for (font, size, glyph).
//
// An exact match is returned directly. Otherwise a template for the glyph
// is scaled to size. On a miss r renders the glyph; if it did not cache
// an entry under the exact key (because it produced a template) the
// result is scaled as well.
//
// When the surface is full Lookup returns FullEntry and a nil error.
func (a *Atlas) Lookup(font, size, glyph int, r Renderer) (Entry, error) {
	key := NewKey(font, size, glyph)

	a.mu.RLock()
	e, ok := a.entries[key]
	tmpl, tok := a.entries[NewKey(font, TemplateSize, glyph)]
	a.mu.RUnlock()

	if ok {
		a.hits.Add(1)
		return e, nil
	}
	if tok {
		a.hits.Add(1)
		return a.DeriveScaled(font, size, glyph, tmpl), nil
	}

	a.misses.Add(1)
	if r == nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrNoRenderer, key)
	}

	e, err := r.Render(a, font, size, glyph)
	if err != nil {
		return Entry{}, fmt.Errorf("atlas: render %v: %w", key, err)
	}
	if e.IsFull() {
		return e, nil
	}
	if exact, ok := a.Get(font, size, glyph); ok {
		return exact, nil
	}
	return a.DeriveScaled(font, size, glyph, e), nil
}

// Get returns the entry cached under exactly (font, size, glyph).
func (a *Atlas) Get(font, size, glyph int) (Entry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entries[NewKey(font, size, glyph)]
	return e, ok
}

// Insert reserves surface space for a w×h glyph raster plus padding and
// caches the entry under (font, size, glyph). entrySize is stored as the
// entry's Size; templates pass their reference size here and TemplateSize
// as size.
//
// If the key is already cached the existing entry is returned and nothing
// is allocated. If the surface is full Insert returns FullEntry and
// changes nothing.
func (a *Atlas) Insert(font, size, glyph, entrySize, ox, oy, w, h int) Entry {
	key := NewKey(font, size, glyph)

	a.mu.Lock()
	defer a.mu.Unlock()

	if e, ok := a.entries[key]; ok {
		return e
	}

	binID := a.nextBin
	r, ok := a.packer.Allocate(binID, binpack.Pt(max(w, 0)+Padding, max(h, 0)+Padding))
	if !ok {
		return FullEntry
	}

	e := Entry{
		BinID: binID,
		Size:  entrySize,
		X:     r.A.X,
		Y:     r.A.Y,
		OX:    ox,
		OY:    oy,
		W:     w,
		H:     h,
		UV:    a.uv(r.A.X, r.A.Y, w, h),
	}
	a.entries[key] = e
	a.nextBin++
	a.dirty = a.dirty.Union(r)
	return e
}

// DeriveScaled caches an entry for (font, size, glyph) that shares the
// raster of tmpl, with metrics scaled by size/tmpl.Size and rounded to
// the nearest pixel. A template with a non-positive Size is used at scale
// 1. DeriveScaled never allocates surface space.
func (a *Atlas) DeriveScaled(font, size, glyph int, tmpl Entry) Entry {
	if tmpl.IsFull() {
		return tmpl
	}
	key := NewKey(font, size, glyph)

	a.mu.Lock()
	defer a.mu.Unlock()

	if e, ok := a.entries[key]; ok {
		return e
	}

	scale := 1.0
	if tmpl.Size > 0 {
		scale = float64(size) / float64(tmpl.Size)
	}
	e := tmpl
	e.Size = size
	e.OX = scaleInt(tmpl.OX, scale)
	e.OY = scaleInt(tmpl.OY, scale)
	e.W = scaleInt(tmpl.W, scale)
	e.H = scaleInt(tmpl.H, scale)

	a.entries[key] = e
	a.nextBin++
	return e
}

func scaleInt(v int, s float64) int {
	return int(math.Round(float64(v) * s))
}

// uv returns left, top, right and bottom texture coordinates of a raster.
func (a *Atlas) uv(x, y, w, h int) [4]float32 {
	fw, fh := float32(a.width), float32(a.height)
	return [4]float32{
		float32(x) / fw,
		float32(y+h) / fh,
		float32(x+w) / fw,
		float32(y) / fh,
	}
}

// Blit copies a glyph raster into the placement of e. src holds e.H rows
// of e.W pixels, stride bytes apart; row 0 is the bottom row and lands at
// e.Y. Rows and columns outside the surface are clipped.
func (a *Atlas) Blit(e Entry, src []byte, stride int) {
	if e.IsFull() || e.Empty() {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	bpp := int(a.depth)
	w := min(e.W, a.width-e.X)
	rowBytes := w * bpp
	if rowBytes <= 0 {
		return
	}
	rows := 0
	for i := range e.H {
		y := e.Y + i
		if y >= a.height || i*stride+rowBytes > len(src) {
			break
		}
		dst := (y*a.width + e.X) * bpp
		copy(a.pixels[dst:dst+rowBytes], src[i*stride:i*stride+rowBytes])
		rows++
	}
	if rows > 0 {
		a.dirty = a.dirty.Union(binpack.XYWH(e.X, e.Y, w, rows))
	}
}

// Len returns the number of cached entries.
func (a *Atlas) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Entries returns a copy of the entry map.
func (a *Atlas) Entries() map[Key]Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return maps.Clone(a.entries)
}

// Stats holds atlas usage counters.
type Stats struct {
	Entries     int
	Allocations int
	Utilization float64
	Hits        uint64
	Misses      uint64
}

// Stats returns usage counters.
func (a *Atlas) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Stats{
		Entries:     len(a.entries),
		Allocations: a.packer.Len(),
		Utilization: a.packer.Utilization(),
		Hits:        a.hits.Load(),
		Misses:      a.misses.Load(),
	}
}

// Verify audits the underlying packing and returns the number of
// conflicts found. Zero means the surface is consistent.
func (a *Atlas) Verify() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.packer.Verify()
}
