package atlas

import (
	"bytes"
	"errors"
	"sync/atomic"
	"testing"
)

func newTestAtlas(t testing.TB, w, h int, depth Depth) *Atlas {
	t.Helper()
	a, err := New(Config{Width: w, Height: h, Depth: depth, ImageFormat: FormatPNG})
	if err != nil {
		t.Fatalf("New(%dx%d) = %v", w, h, err)
	}
	return a
}

// glyphExtent gives every glyph id a distinct but small raster size.
func glyphExtent(glyph int) (w, h int) {
	return 4 + glyph%7, 6 + glyph%5
}

// boxRenderer renders each glyph as a solid box filled with the low byte
// of the glyph id. With template set it caches scale independent entries.
type boxRenderer struct {
	template bool
	calls    atomic.Int64
}

func (r *boxRenderer) Render(a *Atlas, font, size, glyph int) (Entry, error) {
	r.calls.Add(1)

	w, h := glyphExtent(glyph)
	keySize := size
	if r.template {
		keySize = TemplateSize
	}
	e := a.Insert(font, keySize, glyph, size, 1, -2, w, h)
	if e.IsFull() {
		return e, nil
	}
	bpp := int(a.Depth())
	src := bytes.Repeat([]byte{byte(glyph)}, w*h*bpp)
	a.Blit(e, src, w*bpp)
	return e, nil
}

var errRender = errors.New("render failed")

// failRenderer fails the test if it is ever called.
func failRenderer(t *testing.T) Renderer {
	return RendererFunc(func(*Atlas, int, int, int) (Entry, error) {
		t.Error("renderer called unexpectedly")
		return Entry{}, errRender
	})
}
