package atlas

// Renderer rasterizes glyphs into an atlas.
//
// Render is called on a cache miss. It reserves space with a.Insert,
// writes the raster with a.Blit and returns the inserted entry. To make
// one raster serve every size, a renderer inserts under TemplateSize with
// the reference size as entrySize. If Insert reports a full surface the
// renderer returns FullEntry and a nil error.
//
// Render is called without any atlas lock held. A Renderer instance is
// used by one goroutine at a time.
type Renderer interface {
	Render(a *Atlas, font, size, glyph int) (Entry, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(a *Atlas, font, size, glyph int) (Entry, error)

// Render calls f(a, font, size, glyph).
func (f RendererFunc) Render(a *Atlas, font, size, glyph int) (Entry, error) {
	return f(a, font, size, glyph)
}

// RendererFactory creates renderer instances for parallel workers.
type RendererFactory func() Renderer
