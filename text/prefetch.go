package text

import "github.com/gogpu/glyphatlas/atlas"

// Prefetch queues every glyph of shapes at the segment's font and size
// for rendering into a, usually the atlas returned by
// Manager.Current(seg.Font). It returns the number of glyphs queued.
// After b.Run, Layout finds them without rendering.
func Prefetch(b *atlas.Batch, a *atlas.Atlas, shapes []Shape, seg Segment) int {
	n := 0
	for _, sh := range shapes {
		if b.Add(a, seg.Font, seg.Size, sh.Glyph) {
			n++
		}
	}
	return n
}
