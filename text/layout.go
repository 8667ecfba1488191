package text

import (
	"fmt"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphatlas/atlas"
)

// Quad is one textured rectangle in target pixels, y down. UV is the
// entry's left, top, right and bottom texture coordinates.
type Quad struct {
	AtlasID        int
	X0, Y0, X1, Y1 int
	UV             [4]float32
	Color          uint32
}

// Layout places shapes, as returned by Shaper.Shape for seg, at the
// segment origin and returns a quad for every glyph with a raster.
// Glyphs are looked up through m and rendered with r on a miss.
//
// Entry offsets are taken as the raster's left edge and bottom edge
// relative to the pen position, y up. Glyphs without a raster, such as
// spaces, only advance the pen.
func Layout(m *atlas.Manager, r atlas.Renderer, shapes []Shape, seg Segment) ([]Quad, error) {
	quads := make([]Quad, 0, len(shapes))

	var penX, penY fixed.Int26_6
	for _, sh := range shapes {
		g, err := m.Lookup(seg.Font, seg.Size, sh.Glyph, r)
		if err != nil {
			return quads, fmt.Errorf("text: glyph %d: %w", sh.Glyph, err)
		}

		if !g.Empty() {
			x0 := seg.X + g.OX + (penX + sh.XOffset).Round()
			y0 := seg.Y - g.OY - g.H - (penY + sh.YOffset).Round()
			quads = append(quads, Quad{
				AtlasID: g.AtlasID,
				X0:      x0,
				Y0:      y0,
				X1:      x0 + g.W,
				Y1:      y0 + g.H,
				UV:      g.UV,
				Color:   seg.Color,
			})
		}

		penX += sh.XAdvance
		penY += sh.YAdvance
	}
	return quads, nil
}

// Advance returns the total pen advance of shapes in pixels.
func Advance(shapes []Shape) (x, y int) {
	var ax, ay fixed.Int26_6
	for _, sh := range shapes {
		ax += sh.XAdvance
		ay += sh.YAdvance
	}
	return ax.Round(), ay.Round()
}
