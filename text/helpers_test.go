package text

import (
	"sync/atomic"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/fontdb"
)

func goRegular(t testing.TB) *fontdb.Face {
	t.Helper()
	face, err := fontdb.NewRegistry().Add("Go-Regular.ttf", goregular.TTF)
	if err != nil {
		t.Fatalf("Add(goregular) = %v", err)
	}
	return face
}

func newTestManager(t testing.TB) *atlas.Manager {
	t.Helper()
	m, err := atlas.NewManager(atlas.Config{Width: 256, Height: 256, Depth: atlas.DepthGray, ImageFormat: atlas.FormatPNG})
	if err != nil {
		t.Fatalf("NewManager() = %v", err)
	}
	return m
}

// boxRenderer inserts every glyph as a 6×8 raster with offset (1, -2),
// except blank which gets no raster.
type boxRenderer struct {
	blank int
	calls atomic.Int64
}

func (r *boxRenderer) Render(a *atlas.Atlas, font, size, glyph int) (atlas.Entry, error) {
	r.calls.Add(1)
	w, h := 6, 8
	if glyph == r.blank {
		w, h = 0, 0
	}
	return a.Insert(font, size, glyph, size, 1, -2, w, h), nil
}

func failRenderer(t *testing.T) atlas.Renderer {
	return atlas.RendererFunc(func(_ *atlas.Atlas, font, size, glyph int) (atlas.Entry, error) {
		t.Errorf("renderer called for font %d size %d glyph %d", font, size, glyph)
		return atlas.Entry{}, atlas.ErrNoRenderer
	})
}
