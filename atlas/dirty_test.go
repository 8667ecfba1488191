package atlas

import (
	"bytes"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphatlas/binpack"
)

func TestDirty_Sentinel(t *testing.T) {
	a := newTestAtlas(t, 64, 32, DepthGray)
	d := a.Dirty()
	if d.A != binpack.Pt(64, 32) || d.B != (binpack.Point{}) {
		t.Errorf("empty dirty rect = %v, want inverted (64,32)-(0,0)", d)
	}
	if !a.DirtyEmpty() {
		t.Error("DirtyEmpty() = false on new atlas")
	}
}

func TestDirty_ExpandAndTake(t *testing.T) {
	a := newTestAtlas(t, 64, 64, DepthGray)

	a.ExpandDirty(binpack.XYWH(10, 10, 5, 5))
	a.ExpandDirty(binpack.XYWH(2, 20, 4, 4))
	want := binpack.R(binpack.Pt(2, 10), binpack.Pt(15, 24))
	if got := a.Dirty(); got != want {
		t.Errorf("Dirty() = %v, want %v", got, want)
	}

	if got := a.TakeDirty(); got != want {
		t.Errorf("TakeDirty() = %v, want %v", got, want)
	}
	if !a.DirtyEmpty() {
		t.Error("TakeDirty did not reset the dirty rect")
	}
	if got := a.TakeDirty(); !got.Empty() {
		t.Errorf("second TakeDirty() = %v, want empty", got)
	}
}

func TestDirty_InsertCoversPlacement(t *testing.T) {
	a := newTestAtlas(t, 64, 64, DepthGray)
	e1 := a.Insert(0, 12, 1, 12, 0, 0, 10, 14)
	e2 := a.Insert(0, 12, 2, 12, 0, 0, 6, 6)

	r1, _ := a.packer.Allocation(e1.BinID)
	r2, _ := a.packer.Allocation(e2.BinID)
	if got, want := a.Dirty(), r1.Union(r2); got != want {
		t.Errorf("Dirty() = %v, want %v", got, want)
	}
}

func TestDirty_DeriveDoesNotDirty(t *testing.T) {
	a := newTestAtlas(t, 64, 64, DepthGray)
	tmpl := a.Insert(0, TemplateSize, 1, 12, 0, 0, 10, 14)
	a.TakeDirty()

	a.DeriveScaled(0, 36, 1, tmpl)
	if !a.DirtyEmpty() {
		t.Errorf("DeriveScaled dirtied %v", a.Dirty())
	}
}

func TestUpload(t *testing.T) {
	a := newTestAtlas(t, 32, 32, DepthGray)
	a.Insert(0, 12, 1, 12, 0, 0, 4, 4)
	e := a.Insert(0, 12, 2, 12, 0, 0, 3, 2)
	a.TakeDirty()
	a.Blit(e, []byte{1, 2, 3, 4, 5, 6}, 3)

	up, ok := a.Upload()
	if !ok {
		t.Fatal("Upload() = false after Blit")
	}
	if want := binpack.XYWH(e.X, e.Y, 3, 2); up.Rect != want {
		t.Errorf("Rect = %v, want %v", up.Rect, want)
	}
	if up.Origin.X != uint32(e.X) || up.Origin.Y != uint32(e.Y) {
		t.Errorf("Origin = %+v, want (%d,%d)", up.Origin, e.X, e.Y)
	}
	wantSize := gputypes.Extent3D{Width: 3, Height: 2, DepthOrArrayLayers: 1}
	if up.Size != wantSize {
		t.Errorf("Size = %+v, want %+v", up.Size, wantSize)
	}
	if up.Format != gputypes.TextureFormatR8Unorm {
		t.Errorf("Format = %v, want R8Unorm", up.Format)
	}
	if up.Layout.BytesPerRow != 3 || up.Layout.RowsPerImage != 2 {
		t.Errorf("Layout = %+v, want 3 bytes x 2 rows", up.Layout)
	}
	if !bytes.Equal(up.Data, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("Data = %v", up.Data)
	}

	if _, ok := a.Upload(); ok {
		t.Error("second Upload() should find nothing dirty")
	}
}

func TestUpload_RGBA(t *testing.T) {
	a := newTestAtlas(t, 16, 16, DepthRGBA)
	e := a.Insert(0, 12, 1, 12, 0, 0, 1, 1)
	a.TakeDirty()
	a.Blit(e, []byte{9, 8, 7, 6}, 4)

	up, ok := a.Upload()
	if !ok {
		t.Fatal("Upload() = false")
	}
	if up.Format != gputypes.TextureFormatRGBA8Unorm || up.Layout.BytesPerRow != 4 {
		t.Errorf("Format/BytesPerRow = %v/%d, want RGBA8Unorm/4", up.Format, up.Layout.BytesPerRow)
	}
	if !bytes.Equal(up.Data, []byte{9, 8, 7, 6}) {
		t.Errorf("Data = %v", up.Data)
	}
}

func TestUpload_ClipsToSurface(t *testing.T) {
	a := newTestAtlas(t, 16, 16, DepthGray)
	a.ExpandDirty(binpack.XYWH(10, 10, 20, 20))

	up, ok := a.Upload()
	if !ok {
		t.Fatal("Upload() = false")
	}
	if want := binpack.R(binpack.Pt(10, 10), binpack.Pt(16, 16)); up.Rect != want {
		t.Errorf("Rect = %v, want %v", up.Rect, want)
	}
	if len(up.Data) != 36 {
		t.Errorf("len(Data) = %d, want 36", len(up.Data))
	}
}
