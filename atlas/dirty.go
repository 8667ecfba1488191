package atlas

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphatlas/binpack"
)

// emptyDirty returns the inverted rectangle that acts as the identity
// for Union.
func (a *Atlas) emptyDirty() binpack.Rect {
	return binpack.Rect{A: binpack.Pt(a.width, a.height)}
}

// ExpandDirty grows the dirty rectangle to include r.
func (a *Atlas) ExpandDirty(r binpack.Rect) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = a.dirty.Union(r)
}

// TakeDirty returns the region written since the last call and resets
// it. The result is inverted (Empty reports true) when nothing was
// written.
func (a *Atlas) TakeDirty() binpack.Rect {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.dirty
	a.dirty = a.emptyDirty()
	return r
}

// Dirty returns the region written since the last TakeDirty.
func (a *Atlas) Dirty() binpack.Rect {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dirty
}

// DirtyEmpty reports whether nothing was written since the last
// TakeDirty.
func (a *Atlas) DirtyEmpty() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dirty.Empty()
}

// UploadRegion describes a texture write covering the dirty part of an
// atlas.
type UploadRegion struct {
	// Rect is the dirty region in atlas pixels.
	Rect binpack.Rect

	Origin gputypes.Origin3D
	Size   gputypes.Extent3D
	Format gputypes.TextureFormat
	Layout gputypes.TextureDataLayout

	// Data holds the region's rows, bottom first, Layout.BytesPerRow
	// bytes each.
	Data []byte
}

// Upload takes the dirty rectangle and copies its pixels into a texture
// write description. It returns false when nothing needs uploading.
func (a *Atlas) Upload() (UploadRegion, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := a.dirty.Intersect(binpack.R(binpack.Point{}, binpack.Pt(a.width, a.height)))
	a.dirty = a.emptyDirty()
	if r.Empty() {
		return UploadRegion{}, false
	}

	bpp := int(a.depth)
	rowBytes := r.Dx() * bpp
	data := make([]byte, rowBytes*r.Dy())
	for i := range r.Dy() {
		src := ((r.A.Y+i)*a.width + r.A.X) * bpp
		copy(data[i*rowBytes:(i+1)*rowBytes], a.pixels[src:src+rowBytes])
	}

	return UploadRegion{
		Rect:   r,
		Origin: gputypes.Origin3D{X: uint32(r.A.X), Y: uint32(r.A.Y)},
		Size: gputypes.Extent3D{
			Width:              uint32(r.Dx()),
			Height:             uint32(r.Dy()),
			DepthOrArrayLayers: 1,
		},
		Format: a.depth.Format(),
		Layout: gputypes.TextureDataLayout{
			BytesPerRow:  uint32(rowBytes),
			RowsPerImage: uint32(r.Dy()),
		},
		Data: data,
	}, true
}
