// Package glyphatlas packs rendered glyph bitmaps into fixed-size texture
// atlases and caches their placements.
//
// # Overview
//
// The module is organized bottom-up:
//   - binpack: integer geometry and a MAXRECTS best-short-side-fit packer
//   - atlas: the glyph cache (Atlas), multi-atlas Manager, parallel Batch
//     rendering, dirty-rectangle tracking and CSV/image persistence
//   - fontdb: font registry assigning the integer font ids used in keys
//   - text: HarfBuzz shaping and quad layout on top of the atlas
//   - cmd/atlasctl: packing demo, atlas inspection and format conversion
//
// # Quick Start
//
//	a, err := atlas.New(atlas.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	e, err := a.Lookup(fontID, 16, glyphID, renderer)
//	if err != nil {
//	    return err
//	}
//	if e.IsFull() {
//	    // start a new atlas
//	}
//
// Pixels are produced by a caller-supplied atlas.Renderer; this module never
// rasterizes glyph outlines itself.
//
// # Logging
//
// All packages log through Logger, which is silent until SetLogger is called.
package glyphatlas
