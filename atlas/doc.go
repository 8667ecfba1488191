// Package atlas implements a glyph atlas: a single texture surface shared
// by many rendered glyphs, with a cache mapping (font, size, glyph) to the
// placement of the glyph raster on the surface.
//
// # Entries and templates
//
// Each cached glyph is an [Entry] holding its placement, metrics and
// texture coordinates. An entry stored under [TemplateSize] is a template:
// its raster is scale independent (for example a signed distance field)
// and [Atlas.Lookup] serves any requested size from it through
// [Atlas.DeriveScaled] without allocating more surface.
//
// # Rendering
//
// The atlas does not rasterize. On a miss, Lookup calls a [Renderer],
// which reserves space with [Atlas.Insert] and writes pixels with
// [Atlas.Blit]. When the surface is full Insert returns an entry for
// which [Entry.IsFull] is true; callers start a new atlas, which
// [Manager] does automatically. [Batch] renders many glyphs in parallel
// into shared atlases.
//
// # Uploads
//
// Every write grows a dirty rectangle. [Atlas.Upload] takes it and
// describes the minimal texture region to re-upload.
//
// # Persistence
//
// An atlas is saved as an image (PNG, TIFF or BMP) and a CSV sidecar
// with one record per entry; see [Atlas.SaveMap] and [Atlas.Load].
package atlas
