// Package text shapes strings into positioned glyphs and lays them out
// as textured quads over glyph atlases.
//
// Shaping uses the HarfBuzz port in github.com/go-text/typesetting. Base
// direction comes from the Unicode bidirectional algorithm in
// golang.org/x/text/unicode/bidi. Layout resolves every glyph through an
// [atlas.Manager], and [Prefetch] queues a shaped segment on an
// [atlas.Batch] so its glyphs render in parallel before layout.
// [ShapeCache] keeps recent shaping results for text drawn every frame.
package text
