package text

import (
	"github.com/gogpu/glyphatlas/fontdb"
	"github.com/gogpu/glyphatlas/internal/cache"
)

// DefaultShapeCacheSize is the number of shaped segments kept by a
// ShapeCache created with capacity 0.
const DefaultShapeCacheSize = 1024

// shapeKey holds everything that affects a shaping result. Position and
// color do not.
type shapeKey struct {
	font int
	size int
	lang string
	text string
}

// ShapeCache memoizes Shaper results for repeated segments.
//
// ShapeCache is safe for concurrent use. The returned slices are shared
// between callers and must not be modified.
type ShapeCache struct {
	shaper *Shaper
	shapes *cache.Cache[shapeKey, []Shape]
}

// ShapeCacheStats holds shaping cache statistics.
type ShapeCacheStats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// NewShapeCache wraps s with an LRU cache of the given capacity.
func NewShapeCache(s *Shaper, capacity int) *ShapeCache {
	if capacity <= 0 {
		capacity = DefaultShapeCacheSize
	}
	return &ShapeCache{
		shaper: s,
		shapes: cache.New[shapeKey, []Shape](capacity),
	}
}

// Shape returns the cached shapes for seg, shaping it on a miss. Errors
// are not cached.
func (c *ShapeCache) Shape(seg Segment, face *fontdb.Face) ([]Shape, error) {
	if face == nil {
		return nil, ErrNoFace
	}
	key := shapeKey{font: face.ID, size: seg.Size, lang: seg.Language, text: seg.Text}
	if shapes, ok := c.shapes.Get(key); ok {
		return shapes, nil
	}
	shapes, err := c.shaper.Shape(seg, face)
	if err != nil {
		return nil, err
	}
	c.shapes.Set(key, shapes)
	return shapes, nil
}

// Forget drops every cached result for the font with the given id, and
// the shaper's parsed copy of it.
func (c *ShapeCache) Forget(id int) {
	c.shapes.DeleteFunc(func(k shapeKey) bool { return k.font == id })
	c.shaper.Forget(id)
}

// Stats returns cache statistics.
func (c *ShapeCache) Stats() ShapeCacheStats {
	s := c.shapes.Stats()
	return ShapeCacheStats{Len: s.Len, Hits: s.Hits, Misses: s.Misses, Evictions: s.Evictions}
}
