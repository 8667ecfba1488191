package atlas

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/glyphatlas"
)

// Glyph locates a cached glyph: the atlas it lives in and its entry.
type Glyph struct {
	AtlasID int
	Entry
}

// Manager spreads glyphs over as many atlases as needed. Each font
// renders into its own current atlas; when that fills up a new one is
// started.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	config  Config
	atlases []*Atlas
	current map[int]int
	glyphs  map[Key]Glyph

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewManager creates a manager whose atlases use cfg.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		config:  cfg,
		current: make(map[int]int),
		glyphs:  make(map[Key]Glyph),
	}, nil
}

// Lookup returns the glyph for (font, size, glyph), rendering it with r
// on a miss. If the font's current atlas is full a new atlas is started
// and the glyph rendered again; a glyph that does not fit into an empty
// atlas fails with ErrGlyphTooLarge.
func (m *Manager) Lookup(font, size, glyph int, r Renderer) (Glyph, error) {
	key := NewKey(font, size, glyph)

	// Fast path: check if already cached (read lock)
	m.mu.RLock()
	if g, ok := m.glyphs[key]; ok {
		m.mu.RUnlock()
		m.hits.Add(1)
		return g, nil
	}
	m.mu.RUnlock()

	m.misses.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if g, ok := m.glyphs[key]; ok {
		return g, nil
	}

	id, err := m.currentAtlas(font)
	if err != nil {
		return Glyph{}, err
	}
	e, err := m.atlases[id].Lookup(font, size, glyph, r)
	if err != nil {
		return Glyph{}, err
	}
	if e.IsFull() {
		if m.atlases[id].Len() == 0 {
			return Glyph{}, ErrGlyphTooLarge
		}
		if id, err = m.newAtlas(font); err != nil {
			return Glyph{}, err
		}
		if e, err = m.atlases[id].Lookup(font, size, glyph, r); err != nil {
			return Glyph{}, err
		}
		if e.IsFull() {
			return Glyph{}, ErrGlyphTooLarge
		}
	}

	g := Glyph{AtlasID: id, Entry: e}
	m.glyphs[key] = g
	return g, nil
}

// Current returns the atlas font currently renders into, creating it if
// the font has none yet. Glyphs queued on a Batch for this atlas are
// found by later Lookups without rendering again.
func (m *Manager) Current(font int) (int, *Atlas, error) {
	m.mu.RLock()
	if id, ok := m.current[font]; ok {
		a := m.atlases[id]
		m.mu.RUnlock()
		return id, a, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.currentAtlas(font)
	if err != nil {
		return 0, nil, err
	}
	return id, m.atlases[id], nil
}

// currentAtlas returns the atlas font renders into, creating the first
// one. Must be called with write lock held.
func (m *Manager) currentAtlas(font int) (int, error) {
	if id, ok := m.current[font]; ok {
		return id, nil
	}
	return m.newAtlas(font)
}

// newAtlas starts a new atlas for font. Must be called with write lock
// held.
func (m *Manager) newAtlas(font int) (int, error) {
	a, err := New(m.config)
	if err != nil {
		return 0, err
	}
	id := len(m.atlases)
	m.atlases = append(m.atlases, a)
	m.current[font] = id

	glyphatlas.Logger().Debug("atlas: manager started atlas", "font", font, "atlas", id)
	return id, nil
}

// Import registers a, typically loaded from disk, as the current atlas
// of font and caches its entries. It returns the new atlas id.
func (m *Manager) Import(a *Atlas, font int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := len(m.atlases)
	m.atlases = append(m.atlases, a)
	m.current[font] = id
	for k, e := range a.Entries() {
		if k.Font() == font {
			m.glyphs[k] = Glyph{AtlasID: id, Entry: e}
		}
	}
	return id
}

// Atlas returns the atlas with the given id, or nil.
func (m *Manager) Atlas(id int) *Atlas {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id < 0 || id >= len(m.atlases) {
		return nil
	}
	return m.atlases[id]
}

// Atlases returns all atlases indexed by id.
func (m *Manager) Atlases() []*Atlas {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Atlas, len(m.atlases))
	copy(out, m.atlases)
	return out
}

// GlyphCount returns the number of glyphs cached by the manager.
func (m *Manager) GlyphCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.glyphs)
}

// ManagerStats holds manager cache statistics.
type ManagerStats struct {
	Hits    uint64
	Misses  uint64
	Atlases int
	Glyphs  int
}

// Stats returns cache statistics.
func (m *Manager) Stats() ManagerStats {
	m.mu.RLock()
	s := ManagerStats{Atlases: len(m.atlases), Glyphs: len(m.glyphs)}
	m.mu.RUnlock()

	s.Hits = m.hits.Load()
	s.Misses = m.misses.Load()
	return s
}

// Clear drops all atlases and cached glyphs.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.atlases = nil
	m.current = make(map[int]int)
	m.glyphs = make(map[Key]Glyph)
	m.hits.Store(0)
	m.misses.Store(0)
}
