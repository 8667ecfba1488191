package fontdb

import (
	"fmt"
	"os"
	"sync"

	"github.com/gogpu/glyphatlas"
)

// MaxFonts is the number of distinct font ids an atlas key can hold.
const MaxFonts = 1 << 20

// Registry assigns font ids in registration order and looks fonts up by
// id, path or name.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	faces      []*Face
	byPath     map[string]int
	byName     map[string]int
	byFullName map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byPath:     make(map[string]int),
		byName:     make(map[string]int),
		byFullName: make(map[string]int),
	}
}

// Add parses data and registers it under path. Adding a path twice
// returns the face registered first.
func (r *Registry) Add(path string, data []byte) (*Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPath[path]; ok {
		return r.faces[id], nil
	}
	if len(r.faces) >= MaxFonts {
		return nil, ErrTooManyFonts
	}

	face, err := newFace(len(r.faces), path, data)
	if err != nil {
		return nil, fmt.Errorf("fontdb: parse %s: %w", path, err)
	}
	r.faces = append(r.faces, face)
	r.byPath[path] = face.ID
	if _, ok := r.byName[face.Name]; !ok && face.Name != "" {
		r.byName[face.Name] = face.ID
	}
	if _, ok := r.byFullName[face.FullName]; !ok && face.FullName != "" {
		r.byFullName[face.FullName] = face.ID
	}

	glyphatlas.Logger().Debug("fontdb: registered font",
		"id", face.ID, "path", path, "name", face.Name, "glyphs", face.NumGlyphs())
	return face, nil
}

// Open reads and registers the font file at path.
func (r *Registry) Open(path string) (*Face, error) {
	if f, ok := r.ByPath(path); ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontdb: %w", err)
	}
	return r.Add(path, data)
}

// ByID returns the face with the given id.
func (r *Registry) ByID(id int) (*Face, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || id >= len(r.faces) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownFont, id)
	}
	return r.faces[id], nil
}

// ByPath returns the face registered under path.
func (r *Registry) ByPath(path string) (*Face, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPath[path]
	if !ok {
		return nil, false
	}
	return r.faces[id], true
}

// ByName returns the first face whose PostScript name, or failing that
// full name, equals name.
func (r *Registry) ByName(name string) (*Face, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byName[name]; ok {
		return r.faces[id], true
	}
	if id, ok := r.byFullName[name]; ok {
		return r.faces[id], true
	}
	return nil, false
}

// Len returns the number of registered fonts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.faces)
}

// Faces returns all faces in id order.
func (r *Registry) Faces() []*Face {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Face, len(r.faces))
	copy(out, r.faces)
	return out
}
