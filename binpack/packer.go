package binpack

import (
	"fmt"
	"io"
	"slices"

	"github.com/gogpu/glyphatlas"
)

// Packer allocates rectangles on a bounded surface using MAXRECTS with
// the best short side fit heuristic.
//
// Packer is not safe for concurrent use; callers that share one (such as
// atlas.Atlas) serialize access themselves.
type Packer struct {
	bounds Rect

	// free covers exactly the unallocated area. Entries may overlap but
	// none is contained in another.
	free []Rect

	// allocs is an arena indexed by allocation id.
	allocs []allocation
	count  int

	// lowWater is the free list index below which entries have not
	// changed since the last pruning pass.
	lowWater int

	// scratch collects split pieces between calls.
	scratch []Rect
}

type allocation struct {
	rect Rect
	used bool
}

// Allocation is a placed rectangle and the id it was allocated under.
type Allocation struct {
	ID   int
	Rect Rect
}

// New creates a packer for a surface of the given size with its origin
// at (0,0).
func New(size Point) *Packer {
	p := &Packer{}
	p.SetSize(size)
	return p
}

// SetSize changes the surface size and starts a new generation.
func (p *Packer) SetSize(size Point) {
	p.bounds = R(Point{}, size)
	p.Reset()
}

// Reset discards all allocations and reseeds the free list with the
// whole surface.
func (p *Packer) Reset() {
	p.free = p.free[:0]
	if !p.bounds.Empty() {
		p.free = append(p.free, p.bounds)
	}
	clear(p.allocs)
	p.allocs = p.allocs[:0]
	p.count = 0
	p.lowWater = 0
}

// Bounds returns the packable surface.
func (p *Packer) Bounds() Rect {
	return p.bounds
}

// Allocate finds space for a rectangle of the given size and records it
// under id. It returns the placement and true, or false when no free
// rectangle can hold size. A failed allocation does not modify the packer.
//
// id must be non-negative. Reusing an id overwrites its record but not the
// space it occupies.
func (p *Packer) Allocate(id int, size Point) (Rect, bool) {
	if size.X < 0 || size.Y < 0 {
		return Rect{}, false
	}
	r, ok := p.scan(size)
	if !ok {
		return Rect{}, false
	}
	p.commit(id, r)
	return r, true
}

// CreateExplicit records r as allocated under id without searching, then
// updates the free list exactly as Allocate would. It is used to rebuild
// a persisted packing.
func (p *Packer) CreateExplicit(id int, r Rect) {
	p.commit(id, r)
}

// scan returns the best short side fit placement for size. Ties keep the
// first candidate in free list order.
func (p *Packer) scan(size Point) (Rect, bool) {
	var (
		best      Rect
		bestScore int
		found     bool
	)
	for _, f := range p.free {
		if f.Dx() < size.X || f.Dy() < size.Y {
			continue
		}
		score := min(f.Dx()-size.X, f.Dy()-size.Y)
		if !found || score < bestScore {
			best = Rect{A: f.A, B: f.A.Add(size)}
			bestScore = score
			found = true
		}
	}
	return best, found
}

func (p *Packer) commit(id int, r Rect) {
	p.record(id, r)
	p.split(r)
	p.prune()
}

func (p *Packer) record(id int, r Rect) {
	if id < 0 {
		panic(fmt.Sprintf("binpack: negative allocation id %d", id))
	}
	if id >= len(p.allocs) {
		p.allocs = append(p.allocs, make([]allocation, id+1-len(p.allocs))...)
	}
	if !p.allocs[id].used {
		p.count++
	}
	p.allocs[id] = allocation{rect: r, used: true}
}

// split replaces every free rectangle that intersects r with its maximal
// pieces outside r. Untouched rectangles keep their relative order and
// pieces are appended at the end.
func (p *Packer) split(r Rect) {
	first := -1
	n := 0
	for i, f := range p.free {
		if !f.Intersects(r) {
			p.free[n] = f
			n++
			continue
		}
		if first < 0 {
			first = i
		}
		pieces := f.Subtract(r)
		p.scratch = append(p.scratch, pieces.Rects()...)
	}
	if first < 0 {
		return
	}
	p.free = append(p.free[:n], p.scratch...)
	p.scratch = p.scratch[:0]
	p.lowWater = min(p.lowWater, first)
}

// prune removes free rectangles contained in another free rectangle.
// Pairs that both lie below the low water mark were checked by an
// earlier pass and are skipped.
func (p *Packer) prune() {
	mark := p.lowWater
	for i := 0; i < len(p.free); i++ {
		for j := 0; j < len(p.free); {
			if i == j || (i < mark && j < mark) || !p.free[i].Contains(p.free[j]) {
				j++
				continue
			}
			p.free = slices.Delete(p.free, j, j+1)
			if j < mark {
				mark--
			}
			if j < i {
				i--
			}
		}
	}
	p.lowWater = len(p.free)
}

// Verify audits the packer and returns the number of conflicts: pairs of
// allocations that intersect, plus allocation and free rectangle pairs
// that intersect. Zero means the packing is consistent. Verify is
// quadratic and intended for tests and debugging.
func (p *Packer) Verify() int {
	log := glyphatlas.Logger()
	conflicts := 0
	for id, a := range p.allocs {
		if !a.used {
			continue
		}
		for j, f := range p.free {
			if a.rect.Intersects(f) {
				conflicts++
				log.Debug("binpack: allocation intersects free rect",
					"id", id, "alloc", a.rect.String(), "free", j, "rect", f.String())
			}
		}
		for other := id + 1; other < len(p.allocs); other++ {
			b := p.allocs[other]
			if b.used && a.rect.Intersects(b.rect) {
				conflicts++
				log.Debug("binpack: allocations intersect",
					"id", id, "alloc", a.rect.String(), "other", other, "rect", b.rect.String())
			}
		}
	}
	return conflicts
}

// FreeList returns a copy of the free rectangle index.
func (p *Packer) FreeList() []Rect {
	return slices.Clone(p.free)
}

// Allocation returns the rectangle recorded under id.
func (p *Packer) Allocation(id int) (Rect, bool) {
	if id < 0 || id >= len(p.allocs) || !p.allocs[id].used {
		return Rect{}, false
	}
	return p.allocs[id].rect, true
}

// Allocations returns all allocations in ascending id order.
func (p *Packer) Allocations() []Allocation {
	out := make([]Allocation, 0, p.count)
	for id, a := range p.allocs {
		if a.used {
			out = append(out, Allocation{ID: id, Rect: a.rect})
		}
	}
	return out
}

// Len returns the number of allocations in the current generation.
func (p *Packer) Len() int {
	return p.count
}

// Utilization returns the allocated area as a fraction of the surface
// area (0.0 to 1.0).
func (p *Packer) Utilization() float64 {
	total := p.bounds.Area()
	if total <= 0 {
		return 0
	}
	used := 0
	for _, a := range p.allocs {
		if a.used {
			used += a.rect.Area()
		}
	}
	return float64(used) / float64(total)
}

// Dump writes the free list and allocations to w, one rectangle per line.
func (p *Packer) Dump(w io.Writer) error {
	for i, c := range p.free {
		if _, err := fmt.Fprintf(w, "[%d] - (%d,%d - %d,%d) [%d,%d]\n",
			i, c.A.X, c.A.Y, c.B.X, c.B.Y, c.Dx(), c.Dy()); err != nil {
			return err
		}
	}
	for _, a := range p.Allocations() {
		c := a.Rect
		if _, err := fmt.Fprintf(w, "<%d> - (%d,%d - %d,%d) [%d,%d]\n",
			a.ID, c.A.X, c.A.Y, c.B.X, c.B.Y, c.Dx(), c.Dy()); err != nil {
			return err
		}
	}
	return nil
}
