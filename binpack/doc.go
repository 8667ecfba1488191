// Package binpack implements a two-dimensional bin packer using the
// MAXRECTS algorithm with the best short side fit heuristic.
//
// # Free space index
//
// A Packer tracks free space as a list of maximal free rectangles. The
// rectangles may overlap one another, but none is contained in another.
// Placing a rectangle splits every free rectangle it overlaps into up to
// four maximal pieces, after which contained pieces are pruned.
//
// Pruning is quadratic in the free list length. The packer keeps a low
// water mark below which the free list has not changed since the last
// pruning pass, so pairs entirely below the mark are skipped.
//
// # Allocation
//
// Allocations are append-only within a generation. There is no free
// operation: Reset and SetSize start a new generation.
//
//	p := binpack.New(binpack.Pt(512, 512))
//	r, ok := p.Allocate(1, binpack.Pt(24, 32))
//	if !ok {
//	    // surface full
//	}
//
// A failed allocation is the normal "surface full" outcome, not an error.
package binpack
