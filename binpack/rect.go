package binpack

import "fmt"

// Rect is an axis-aligned rectangle with minimum corner A and maximum
// corner B. A Rect built with R always satisfies A.X <= B.X and A.Y <= B.Y.
type Rect struct {
	A, B Point
}

// R returns the rectangle spanned by a and b, swapping coordinates per
// axis where needed so that A <= B componentwise.
func R(a, b Point) Rect {
	if a.X > b.X {
		a.X, b.X = b.X, a.X
	}
	if a.Y > b.Y {
		a.Y, b.Y = b.Y, a.Y
	}
	return Rect{A: a, B: b}
}

// XYWH returns the rectangle with origin (x, y) and size (w, h).
func XYWH(x, y, w, h int) Rect {
	return R(Pt(x, y), Pt(x+w, y+h))
}

// Dx returns the width of r.
func (r Rect) Dx() int { return r.B.X - r.A.X }

// Dy returns the height of r.
func (r Rect) Dy() int { return r.B.Y - r.A.Y }

// Size returns the width and height of r.
func (r Rect) Size() Point { return r.B.Sub(r.A) }

// Area returns the area of r.
func (r Rect) Area() int { return r.Dx() * r.Dy() }

// Empty reports whether r has zero area.
func (r Rect) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }

// Contains reports whether o lies entirely inside r. Shared edges count
// as inside.
func (r Rect) Contains(o Rect) bool {
	return r.A.X <= o.A.X && r.B.X >= o.B.X && r.A.Y <= o.A.Y && r.B.Y >= o.B.Y
}

// Intersects reports whether r and o overlap. Rectangles that only touch
// along an edge or a corner do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.A.X < o.B.X && r.B.X > o.A.X && r.A.Y < o.B.Y && r.B.Y > o.A.Y
}

// Intersect returns the overlap of r and o, or the zero Rect if they do
// not intersect.
func (r Rect) Intersect(o Rect) Rect {
	if !r.Intersects(o) {
		return Rect{}
	}
	return Rect{
		A: Pt(max(r.A.X, o.A.X), max(r.A.Y, o.A.Y)),
		B: Pt(min(r.B.X, o.B.X), min(r.B.Y, o.B.Y)),
	}
}

// Union returns the smallest rectangle containing r and o. The corners
// are combined without normalization, so an inverted r acts as an
// identity element.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		A: Pt(min(r.A.X, o.A.X), min(r.A.Y, o.A.Y)),
		B: Pt(max(r.B.X, o.B.X), max(r.B.Y, o.B.Y)),
	}
}

// Subtract returns the maximal rectangles covering r minus o.
//
// If o does not intersect r the result is r itself. Otherwise each piece
// spans the full extent of r along the axis o does not clip, so pieces
// overlap at the corners. Pieces are returned in the order left, right,
// bottom, top; empty pieces are omitted.
func (r Rect) Subtract(o Rect) Pieces {
	var p Pieces
	if !r.Intersects(o) {
		p.add(r)
		return p
	}
	if o.A.X > r.A.X {
		p.add(Rect{A: r.A, B: Pt(o.A.X, r.B.Y)})
	}
	if o.B.X < r.B.X {
		p.add(Rect{A: Pt(o.B.X, r.A.Y), B: r.B})
	}
	if o.A.Y > r.A.Y {
		p.add(Rect{A: r.A, B: Pt(r.B.X, o.A.Y)})
	}
	if o.B.Y < r.B.Y {
		p.add(Rect{A: Pt(r.A.X, o.B.Y), B: r.B})
	}
	return p
}

// String returns a string representation of r.
func (r Rect) String() string {
	return fmt.Sprintf("%v-%v [%d,%d]", r.A, r.B, r.Dx(), r.Dy())
}

// Pieces holds the result of Rect.Subtract: at most four rectangles.
type Pieces struct {
	rects [4]Rect
	n     int
}

func (p *Pieces) add(r Rect) {
	if r.Area() != 0 {
		p.rects[p.n] = r
		p.n++
	}
}

// Len returns the number of pieces.
func (p Pieces) Len() int { return p.n }

// At returns the i-th piece.
func (p Pieces) At(i int) Rect { return p.rects[i] }

// Rects returns the pieces as a slice backed by p.
func (p *Pieces) Rects() []Rect { return p.rects[:p.n] }
