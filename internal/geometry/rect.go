package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// RectEngine implements Engine for axis-aligned rectangles only. Every
// polygon must be a rectangle; multipolygons are treated as sets of
// rectangles. It needs no native library and is exact for lattice input.
type RectEngine struct {
	// Tolerance is the distance below which two coordinates are equal.
	Tolerance float64
}

func NewRectEngine() *RectEngine {
	return &RectEngine{Tolerance: 1e-9}
}

// rect returns the bound of a polygon after checking it is a rectangle.
func (e *RectEngine) rect(p orb.Polygon) (orb.Bound, error) {
	if len(p) != 1 {
		return orb.Bound{}, fmt.Errorf("%w: polygon has %d rings", ErrNotRectangular, len(p))
	}
	b := p.Bound()
	if b.Max.X()-b.Min.X() <= e.Tolerance || b.Max.Y()-b.Min.Y() <= e.Tolerance {
		return orb.Bound{}, fmt.Errorf("%w: degenerate ring", ErrNotRectangular)
	}
	corners := map[[2]bool]bool{}
	for _, pt := range vertices(p) {
		onX := e.eq(pt.X(), b.Min.X()) || e.eq(pt.X(), b.Max.X())
		onY := e.eq(pt.Y(), b.Min.Y()) || e.eq(pt.Y(), b.Max.Y())
		if !onX || !onY {
			return orb.Bound{}, fmt.Errorf("%w: vertex %v is not a corner", ErrNotRectangular, pt)
		}
		corners[[2]bool{e.eq(pt.X(), b.Max.X()), e.eq(pt.Y(), b.Max.Y())}] = true
	}
	if len(corners) != 4 {
		return orb.Bound{}, fmt.Errorf("%w: ring has %d corners", ErrNotRectangular, len(corners))
	}
	return b, nil
}

// rects returns the rectangles making up g.
func (e *RectEngine) rects(g orb.Geometry) ([]orb.Bound, error) {
	if b, ok := g.(orb.Bound); ok {
		return []orb.Bound{b}, nil
	}
	polys, err := polygonsOf(g)
	if err != nil {
		return nil, err
	}
	out := make([]orb.Bound, 0, len(polys))
	for _, p := range polys {
		b, err := e.rect(p)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (e *RectEngine) eq(a, b float64) bool {
	return math.Abs(a-b) <= e.Tolerance
}

// intersects uses closed rectangles: touching edges and corners intersect.
func (e *RectEngine) intersects(a, b orb.Bound) bool {
	return a.Min.X() <= b.Max.X()+e.Tolerance && b.Min.X() <= a.Max.X()+e.Tolerance &&
		a.Min.Y() <= b.Max.Y()+e.Tolerance && b.Min.Y() <= a.Max.Y()+e.Tolerance
}

func (e *RectEngine) contains(a, b orb.Bound) bool {
	return a.Min.X() <= b.Min.X()+e.Tolerance && a.Min.Y() <= b.Min.Y()+e.Tolerance &&
		a.Max.X() >= b.Max.X()-e.Tolerance && a.Max.Y() >= b.Max.Y()-e.Tolerance
}

// connected reports whether two rectangles overlap or share an edge of
// positive length. Rectangles meeting only at a corner stay separate.
func (e *RectEngine) connected(a, b orb.Bound) bool {
	ox := math.Min(a.Max.X(), b.Max.X()) - math.Max(a.Min.X(), b.Min.X())
	oy := math.Min(a.Max.Y(), b.Max.Y()) - math.Max(a.Min.Y(), b.Min.Y())
	if ox < -e.Tolerance || oy < -e.Tolerance {
		return false
	}
	return ox > e.Tolerance || oy > e.Tolerance
}

func (e *RectEngine) Dissolve(polys []orb.Polygon, keepDisjoint bool) ([]orb.MultiPolygon, error) {
	if len(polys) == 0 {
		return nil, nil
	}
	rs := make([]orb.Bound, len(polys))
	for i, p := range polys {
		b, err := e.rect(p)
		if err != nil {
			return nil, fmt.Errorf("dissolve: polygon %d: %w", i, err)
		}
		rs[i] = b
	}
	if !keepDisjoint {
		mp := make(orb.MultiPolygon, len(rs))
		for i, r := range rs {
			mp[i] = r.ToPolygon()
		}
		return []orb.MultiPolygon{mp}, nil
	}

	parent := make([]int, len(rs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := range rs {
		for j := i + 1; j < len(rs); j++ {
			if e.connected(rs[i], rs[j]) {
				ri, rj := find(i), find(j)
				if ri != rj {
					if rj < ri {
						ri, rj = rj, ri
					}
					parent[rj] = ri
				}
			}
		}
	}

	// components in order of their first member
	index := map[int]int{}
	var out []orb.MultiPolygon
	for i, r := range rs {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(out)
			index[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], r.ToPolygon())
	}
	return out, nil
}

// cut is one axis-aligned line segment used to split rectangles.
type cut struct {
	at       float64 // x for vertical, y for horizontal
	from, to float64 // extent along the other axis
}

func (e *RectEngine) SplitByLines(sources []Source, lines []orb.LineString) ([]Piece, error) {
	var vertical, horizontal []cut
	for _, ls := range lines {
		for i := 0; i+1 < len(ls); i++ {
			a, b := ls[i], ls[i+1]
			switch {
			case e.eq(a.X(), b.X()) && e.eq(a.Y(), b.Y()):
				continue
			case e.eq(a.X(), b.X()):
				vertical = append(vertical, cut{at: a.X(), from: math.Min(a.Y(), b.Y()), to: math.Max(a.Y(), b.Y())})
			case e.eq(a.Y(), b.Y()):
				horizontal = append(horizontal, cut{at: a.Y(), from: math.Min(a.X(), b.X()), to: math.Max(a.X(), b.X())})
			default:
				return nil, fmt.Errorf("split: %w: segment %v-%v is not axis-aligned", ErrNotRectangular, a, b)
			}
		}
	}

	var pieces []Piece
	for _, src := range sources {
		r, err := e.rect(src.Polygon)
		if err != nil {
			return nil, fmt.Errorf("split: source %s: %w", src.Name, err)
		}
		xs := e.cutPositions(vertical, r.Min.X(), r.Max.X(), r.Min.Y(), r.Max.Y())
		ys := e.cutPositions(horizontal, r.Min.Y(), r.Max.Y(), r.Min.X(), r.Max.X())

		// top row first, left to right
		for j := len(ys) - 1; j > 0; j-- {
			for i := 0; i+1 < len(xs); i++ {
				cell := orb.Bound{
					Min: orb.Point{xs[i], ys[j-1]},
					Max: orb.Point{xs[i+1], ys[j]},
				}
				pieces = append(pieces, Piece{Source: src.Name, Polygon: cell.ToPolygon()})
			}
		}
	}
	return pieces, nil
}

// cutPositions returns the sorted split coordinates of the interval
// [lo, hi], including both ends. A cut applies when it lies strictly
// inside the interval and overlaps [olo, ohi] with positive length.
func (e *RectEngine) cutPositions(cuts []cut, lo, hi, olo, ohi float64) []float64 {
	pos := []float64{lo, hi}
	for _, c := range cuts {
		if c.at <= lo+e.Tolerance || c.at >= hi-e.Tolerance {
			continue
		}
		if math.Min(c.to, ohi)-math.Max(c.from, olo) <= e.Tolerance {
			continue
		}
		pos = append(pos, c.at)
	}
	sort.Float64s(pos)
	out := pos[:1]
	for _, p := range pos[1:] {
		if !e.eq(p, out[len(out)-1]) {
			out = append(out, p)
		}
	}
	// the upper end must stay exact
	out[len(out)-1] = hi
	return out
}

func (e *RectEngine) Contains(a, b orb.Geometry) (bool, error) {
	ra, err := e.rects(a)
	if err != nil {
		return false, err
	}
	rb, err := e.rects(b)
	if err != nil {
		return false, err
	}
	if len(rb) == 0 {
		return false, nil
	}
	for _, y := range rb {
		inside := false
		for _, x := range ra {
			if e.contains(x, y) {
				inside = true
				break
			}
		}
		if !inside {
			return false, nil
		}
	}
	return true, nil
}

func (e *RectEngine) Intersects(a, b orb.Geometry) (bool, error) {
	ra, err := e.rects(a)
	if err != nil {
		return false, err
	}
	rb, err := e.rects(b)
	if err != nil {
		return false, err
	}
	for _, x := range ra {
		for _, y := range rb {
			if e.intersects(x, y) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (e *RectEngine) Within(a, b orb.Geometry) (bool, error) {
	return e.Contains(b, a)
}

func (e *RectEngine) SelectIntersecting(candidates, selectors []orb.Geometry) ([]int, error) {
	sel := make([][]orb.Bound, len(selectors))
	for i, s := range selectors {
		rs, err := e.rects(s)
		if err != nil {
			return nil, fmt.Errorf("select: selector %d: %w", i, err)
		}
		sel[i] = rs
	}
	var hits []int
	for i, c := range candidates {
		rc, err := e.rects(c)
		if err != nil {
			return nil, fmt.Errorf("select: candidate %d: %w", i, err)
		}
		if e.anyIntersects(rc, sel) {
			hits = append(hits, i)
		}
	}
	return hits, nil
}

func (e *RectEngine) anyIntersects(rc []orb.Bound, sel [][]orb.Bound) bool {
	for _, s := range sel {
		for _, x := range s {
			for _, y := range rc {
				if e.intersects(x, y) {
					return true
				}
			}
		}
	}
	return false
}

func (e *RectEngine) BoundingBox(g orb.Geometry) orb.Bound {
	return boundingBox(g)
}

func (e *RectEngine) Vertices(g orb.Geometry) []orb.Point {
	return vertices(g)
}

// Reproject transforms the corners of the rectangle and returns the
// bounding rectangle of the result, which keeps the output rectangular.
func (e *RectEngine) Reproject(p orb.Polygon, from, to string) (orb.Polygon, error) {
	out, err := ReprojectPolygon(p, from, to)
	if err != nil {
		return nil, err
	}
	if SameCRS(from, to) {
		return out, nil
	}
	return out.Bound().ToPolygon(), nil
}
