// Package geometry defines the polygon algebra the grid pipeline relies on
// and provides two engines for it: a GEOS-backed engine for arbitrary
// polygons and an in-memory engine restricted to axis-aligned rectangles.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Common errors returned by the engines.
var (
	ErrNotRectangular = errors.New("geometry: geometry is not an axis-aligned rectangle")
	ErrEmptyResult    = errors.New("geometry: operation produced an empty result")
	ErrUnsupported    = errors.New("geometry: unsupported geometry type")
)

// Source is a named polygon handed to SplitByLines.
type Source struct {
	Name    string
	Polygon orb.Polygon
}

// Piece is one elementary region produced by SplitByLines. Source names
// the polygon the piece was cut from.
type Piece struct {
	Source  string
	Polygon orb.Polygon
}

// Engine is the polygon algebra used by the coverage and numbering stages.
// Implementations never mutate their inputs.
type Engine interface {
	// Dissolve merges polygons. With keepDisjoint every connected part is
	// returned separately; otherwise a single multipolygon is returned.
	Dissolve(polys []orb.Polygon, keepDisjoint bool) ([]orb.MultiPolygon, error)

	// SplitByLines cuts every source polygon by the given lines. Pieces are
	// returned grouped by source, in source order.
	SplitByLines(sources []Source, lines []orb.LineString) ([]Piece, error)

	Contains(a, b orb.Geometry) (bool, error)
	Intersects(a, b orb.Geometry) (bool, error)
	Within(a, b orb.Geometry) (bool, error)

	// SelectIntersecting returns the indices, ascending, of the candidates
	// that intersect at least one selector.
	SelectIntersecting(candidates, selectors []orb.Geometry) ([]int, error)

	BoundingBox(g orb.Geometry) orb.Bound
	Vertices(g orb.Geometry) []orb.Point

	// Reproject returns a reprojected copy of p.
	Reproject(p orb.Polygon, from, to string) (orb.Polygon, error)
}

// Boundaries returns the outer ring of every polygon as a line string.
func Boundaries(polys []orb.Polygon) []orb.LineString {
	lines := make([]orb.LineString, 0, len(polys))
	for _, p := range polys {
		if len(p) == 0 {
			continue
		}
		lines = append(lines, orb.LineString(p[0].Clone()))
	}
	return lines
}

// Snap rounds every coordinate of p to a multiple of q. Lattice coordinates
// computed by repeated addition can differ in the last bits; snapping makes
// shared edges coincide exactly.
func Snap(p orb.Polygon, q float64) orb.Polygon {
	out := p.Clone()
	if q <= 0 {
		return out
	}
	for _, r := range out {
		for i := range r {
			r[i] = orb.Point{snapValue(r[i][0], q), snapValue(r[i][1], q)}
		}
	}
	return out
}

func snapValue(v, q float64) float64 {
	return math.Round(v/q) * q
}

// vertices lists the points of g, without the closing point of rings.
func vertices(g orb.Geometry) []orb.Point {
	var pts []orb.Point
	addRing := func(r orb.Ring) {
		n := len(r)
		if n > 1 && r.Closed() {
			n--
		}
		pts = append(pts, r[:n]...)
	}
	switch v := g.(type) {
	case orb.Point:
		pts = append(pts, v)
	case orb.MultiPoint:
		pts = append(pts, v...)
	case orb.LineString:
		pts = append(pts, v...)
	case orb.MultiLineString:
		for _, ls := range v {
			pts = append(pts, ls...)
		}
	case orb.Ring:
		addRing(v)
	case orb.Polygon:
		for _, r := range v {
			addRing(r)
		}
	case orb.MultiPolygon:
		for _, p := range v {
			for _, r := range p {
				addRing(r)
			}
		}
	case orb.Bound:
		addRing(v.ToRing())
	case orb.Collection:
		for _, c := range v {
			pts = append(pts, vertices(c)...)
		}
	}
	return pts
}

func boundingBox(g orb.Geometry) orb.Bound {
	if g == nil {
		return orb.Bound{}
	}
	return g.Bound()
}

func polygonsOf(g orb.Geometry) ([]orb.Polygon, error) {
	switch v := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{v}, nil
	case orb.MultiPolygon:
		return []orb.Polygon(v), nil
	case orb.Bound:
		return []orb.Polygon{v.ToPolygon()}, nil
	case orb.Ring:
		return []orb.Polygon{{v}}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, g)
}
