package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/twpayne/go-geos"
)

// GEOSEngine implements Engine on top of the GEOS library. Geometries cross
// the boundary as WKB; GEOS temporaries are destroyed before each method
// returns.
type GEOSEngine struct{}

func NewGEOSEngine() *GEOSEngine {
	return &GEOSEngine{}
}

// recoverGEOS turns a panic raised by go-geos into an error.
func recoverGEOS(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("geos %s: %v", op, r)
	}
}

func toGEOS(g orb.Geometry) (*geos.Geom, error) {
	if b, ok := g.(orb.Bound); ok {
		g = b.ToPolygon()
	}
	data, err := wkb.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode wkb: %w", err)
	}
	return geos.NewGeomFromWKB(data)
}

func fromGEOS(g *geos.Geom) (orb.Geometry, error) {
	out, err := wkb.Unmarshal(g.ToWKB())
	if err != nil {
		return nil, fmt.Errorf("decode wkb: %w", err)
	}
	return out, nil
}

func toGEOSAll(gs []orb.Geometry) ([]*geos.Geom, error) {
	out := make([]*geos.Geom, len(gs))
	for i, g := range gs {
		gg, err := toGEOS(g)
		if err != nil {
			return nil, err
		}
		out[i] = gg
	}
	return out, nil
}

// collectPolygons flattens the polygons of a decoded GEOS result.
func collectPolygons(g orb.Geometry) []orb.Polygon {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) > 0 {
			return []orb.Polygon{v}
		}
	case orb.MultiPolygon:
		out := make([]orb.Polygon, 0, len(v))
		for _, p := range v {
			if len(p) > 0 {
				out = append(out, p)
			}
		}
		return out
	case orb.Collection:
		var out []orb.Polygon
		for _, c := range v {
			out = append(out, collectPolygons(c)...)
		}
		return out
	}
	return nil
}

func (e *GEOSEngine) Dissolve(polys []orb.Polygon, keepDisjoint bool) (_ []orb.MultiPolygon, err error) {
	defer recoverGEOS("dissolve", &err)
	if len(polys) == 0 {
		return nil, nil
	}
	geoms := make([]*geos.Geom, len(polys))
	for i, p := range polys {
		if geoms[i], err = toGEOS(p); err != nil {
			return nil, fmt.Errorf("dissolve: polygon %d: %w", i, err)
		}
	}
	collection := geos.NewCollection(geos.TypeIDMultiPolygon, geoms)
	defer collection.Destroy()
	union := collection.UnaryUnion()
	defer union.Destroy()
	if union.IsEmpty() {
		return nil, fmt.Errorf("dissolve: %w", ErrEmptyResult)
	}
	decoded, err := fromGEOS(union)
	if err != nil {
		return nil, fmt.Errorf("dissolve: %w", err)
	}
	parts := collectPolygons(decoded)
	if !keepDisjoint {
		return []orb.MultiPolygon{orb.MultiPolygon(parts)}, nil
	}
	out := make([]orb.MultiPolygon, len(parts))
	for i, p := range parts {
		out[i] = orb.MultiPolygon{p}
	}
	return out, nil
}

// SplitByLines nodes all lines, polygonizes the resulting arrangement and
// assigns every face to each source that contains it.
func (e *GEOSEngine) SplitByLines(sources []Source, lines []orb.LineString) (_ []Piece, err error) {
	defer recoverGEOS("split", &err)
	if len(sources) == 0 {
		return nil, nil
	}
	lineGeoms := make([]*geos.Geom, len(lines))
	for i, ls := range lines {
		if lineGeoms[i], err = toGEOS(ls); err != nil {
			return nil, fmt.Errorf("split: line %d: %w", i, err)
		}
	}
	linework := geos.NewCollection(geos.TypeIDMultiLineString, lineGeoms)
	defer linework.Destroy()
	noded := linework.UnaryUnion()
	defer noded.Destroy()
	faces := geos.DefaultContext.Polygonize([]*geos.Geom{noded})
	defer faces.Destroy()

	decoded, err := fromGEOS(faces)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	facePolys := collectPolygons(decoded)
	faceGeoms := make([]*geos.Geom, len(facePolys))
	for i, f := range facePolys {
		if faceGeoms[i], err = toGEOS(f); err != nil {
			return nil, fmt.Errorf("split: face %d: %w", i, err)
		}
	}
	defer func() {
		for _, f := range faceGeoms {
			f.Destroy()
		}
	}()

	var pieces []Piece
	for _, src := range sources {
		sg, err := toGEOS(src.Polygon)
		if err != nil {
			return nil, fmt.Errorf("split: source %s: %w", src.Name, err)
		}
		prepared := sg.Prepare()
		n := 0
		for i, f := range faceGeoms {
			if prepared.Contains(f) {
				pieces = append(pieces, Piece{Source: src.Name, Polygon: facePolys[i]})
				n++
			}
		}
		prepared.Destroy()
		sg.Destroy()
		if n == 0 {
			return nil, fmt.Errorf("split: source %s: %w", src.Name, ErrEmptyResult)
		}
	}
	return pieces, nil
}

func (e *GEOSEngine) predicate(op string, a, b orb.Geometry, fn func(x, y *geos.Geom) bool) (_ bool, err error) {
	defer recoverGEOS(op, &err)
	ga, err := toGEOS(a)
	if err != nil {
		return false, err
	}
	defer ga.Destroy()
	gb, err := toGEOS(b)
	if err != nil {
		return false, err
	}
	defer gb.Destroy()
	return fn(ga, gb), nil
}

func (e *GEOSEngine) Contains(a, b orb.Geometry) (bool, error) {
	return e.predicate("contains", a, b, func(x, y *geos.Geom) bool { return x.Contains(y) })
}

func (e *GEOSEngine) Intersects(a, b orb.Geometry) (bool, error) {
	return e.predicate("intersects", a, b, func(x, y *geos.Geom) bool { return x.Intersects(y) })
}

func (e *GEOSEngine) Within(a, b orb.Geometry) (bool, error) {
	return e.predicate("within", a, b, func(x, y *geos.Geom) bool { return x.Within(y) })
}

// SelectIntersecting prepares every selector once and tests all candidates
// against it.
func (e *GEOSEngine) SelectIntersecting(candidates, selectors []orb.Geometry) (_ []int, err error) {
	defer recoverGEOS("select", &err)
	if len(candidates) == 0 || len(selectors) == 0 {
		return nil, nil
	}
	sel, err := toGEOSAll(selectors)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	prepared := make([]*geos.PrepGeom, len(sel))
	for i, s := range sel {
		prepared[i] = s.Prepare()
	}
	defer func() {
		for i, s := range sel {
			prepared[i].Destroy()
			s.Destroy()
		}
	}()

	var hits []int
	for i, c := range candidates {
		cg, err := toGEOS(c)
		if err != nil {
			return nil, fmt.Errorf("select: candidate %d: %w", i, err)
		}
		for _, p := range prepared {
			if p.Intersects(cg) {
				hits = append(hits, i)
				break
			}
		}
		cg.Destroy()
	}
	return hits, nil
}

func (e *GEOSEngine) BoundingBox(g orb.Geometry) orb.Bound {
	return boundingBox(g)
}

func (e *GEOSEngine) Vertices(g orb.Geometry) []orb.Point {
	return vertices(g)
}

// Reproject transforms every vertex; edges are not densified.
func (e *GEOSEngine) Reproject(p orb.Polygon, from, to string) (orb.Polygon, error) {
	return ReprojectPolygon(p, from, to)
}
