package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangle = orb.Polygon{{{0, 0}, {10, 0}, {0, 10}, {0, 0}}}

func TestGEOSEngine_Dissolve(t *testing.T) {
	e := NewGEOSEngine()
	polys := []orb.Polygon{triangle, box(2, 2, 6, 6), box(20, 20, 30, 30)}

	parts, err := e.Dissolve(polys, true)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	var areas []float64
	for _, p := range parts {
		areas = append(areas, math.Abs(planar.Area(p)))
	}
	assert.ElementsMatch(t, []float64{100, 52}, roundAll(areas))

	merged, err := e.Dissolve(polys, false)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Len(t, merged[0], 2)
}

func TestGEOSEngine_SplitByLines(t *testing.T) {
	e := NewGEOSEngine()
	a, b := box(0, 0, 10, 10), box(5, 5, 15, 15)
	sources := []Source{{Name: "A", Polygon: a}, {Name: "B", Polygon: b}}

	pieces, err := e.SplitByLines(sources, Boundaries([]orb.Polygon{a, b}))
	require.NoError(t, err)
	require.Len(t, pieces, 4)

	area := map[string]float64{}
	for _, p := range pieces {
		area[p.Source] += math.Abs(planar.Area(p.Polygon))
	}
	assert.InDelta(t, 100, area["A"], 1e-9)
	assert.InDelta(t, 100, area["B"], 1e-9)
	assert.Equal(t, "A", pieces[0].Source, "pieces are grouped in source order")
}

func TestGEOSEngine_Predicates(t *testing.T) {
	e := NewGEOSEngine()

	ok, err := e.Contains(triangle, box(1, 1, 2, 2))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Intersects(triangle, box(6, 6, 8, 8))
	require.NoError(t, err)
	assert.False(t, ok, "box lies beyond the hypotenuse")

	ok, err = e.Within(box(1, 1, 2, 2), triangle)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Intersects(orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{0, 0}}, triangle)
	require.NoError(t, err)
	assert.True(t, ok, "touching at a corner intersects")
}

func TestGEOSEngine_SelectIntersecting(t *testing.T) {
	e := NewGEOSEngine()
	candidates := []orb.Geometry{box(1, 1, 2, 2), box(6, 6, 8, 8), box(-5, -5, 0.5, 0.5)}

	hits, err := e.SelectIntersecting(candidates, []orb.Geometry{triangle})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, hits)

	hits, err = e.SelectIntersecting(candidates, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestGEOSEngine_ReprojectIdentity(t *testing.T) {
	e := NewGEOSEngine()
	out, err := e.Reproject(triangle, "EPSG:3857", "epsg:900913")
	require.NoError(t, err)
	assert.Equal(t, triangle, out)

	out[0][0] = orb.Point{99, 99}
	assert.Equal(t, orb.Point{0, 0}, triangle[0][0], "input is not modified")
}

func roundAll(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = math.Round(v*1e6) / 1e6
	}
	return out
}
