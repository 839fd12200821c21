package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCRS(t *testing.T) {
	assert.Equal(t, CRSWGS84, NormalizeCRS("wgs84"))
	assert.Equal(t, CRSWGS84, NormalizeCRS(" epsg:4326 "))
	assert.Equal(t, CRSMercator, NormalizeCRS("EPSG:900913"))
	assert.Equal(t, "EPSG:25832", NormalizeCRS("epsg:25832"))
	assert.Equal(t, CRSMercator, NormalizeCRS("urn:ogc:def:crs:EPSG::3857"))
	assert.Equal(t, "EPSG:25832", NormalizeCRS("urn:ogc:def:crs:EPSG:6.6:25832"))
	assert.True(t, SameCRS("EPSG:102100", "epsg:3857"))
	assert.False(t, SameCRS(CRSWGS84, CRSMercator))
}

func TestProjectionIdentity(t *testing.T) {
	proj, err := Projection("EPSG:25832", "epsg:25832")
	require.NoError(t, err)
	assert.Nil(t, proj)
}

func TestReprojectPolygonRoundTrip(t *testing.T) {
	p := box(10, 55, 10.5, 55.5)

	merc, err := ReprojectPolygon(p, CRSWGS84, CRSMercator)
	require.NoError(t, err)
	assert.Equal(t, orb.Point{10, 55}, p[0][0], "input is not mutated")
	assert.InDelta(t, 1113194.9, merc[0][0].X(), 1)

	back, err := ReprojectPolygon(merc, CRSMercator, CRSWGS84)
	require.NoError(t, err)
	for i, pt := range back[0] {
		assert.True(t, math.Abs(pt.X()-p[0][i].X()) < 1e-9 && math.Abs(pt.Y()-p[0][i].Y()) < 1e-9,
			"vertex %d drifted: %v vs %v", i, pt, p[0][i])
	}
}

func TestReprojectPolygonUnsupported(t *testing.T) {
	_, err := ReprojectPolygon(box(0, 0, 1, 1), CRSWGS84, "EPSG:32632")
	assert.ErrorIs(t, err, ErrUnsupportedCRS)
}
