package geometry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Well-known coordinate reference systems.
const (
	CRSWGS84    = "EPSG:4326"
	CRSMercator = "EPSG:3857"
)

var ErrUnsupportedCRS = errors.New("geometry: unsupported coordinate reference system")

const epsgURN = "URN:OGC:DEF:CRS:EPSG:"

// NormalizeCRS maps common aliases and OGC URNs to their canonical EPSG
// code.
func NormalizeCRS(crs string) string {
	c := strings.ToUpper(strings.TrimSpace(crs))
	if strings.HasPrefix(c, epsgURN) {
		// urn:ogc:def:crs:EPSG:[version]:code
		rest := c[len(epsgURN):]
		c = "EPSG:" + rest[strings.LastIndex(rest, ":")+1:]
	}
	switch c {
	case "EPSG:4326", "WGS84", "CRS:84", "OGC:CRS84", "URN:OGC:DEF:CRS:OGC:1.3:CRS84":
		return CRSWGS84
	case "EPSG:3857", "EPSG:900913", "EPSG:102100", "EPSG:102113":
		return CRSMercator
	}
	return c
}

// SameCRS reports whether two CRS tags name the same reference system.
func SameCRS(a, b string) bool {
	return NormalizeCRS(a) == NormalizeCRS(b)
}

// Projection returns the point transform from one CRS to another. It
// returns nil when both name the same system.
func Projection(from, to string) (orb.Projection, error) {
	f, t := NormalizeCRS(from), NormalizeCRS(to)
	switch {
	case f == t:
		return nil, nil
	case f == CRSWGS84 && t == CRSMercator:
		return project.WGS84.ToMercator, nil
	case f == CRSMercator && t == CRSWGS84:
		return project.Mercator.ToWGS84, nil
	}
	return nil, fmt.Errorf("%w: %s -> %s", ErrUnsupportedCRS, from, to)
}

// ReprojectPolygon returns a copy of p transformed from one CRS to another.
func ReprojectPolygon(p orb.Polygon, from, to string) (orb.Polygon, error) {
	proj, err := Projection(from, to)
	if err != nil {
		return nil, err
	}
	cp := p.Clone()
	if proj == nil {
		return cp, nil
	}
	return project.Polygon(cp, proj), nil
}
