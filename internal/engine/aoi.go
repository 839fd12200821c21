package engine

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// aoiPolygons returns copies of the AoI polygons in the grid CRS. An
// empty CRS on either side is taken to mean "same as the other".
func aoiPolygons(aoi model.AreaOfInterest, crs string, eng geometry.Engine) ([]orb.Polygon, error) {
	out := make([]orb.Polygon, 0, len(aoi.Polygons))
	same := aoi.CRS == "" || crs == "" || geometry.SameCRS(aoi.CRS, crs)
	for i, p := range aoi.Polygons {
		if len(p) == 0 {
			continue
		}
		if same {
			out = append(out, p.Clone())
			continue
		}
		rp, err := eng.Reproject(p, aoi.CRS, crs)
		if err != nil {
			return nil, geomErr(fmt.Sprintf("reproject area of interest polygon %d", i), err)
		}
		out = append(out, rp)
	}
	return out, nil
}

func asGeometries[T orb.Geometry](gs []T) []orb.Geometry {
	out := make([]orb.Geometry, len(gs))
	for i, g := range gs {
		out[i] = g
	}
	return out
}
