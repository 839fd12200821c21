package export

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// GridFeatureCollection converts a grid into a feature collection with one
// polygon feature per sheet. The grid CRS is written as a legacy named
// "crs" member since RFC 7946 assumes WGS84.
func GridFeatureCollection(g *model.Grid) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range g.Sheets {
		f := geojson.NewFeature(s.Polygon())
		f.ID = s.Name
		f.Properties["cellname"] = s.Name
		f.Properties["cellnum"] = s.SequenceNumber
		f.Properties["compnum"] = s.ComponentNumber
		if s.Block > 0 {
			f.Properties["block"] = s.Block
		}
		fc.Append(f)
	}
	fc.ExtraMembers = geojson.Properties{
		"name": g.ID,
		"crs": map[string]interface{}{
			"type":       "name",
			"properties": map[string]string{"name": g.CRS},
		},
	}
	return fc
}

// ExportGeoJSON writes the grid as a GeoJSON feature collection.
func ExportGeoJSON(path string, g *model.Grid) error {
	if g == nil || len(g.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}
	data, err := GridFeatureCollection(g).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
