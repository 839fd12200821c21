package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/piwi3910/AtlasGrid/internal/geometry"
)

// ImportGeoJSON reads polygons from a GeoJSON file. See ParseGeoJSON.
func ImportGeoJSON(path, crs string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	return ParseGeoJSON(data, crs)
}

// ParseGeoJSON accepts a FeatureCollection, a single Feature or a bare
// geometry. Polygon and MultiPolygon members become AoI polygons; other
// geometry types are skipped with a warning. The CRS is, in order: the crs
// argument, a legacy "crs" member of the document, EPSG:4326.
func ParseGeoJSON(data []byte, crs string) ImportResult {
	result := ImportResult{}

	var head struct {
		Type string          `json:"type"`
		CRS  json.RawMessage `json:"crs"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read GeoJSON: %v", err))
		return result
	}

	switch named := legacyCRSName(head.CRS); {
	case crs != "":
		result.AoI.CRS = geometry.NormalizeCRS(crs)
	case named != "":
		result.AoI.CRS = geometry.NormalizeCRS(named)
	default:
		result.AoI.CRS = geometry.CRSWGS84
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot read feature collection: %v", err))
			return result
		}
		for i, f := range fc.Features {
			result.collect(f.Geometry, fmt.Sprintf("Feature %d", i+1))
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot read feature: %v", err))
			return result
		}
		result.collect(f.Geometry, "Feature 1")
	case "":
		result.Errors = append(result.Errors, "Missing GeoJSON type")
		return result
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot read geometry: %v", err))
			return result
		}
		result.collect(g.Geometry(), "Geometry")
	}

	if result.AoI.IsEmpty() {
		result.Errors = append(result.Errors, "No polygons found in GeoJSON")
	}
	return result
}

// collect appends the polygons of g, descending into collections.
func (r *ImportResult) collect(g orb.Geometry, label string) {
	switch v := g.(type) {
	case nil:
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: Skipped feature without geometry", label))
	case orb.Polygon:
		r.collectPolygon(v, label)
	case orb.MultiPolygon:
		for _, p := range v {
			r.collectPolygon(p, label)
		}
	case orb.Collection:
		for _, c := range v {
			r.collect(c, label)
		}
	default:
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: Skipped %s geometry", label, g.GeoJSONType()))
	}
}

func (r *ImportResult) collectPolygon(p orb.Polygon, label string) {
	if len(p) == 0 || len(p[0]) < 4 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: Skipped polygon with fewer than 4 ring points", label))
		return
	}
	r.addPolygon(p)
}

// legacyCRSName reads the name of a GeoJSON 2008 "crs" member, as written
// by GDAL and QGIS. Anything else yields "".
func legacyCRSName(raw json.RawMessage) string {
	var member struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &member) != nil {
		return ""
	}
	return member.Properties.Name
}
