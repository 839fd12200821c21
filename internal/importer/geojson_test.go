package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const featureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "a"},
     "geometry": {"type": "Polygon", "coordinates": [[[10,50],[11,50],[11,51],[10,51],[10,50]]]}},
    {"type": "Feature", "properties": {"name": "b"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[0,0],[1,0],[1,1],[0,1],[0,0]]],
       [[[5,5],[6,5],[6,6],[5,6],[5,5]]]
     ]}},
    {"type": "Feature", "properties": {"name": "c"},
     "geometry": {"type": "Point", "coordinates": [3,3]}}
  ]
}`

func TestParseGeoJSON_FeatureCollection(t *testing.T) {
	result := ParseGeoJSON([]byte(featureCollection), "")

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.AoI.Polygons) != 3 {
		t.Fatalf("expected 3 polygons, got %d", len(result.AoI.Polygons))
	}
	if result.AoI.CRS != "EPSG:4326" {
		t.Errorf("expected default CRS EPSG:4326, got %q", result.AoI.CRS)
	}
	wantBound(t, result.AoI.Polygons[2], 5, 5, 6, 6)
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Feature 3") || !strings.Contains(result.Warnings[0], "Point") {
		t.Errorf("expected a warning for the point feature, got %v", result.Warnings)
	}
}

func TestParseGeoJSON_LegacyCRSMember(t *testing.T) {
	data := `{"type": "FeatureCollection",
  "crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::3857"}},
  "features": [{"type": "Feature", "properties": {},
    "geometry": {"type": "Polygon", "coordinates": [[[0,0],[100,0],[100,100],[0,100],[0,0]]]}}]}`

	result := ParseGeoJSON([]byte(data), "")
	if result.AoI.CRS != "EPSG:3857" {
		t.Errorf("expected EPSG:3857 from crs member, got %q", result.AoI.CRS)
	}

	result = ParseGeoJSON([]byte(data), "epsg:25832")
	if result.AoI.CRS != "EPSG:25832" {
		t.Errorf("expected explicit CRS to win, got %q", result.AoI.CRS)
	}
}

func TestParseGeoJSON_SingleFeatureAndGeometry(t *testing.T) {
	feature := `{"type": "Feature", "properties": null,
  "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}`
	if result := ParseGeoJSON([]byte(feature), ""); len(result.AoI.Polygons) != 1 {
		t.Errorf("expected 1 polygon from feature, got %d (errors: %v)", len(result.AoI.Polygons), result.Errors)
	}

	geometry := `{"type": "MultiPolygon", "coordinates": [[[[0,0],[1,0],[1,1],[0,1],[0,0]]]]}`
	if result := ParseGeoJSON([]byte(geometry), ""); len(result.AoI.Polygons) != 1 {
		t.Errorf("expected 1 polygon from geometry, got %d (errors: %v)", len(result.AoI.Polygons), result.Errors)
	}
}

func TestParseGeoJSON_Errors(t *testing.T) {
	tests := map[string]string{
		"not json":     `{"type":`,
		"missing type": `{"features": []}`,
		"no polygons":  `{"type": "FeatureCollection", "features": [{"type": "Feature", "properties": {}, "geometry": {"type": "LineString", "coordinates": [[0,0],[1,1]]}}]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if result := ParseGeoJSON([]byte(data), ""); len(result.Errors) == 0 {
				t.Error("expected an error")
			}
		})
	}
}

func TestImportGeoJSON_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aoi.geojson")
	if err := os.WriteFile(path, []byte(featureCollection), 0o644); err != nil {
		t.Fatal(err)
	}
	result := ImportFile(path, "")
	if len(result.AoI.Polygons) != 3 {
		t.Errorf("expected 3 polygons, got %d (errors: %v)", len(result.AoI.Polygons), result.Errors)
	}
}
