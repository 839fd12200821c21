package importer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/yofu/dxf"
)

func TestImportDXF_ClosedShapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aoi.dxf")
	d := dxf.NewDrawing()
	if _, err := d.LwPolyline(true, []float64{0, 0}, []float64{100, 0}, []float64{100, 50}, []float64{0, 50}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Circle(500, 500, 0, 10); err != nil {
		t.Fatal(err)
	}
	// a square of loose lines, drawn out of order
	lines := [][4]float64{{200, 0, 210, 0}, {210, 10, 200, 10}, {210, 0, 210, 10}, {200, 10, 200, 0}}
	for _, l := range lines {
		if _, err := d.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	result := ImportDXF(path, "EPSG:25832")
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.AoI.Polygons) != 3 {
		t.Fatalf("expected 3 polygons, got %d", len(result.AoI.Polygons))
	}
	if result.AoI.CRS != "EPSG:25832" {
		t.Errorf("expected CRS to be passed through, got %q", result.AoI.CRS)
	}
	for i, p := range result.AoI.Polygons {
		if !p[0].Closed() {
			t.Errorf("polygon %d is not closed", i)
		}
	}
	wantBound(t, result.AoI.Polygons[0], 0, 0, 100, 50)
	if a := math.Abs(planar.Area(result.AoI.Polygons[2])); math.Abs(a-100) > 1e-6 {
		t.Errorf("expected chained square of area 100, got %f", a)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/aoi.dxf", "")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestChainSegments_DropsOpenChains(t *testing.T) {
	segs := []segment{
		{orb.Point{0, 0}, orb.Point{1, 0}},
		{orb.Point{1, 0}, orb.Point{1, 1}},
	}
	if rings := chainSegments(segs, 0.01); len(rings) != 0 {
		t.Errorf("expected no rings from an open chain, got %d", len(rings))
	}
}

func TestBulgeArcPoints_SemiCircle(t *testing.T) {
	pts := bulgeArcPoints(orb.Point{0, 0}, orb.Point{2, 0}, 1, 16)
	if len(pts) != 17 {
		t.Fatalf("expected 17 points, got %d", len(pts))
	}
	for _, p := range pts {
		if r := math.Hypot(p.X()-1, p.Y()); math.Abs(r-1) > 1e-9 {
			t.Errorf("point %v is not on the unit circle around (1,0)", p)
		}
	}
}
