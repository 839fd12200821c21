package export

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/piwi3910/AtlasGrid/internal/engine"
	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

func buildTestSettings() model.GridSettings {
	return model.GridSettings{
		Scale:                 1000,
		SheetSize:             model.SheetSize{Width: 200, Height: 150, Unit: model.UnitMillimeters},
		Overlap:               model.Overlap{Horizontal: 20, Vertical: 20},
		CRS:                   geometry.CRSMercator,
		DeleteNonIntersecting: true,
	}
}

// buildTestGrid runs the full pipeline on a 1000 x 800 extent with two
// separate areas of interest.
func buildTestGrid(t *testing.T) (*model.Grid, model.GridSettings) {
	t.Helper()
	settings := buildTestSettings()
	aoi := &model.AreaOfInterest{
		CRS: geometry.CRSMercator,
		Polygons: []orb.Polygon{
			orb.Bound{Min: orb.Point{50, 650}, Max: orb.Point{250, 750}}.ToPolygon(),
			orb.Bound{Min: orb.Point{700, 100}, Max: orb.Point{900, 200}}.ToPolygon(),
		},
	}
	g, err := engine.New(settings, geometry.NewRectEngine(), nil).Generate(model.NewExtent(0, 0, 1000, 800), aoi)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(g.Sheets) == 0 {
		t.Fatal("test grid has no sheets")
	}
	return g, settings
}

// buildPlainGrid builds an unreduced lattice without component numbers.
func buildPlainGrid(t *testing.T) (*model.Grid, model.GridSettings) {
	t.Helper()
	settings := buildTestSettings()
	settings.Overlap = model.Overlap{}
	m, err := engine.CalcMetrics(settings.Scale, model.NewExtent(0, 0, 1000, 800), settings.SheetSize, settings.Overlap)
	if err != nil {
		t.Fatalf("CalcMetrics returned error: %v", err)
	}
	return engine.BuildGrid(m, settings.CRS), settings
}
