package engine

import (
	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// Generator runs the full grid pipeline: metrics, lattice, coverage
// reduction and component numbering.
type Generator struct {
	Settings model.GridSettings
	Engine   geometry.Engine
	Feedback Feedback
}

// New creates a Generator. A nil feedback sink reports nowhere.
func New(settings model.GridSettings, eng geometry.Engine, fb Feedback) *Generator {
	return &Generator{Settings: settings, Engine: eng, Feedback: orNop(fb)}
}

// Generate builds the atlas grid covering extent. The area of interest is
// only consulted when sheets overlap and deletion is enabled; it is never
// modified. On error no grid is returned.
func (g *Generator) Generate(extent model.Extent, aoi *model.AreaOfInterest) (*model.Grid, error) {
	fb := orNop(g.Feedback)
	s := g.Settings

	fb.PushInfo("Calculating grid metrics")
	m, err := CalcMetrics(s.Scale, extent, s.SheetSize, s.Overlap)
	if err != nil {
		return nil, err
	}
	fb.PushInfo(describeMetrics(m))
	fb.SetProgress(10)
	if err := checkCancelled(fb); err != nil {
		return nil, err
	}

	grid := BuildGrid(m, s.CRS)
	fb.SetProgress(20)

	if !g.reduces(aoi) {
		fb.SetProgress(100)
		return grid, nil
	}
	if g.Engine == nil {
		return nil, invalid("geometry engine", "required to delete sheets")
	}

	fb.PushInfo("Identifying sheets to be deleted")
	if err := ReduceCoverage(grid, *aoi, g.Engine, fb); err != nil {
		return nil, err
	}
	fb.SetProgress(60)

	fb.PushInfo("Numbering sheets by area of interest component")
	if err := NumberComponents(grid, *aoi, g.Engine, fb); err != nil {
		return nil, err
	}
	fb.SetProgress(100)
	return grid, nil
}

// reduces reports whether the coverage and numbering stages apply.
func (g *Generator) reduces(aoi *model.AreaOfInterest) bool {
	return g.Settings.Overlap.Any() && g.Settings.DeleteNonIntersecting && aoi != nil
}
