package engine

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// testExtent is the 1000 x 800 extent used throughout the package tests.
var testExtent = model.NewExtent(0, 0, 1000, 800)

func testSettings(h, v float64) model.GridSettings {
	return model.GridSettings{
		Scale:                 1000,
		SheetSize:             model.SheetSize{Width: 200, Height: 150, Unit: model.UnitMillimeters},
		Overlap:               model.Overlap{Horizontal: h, Vertical: v},
		CRS:                   geometry.CRSMercator,
		DeleteNonIntersecting: true,
	}
}

func testGrid(h, v float64) *model.Grid {
	s := testSettings(h, v)
	m, err := CalcMetrics(s.Scale, testExtent, s.SheetSize, s.Overlap)
	if err != nil {
		panic(err)
	}
	return BuildGrid(m, s.CRS)
}

func box(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}.ToPolygon()
}

func aoiOf(polys ...orb.Polygon) model.AreaOfInterest {
	return model.AreaOfInterest{CRS: geometry.CRSMercator, Polygons: polys}
}

func numbersByName(g *model.Grid) map[string][2]int {
	out := make(map[string][2]int, len(g.Sheets))
	for _, s := range g.Sheets {
		out[s.Name] = [2]int{s.SequenceNumber, s.ComponentNumber}
	}
	return out
}

// recordingFeedback collects messages and cancels once IsCancelled has
// been asked cancelAfter times. A zero cancelAfter never cancels.
type recordingFeedback struct {
	messages    []string
	progress    []float64
	polls       int
	cancelAfter int
}

func (f *recordingFeedback) PushInfo(msg string)         { f.messages = append(f.messages, msg) }
func (f *recordingFeedback) SetProgress(percent float64) { f.progress = append(f.progress, percent) }

func (f *recordingFeedback) IsCancelled() bool {
	f.polls++
	return f.cancelAfter > 0 && f.polls >= f.cancelAfter
}

// failingEngine wraps the rectangle engine and breaks one operation.
type failingEngine struct {
	*geometry.RectEngine
	fail string
}

var errBoom = errors.New("boom")

func (f failingEngine) SplitByLines(sources []geometry.Source, lines []orb.LineString) ([]geometry.Piece, error) {
	switch f.fail {
	case "split":
		return nil, errBoom
	case "split-empty":
		return nil, nil
	}
	return f.RectEngine.SplitByLines(sources, lines)
}

func (f failingEngine) Dissolve(polys []orb.Polygon, keepDisjoint bool) ([]orb.MultiPolygon, error) {
	switch f.fail {
	case "dissolve":
		return nil, errBoom
	case "dissolve-empty":
		return nil, nil
	}
	return f.RectEngine.Dissolve(polys, keepDisjoint)
}

func (f failingEngine) SelectIntersecting(candidates, selectors []orb.Geometry) ([]int, error) {
	if f.fail == "select" {
		return nil, errBoom
	}
	return f.RectEngine.SelectIntersecting(candidates, selectors)
}
