package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.GridSettings
}

// ComparisonResult holds the generated grid and its summary for a single
// scenario. Err is set when the scenario could not be generated.
type ComparisonResult struct {
	Scenario ComparisonScenario
	Grid     *model.Grid
	Summary  Summary
	Err      error
}

// CompareScenarios runs the pipeline for each scenario over the same
// extent and area of interest and returns the results in scenario order.
// A failing scenario is recorded in its result; cancellation stops the
// whole comparison.
func CompareScenarios(scenarios []ComparisonScenario, extent model.Extent, aoi *model.AreaOfInterest, eng geometry.Engine, fb Feedback) ([]ComparisonResult, error) {
	fb = orNop(fb)
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		fb.PushInfo(fmt.Sprintf("Scenario %q", scenario.Name))
		grid, err := New(scenario.Settings, eng, quietFeedback{fb}).Generate(extent, aoi)
		if errors.Is(err, ErrCancelled) {
			return nil, err
		}
		r := ComparisonResult{Scenario: scenario, Grid: grid, Err: err}
		if grid != nil {
			r.Summary = Summarize(grid)
		}
		results = append(results, r)
	}

	return results, nil
}

// BuildDefaultScenarios derives what-if alternatives from the current
// settings by varying the overlap on both axes.
func BuildDefaultScenarios(base model.GridSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	for _, pct := range []float64{0, 10, 20, 50} {
		if base.Overlap.Horizontal == pct && base.Overlap.Vertical == pct {
			continue
		}
		alt := base
		alt.Overlap = model.Overlap{Horizontal: pct, Vertical: pct}
		name := fmt.Sprintf("Overlap %g%%", pct)
		if pct == 0 {
			name = "No Overlap"
		}
		scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: alt})
	}

	return scenarios
}

// quietFeedback passes cancellation through but drops per-scenario
// progress, which would otherwise jump back and forth.
type quietFeedback struct {
	inner Feedback
}

func (quietFeedback) PushInfo(string)     {}
func (quietFeedback) SetProgress(float64) {}
func (q quietFeedback) IsCancelled() bool { return q.inner.IsCancelled() }
