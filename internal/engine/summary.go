package engine

import "github.com/piwi3910/AtlasGrid/internal/model"

// Summary describes the outcome of one generation run.
type Summary struct {
	Rows    int `json:"rows"`
	Cols    int `json:"cols"`
	Created int `json:"created"`
	Kept    int `json:"kept"`
	Deleted int `json:"deleted"`
	Blocks  int `json:"blocks"` // AoI clusters; 0 when component numbering did not run
}

// Summarize counts the sheets of a generated grid.
func Summarize(g *model.Grid) Summary {
	s := Summary{
		Rows:    g.Metrics.Rows,
		Cols:    g.Metrics.Cols,
		Created: g.Metrics.Rows * g.Metrics.Cols,
		Kept:    len(g.Sheets),
	}
	s.Deleted = s.Created - s.Kept
	blocks := make(map[int]bool)
	for _, sh := range g.Sheets {
		if sh.Block > 0 {
			blocks[sh.Block] = true
		}
	}
	s.Blocks = len(blocks)
	return s
}
