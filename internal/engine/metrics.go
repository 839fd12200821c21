package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/AtlasGrid/internal/model"
)

const (
	// MaxOverlapPercent is the largest accepted overlap on either axis.
	MaxOverlapPercent = 50.0

	// MaxSheets caps the lattice size.
	MaxSheets = 1_000_000
)

// CalcMetrics derives the ground dimensions of the lattice covering extent.
// scale is ground units per page unit; the page size is converted to meters
// before scaling.
func CalcMetrics(scale float64, extent model.Extent, size model.SheetSize, overlap model.Overlap) (model.GridMetrics, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return model.GridMetrics{}, invalid("scale", "must be positive, got %g", scale)
	}
	if !(size.Width > 0) || !(size.Height > 0) {
		return model.GridMetrics{}, invalid("sheet size", "dimensions must be positive, got %gx%g", size.Width, size.Height)
	}
	if !extent.IsValid() {
		return model.GridMetrics{}, invalid("extent", "degenerate extent %s", extent)
	}
	if err := checkOverlap("horizontal overlap", overlap.Horizontal); err != nil {
		return model.GridMetrics{}, err
	}
	if err := checkOverlap("vertical overlap", overlap.Vertical); err != nil {
		return model.GridMetrics{}, err
	}

	w, h, err := size.Meters()
	if err != nil {
		return model.GridMetrics{}, invalid("sheet size unit", "%v", err)
	}

	m := model.GridMetrics{
		GrossWidth:  w * scale,
		GrossHeight: h * scale,
		Extent:      extent,
	}
	m.NetWidth = m.GrossWidth * (100 - overlap.Horizontal) / 100
	m.NetHeight = m.GrossHeight * (100 - overlap.Vertical) / 100

	m.Cols = latticeCount(extent.Width(), m.GrossWidth, m.NetWidth)
	m.Rows = latticeCount(extent.Height(), m.GrossHeight, m.NetHeight)
	if m.Cols > MaxSheets || m.Rows > MaxSheets || m.Rows*m.Cols > MaxSheets {
		return model.GridMetrics{}, invalid("scale", "lattice of %d rows and %d columns exceeds %d sheets", m.Rows, m.Cols, MaxSheets)
	}

	// Center the lattice on the extent.
	spanW := m.GrossWidth + float64(m.Cols-1)*m.NetWidth
	spanH := m.GrossHeight + float64(m.Rows-1)*m.NetHeight
	m.WorkingExtent = extent.Translate(-(spanW-extent.Width())/2, (spanH-extent.Height())/2)
	return m, nil
}

func checkOverlap(param string, pct float64) error {
	if !(pct >= 0 && pct <= MaxOverlapPercent) {
		return invalid(param, "must be within [0,%g] percent, got %g", MaxOverlapPercent, pct)
	}
	return nil
}

// latticeCount is floor((span-gross)/net)+2, at least 1.
func latticeCount(span, gross, net float64) int {
	q := math.Floor((span - gross) / net)
	if math.IsNaN(q) {
		return 1
	}
	if q > MaxSheets {
		return MaxSheets + 1
	}
	n := int(q) + 2
	if n < 1 {
		n = 1
	}
	return n
}

// describeMetrics is the one-line summary pushed to the progress sink.
func describeMetrics(m model.GridMetrics) string {
	return fmt.Sprintf("Grid of %d rows x %d columns, sheet %.2f x %.2f, pitch %.2f x %.2f",
		m.Rows, m.Cols, m.GrossWidth, m.GrossHeight, m.NetWidth, m.NetHeight)
}
