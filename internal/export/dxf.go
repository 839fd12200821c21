package export

import (
	"fmt"

	"github.com/piwi3910/AtlasGrid/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// DXF layer names.
const (
	LayerGrid   = "GRID"
	LayerLabels = "LABELS"
)

// ExportDXF writes every sheet as a closed LWPOLYLINE on layer GRID and its
// name as TEXT on layer LABELS, in grid coordinates.
func ExportDXF(path string, g *model.Grid) error {
	if g == nil || len(g.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerGrid, color.Blue, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("add layer %s: %w", LayerGrid, err)
	}
	if _, err := d.AddLayer(LayerLabels, color.Red, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("add layer %s: %w", LayerLabels, err)
	}

	if err := d.ChangeLayer(LayerGrid); err != nil {
		return err
	}
	for _, s := range g.Sheets {
		b := s.Bound
		if _, err := d.LwPolyline(true,
			[]float64{b.Min.X(), b.Min.Y()},
			[]float64{b.Max.X(), b.Min.Y()},
			[]float64{b.Max.X(), b.Max.Y()},
			[]float64{b.Min.X(), b.Max.Y()},
		); err != nil {
			return fmt.Errorf("sheet %s: %w", s.Name, err)
		}
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return err
	}
	for _, s := range g.Sheets {
		b := s.Bound
		height := (b.Max.Y() - b.Min.Y()) / 10
		if _, err := d.Text(s.Name, b.Min.X()+height/2, b.Max.Y()-1.5*height, 0, height); err != nil {
			return fmt.Errorf("label %s: %w", s.Name, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save dxf: %w", err)
	}
	return nil
}
