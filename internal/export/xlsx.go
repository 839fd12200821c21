package export

import (
	"fmt"

	"github.com/piwi3910/AtlasGrid/internal/engine"
	"github.com/piwi3910/AtlasGrid/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	sheetsTab  = "Sheets"
	metricsTab = "Metrics"
)

var sheetsHeader = []interface{}{
	"cellname", "row", "col", "cellnum", "compnum", "block", "xmin", "ymin", "xmax", "ymax",
}

// ExportXLSX writes a workbook with a "Sheets" index, one row per sheet,
// and a "Metrics" tab describing the lattice and run settings.
func ExportXLSX(path string, g *model.Grid, settings model.GridSettings) error {
	if g == nil || len(g.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetsTab); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheetIndex(f, g); err != nil {
		return err
	}

	if _, err := f.NewSheet(metricsTab); err != nil {
		return fmt.Errorf("create metrics sheet: %w", err)
	}
	if err := writeMetrics(f, g, settings); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheetIndex(f *excelize.File, g *model.Grid) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetSheetRow(sheetsTab, "A1", &sheetsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(sheetsTab, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, s := range g.Sheets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			s.Name, s.Row + 1, s.Col + 1, s.SequenceNumber, s.ComponentNumber, s.Block,
			s.Bound.Min.X(), s.Bound.Min.Y(), s.Bound.Max.X(), s.Bound.Max.Y(),
		}
		if err := f.SetSheetRow(sheetsTab, cell, &row); err != nil {
			return fmt.Errorf("write sheet %s: %w", s.Name, err)
		}
	}
	if err := f.SetColWidth(sheetsTab, "G", "J", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func writeMetrics(f *excelize.File, g *model.Grid, settings model.GridSettings) error {
	m := g.Metrics
	sum := engine.Summarize(g)
	rows := [][]interface{}{
		{"grid", g.ID},
		{"crs", g.CRS},
		{"scale", settings.Scale},
		{"sheet width", settings.SheetSize.Width},
		{"sheet height", settings.SheetSize.Height},
		{"sheet unit", string(settings.SheetSize.Unit)},
		{"horizontal overlap %", settings.Overlap.Horizontal},
		{"vertical overlap %", settings.Overlap.Vertical},
		{"gross width", m.GrossWidth},
		{"gross height", m.GrossHeight},
		{"net width", m.NetWidth},
		{"net height", m.NetHeight},
		{"rows", m.Rows},
		{"cols", m.Cols},
		{"extent", m.Extent.String()},
		{"working extent", m.WorkingExtent.String()},
		{"created", sum.Created},
		{"kept", sum.Kept},
		{"deleted", sum.Deleted},
		{"blocks", sum.Blocks},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(metricsTab, cell, &row); err != nil {
			return fmt.Errorf("write metric %v: %w", row[0], err)
		}
	}
	if err := f.SetColWidth(metricsTab, "A", "B", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}
