// Package export writes generated atlas grids to GeoJSON, PDF, XLSX and DXF.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/AtlasGrid/internal/engine"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// blockColor represents an RGB fill for a component block.
type blockColor struct {
	R, G, B int
}

// blockColors cycle over AoI clusters; sheets without a block use unnumbered.
var blockColors = []blockColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

var unnumbered = blockColor{R: 220, G: 220, B: 220}

func colorFor(block int) blockColor {
	if block <= 0 {
		return unnumbered
	}
	return blockColors[(block-1)%len(blockColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	indexRowH    = 6.0
)

// ExportPDF writes an overview page showing the whole lattice, sheets
// coloured by component block, followed by an index of all sheets.
func ExportPDF(path string, g *model.Grid, settings model.GridSettings) error {
	if g == nil || len(g.Sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderOverviewPage(pdf, g, settings)

	renderIndexPages(pdf, g, settings)

	return pdf.OutputFileAndClose(path)
}

// pageTransform maps ground coordinates into the drawing area. Ground y
// grows upward, page y downward.
type pageTransform struct {
	scale            float64
	offsetX, offsetY float64
	minX, maxY       float64
}

func (t pageTransform) x(gx float64) float64 { return t.offsetX + (gx-t.minX)*t.scale }
func (t pageTransform) y(gy float64) float64 { return t.offsetY + (t.maxY-gy)*t.scale }

// fitTransform scales the bound to fit a w by h area at (left, top),
// centered horizontally.
func fitTransform(minX, minY, maxX, maxY, left, top, w, h float64) pageTransform {
	gw, gh := maxX-minX, maxY-minY
	scale := math.Min(w/gw, h/gh)
	return pageTransform{
		scale:   scale,
		offsetX: left + (w-gw*scale)/2,
		offsetY: top,
		minX:    minX,
		maxY:    maxY,
	}
}

func renderOverviewPage(pdf *fpdf.Fpdf, g *model.Grid, settings model.GridSettings) {
	sum := engine.Summarize(g)

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Atlas grid %s (1:%.0f, %s)", g.ID, settings.Scale, g.CRS)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Lattice: %d x %d | Kept: %d | Deleted: %d | Blocks: %d",
		sum.Rows, sum.Cols, sum.Kept, sum.Deleted, sum.Blocks)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	lattice := g.Metrics.LatticeExtent()
	b := g.Bound().Union(lattice.Bound())
	tr := fitTransform(b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y(), marginLeft, drawAreaTop, drawWidth, drawHeight)

	// Requested extent
	ext := g.Metrics.Extent
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.4)
	pdf.SetDashPattern([]float64{2, 1}, 0)
	pdf.Rect(tr.x(ext.XMin), tr.y(ext.YMax), ext.Width()*tr.scale, ext.Height()*tr.scale, "D")
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetAlpha(0.6, "Normal")
	for _, s := range g.Sheets {
		col := colorFor(s.Block)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		sx, sy := tr.x(s.Bound.Min.X()), tr.y(s.Bound.Max.Y())
		sw := (s.Bound.Max.X() - s.Bound.Min.X()) * tr.scale
		sh := (s.Bound.Max.Y() - s.Bound.Min.Y()) * tr.scale
		pdf.Rect(sx, sy, sw, sh, "FD")
	}
	pdf.SetAlpha(1, "Normal")

	// Names on top of all fills so overlapping sheets do not hide them
	for _, s := range g.Sheets {
		sw := (s.Bound.Max.X() - s.Bound.Min.X()) * tr.scale
		sh := (s.Bound.Max.Y() - s.Bound.Min.Y()) * tr.scale
		if sw < 8 || sh < 5 {
			continue
		}
		pdf.SetFont("Helvetica", "", labelFontSize(sw, sh))
		pdf.SetTextColor(0, 0, 0)
		label := s.Name
		if s.ComponentNumber > 0 {
			label = fmt.Sprintf("%s (%d)", s.Name, s.ComponentNumber)
		}
		lw := pdf.GetStringWidth(label)
		if lw > sw-1 {
			label = s.Name
			lw = pdf.GetStringWidth(label)
		}
		cx, cy := tr.x(s.Bound.Center().X()), tr.y(s.Bound.Center().Y())
		pdf.SetXY(cx-lw/2, cy-2)
		pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
	}

	drawBlockLegend(pdf, sum.Blocks, pageHeight-marginBottom-statsHeight+4)
}

// drawBlockLegend renders one colour swatch per component block.
func drawBlockLegend(pdf *fpdf.Fpdf, blocks int, startY float64) {
	if blocks == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Blocks:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	maxX := pageWidth - marginRight
	for b := 1; b <= blocks; b++ {
		label := fmt.Sprintf("%d", b)
		labelW := pdf.GetStringWidth(label) + 6
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		col := colorFor(b)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

var indexColumns = []struct {
	header string
	width  float64
}{
	{"Sheet", 22}, {"Row", 14}, {"Col", 14}, {"Seq", 16}, {"Comp", 16}, {"Block", 16},
	{"X min", 42}, {"Y min", 42}, {"X max", 42}, {"Y max", 42},
}

// renderIndexPages draws the sheet table, adding pages as needed. The
// first page starts with the run settings.
func renderIndexPages(pdf *fpdf.Fpdf, g *model.Grid, settings model.GridSettings) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Sheet Index", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 16
	m := g.Metrics
	settingsItems := []struct {
		label string
		value string
	}{
		{"Scale", fmt.Sprintf("1:%.0f", settings.Scale)},
		{"Sheet size", fmt.Sprintf("%g x %g %s", settings.SheetSize.Width, settings.SheetSize.Height, settings.SheetSize.Unit)},
		{"Ground size", fmt.Sprintf("%.2f x %.2f (net %.2f x %.2f)", m.GrossWidth, m.GrossHeight, m.NetWidth, m.NetHeight)},
		{"Overlap", fmt.Sprintf("%g%% horizontal, %g%% vertical", settings.Overlap.Horizontal, settings.Overlap.Vertical)},
		{"Extent", m.Extent.String()},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(30, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(150, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}
	y += 4

	y = drawIndexHeader(pdf, y)
	pdf.SetFont("Helvetica", "", 8)
	for i, s := range g.Sheets {
		if y+indexRowH > pageHeight-marginBottom {
			pdf.AddPage()
			y = drawIndexHeader(pdf, marginTop)
			pdf.SetFont("Helvetica", "", 8)
		}
		row := []string{
			s.Name,
			fmt.Sprintf("%d", s.Row+1),
			fmt.Sprintf("%d", s.Col+1),
			fmt.Sprintf("%d", s.SequenceNumber),
			numberOrDash(s.ComponentNumber),
			numberOrDash(s.Block),
			fmt.Sprintf("%.2f", s.Bound.Min.X()),
			fmt.Sprintf("%.2f", s.Bound.Min.Y()),
			fmt.Sprintf("%.2f", s.Bound.Max.X()),
			fmt.Sprintf("%.2f", s.Bound.Max.Y()),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos := marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(indexColumns[j].width, indexRowH, cell, "1", 0, "C", true, 0, "")
			xPos += indexColumns[j].width
		}
		y += indexRowH
	}
}

func drawIndexHeader(pdf *fpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for _, c := range indexColumns {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(c.width, indexRowH, c.header, "1", 0, "C", true, 0, "")
		xPos += c.width
	}
	return y + indexRowH
}

func numberOrDash(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
