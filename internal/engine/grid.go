package engine

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// ColumnName returns the spreadsheet-style letters of a 0-based column:
// 0 is "A", 25 is "Z", 26 is "AA" and 702 is "AAA".
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// SheetName joins the column letters with the 1-based row number.
func SheetName(row, col int) string {
	return ColumnName(col) + strconv.Itoa(row+1)
}

// BuildGrid lays out the rows x cols lattice from the top-left corner of
// the working extent in row-major order. Sheets are numbered by creation
// order; their component number starts equal to the sequence number.
func BuildGrid(m model.GridMetrics, crs string) *model.Grid {
	g := model.NewGrid(crs, m)
	x0 := m.WorkingExtent.XMin
	y0 := m.WorkingExtent.YMax - m.GrossHeight
	seq := 0
	for r := 0; r < m.Rows; r++ {
		y := y0 - float64(r)*m.NetHeight
		for c := 0; c < m.Cols; c++ {
			x := x0 + float64(c)*m.NetWidth
			seq++
			g.Sheets = append(g.Sheets, model.Sheet{
				Name:            SheetName(r, c),
				Row:             r,
				Col:             c,
				SequenceNumber:  seq,
				ComponentNumber: seq,
				Bound: orb.Bound{
					Min: orb.Point{x, y},
					Max: orb.Point{x + m.GrossWidth, y + m.GrossHeight},
				},
			})
		}
	}
	return g
}
