package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/AtlasGrid/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// SheetCard holds the data printed on, and QR-encoded into, one sheet card.
type SheetCard struct {
	GridID    string  `json:"grid"`
	Name      string  `json:"cellname"`
	Sequence  int     `json:"cellnum"`
	Component int     `json:"compnum,omitempty"`
	Block     int     `json:"block,omitempty"`
	CRS       string  `json:"crs"`
	XMin      float64 `json:"xmin"`
	YMin      float64 `json:"ymin"`
	XMax      float64 `json:"xmax"`
	YMax      float64 `json:"ymax"`
}

// Card layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each card is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	cardPageWidth  = 215.9 // US Letter width in mm
	cardPageHeight = 279.4 // US Letter height in mm
	cardMarginTop  = 12.7  // mm
	cardMarginLeft = 4.8   // mm
	cardWidth      = 66.7  // mm per card
	cardHeight     = 25.4  // mm per card
	cardCols       = 3
	cardRows       = 10
	cardsPerPage   = cardCols * cardRows
	qrSize         = 20.0 // QR code size in mm
	cardPadding    = 2.0  // mm internal padding
)

// ExportSheetCards generates a PDF with one QR-coded card per sheet, laid
// out on a standard label sheet (Avery 5160, 3 x 10 on US Letter). The QR
// code carries the card data as JSON.
func ExportSheetCards(path string, g *model.Grid) error {
	cards := CollectSheetCards(g)
	if len(cards) == 0 {
		return fmt.Errorf("no sheets to generate cards for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, card := range cards {
		if i%cardsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % cardsPerPage
		col := posOnPage % cardCols
		row := posOnPage / cardCols

		x := cardMarginLeft + float64(col)*cardWidth
		y := cardMarginTop + float64(row)*cardHeight

		if err := renderCard(pdf, x, y, card); err != nil {
			return fmt.Errorf("failed to render card for %q: %w", card.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderCard draws a single card at the given position.
func renderCard(pdf *fpdf.Fpdf, x, y float64, card SheetCard) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, cardWidth, cardHeight, "D")

	qrData, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal card: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Sheet names are unique within a grid
	imgName := fmt.Sprintf("qr_%s_%s", card.GridID, card.Name)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + cardWidth - qrSize - cardPadding
	qrY := y + (cardHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + cardPadding
	textW := cardWidth - qrSize - 3*cardPadding

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+cardPadding)
	pdf.CellFormat(textW, 5, card.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+cardPadding+5.5)
	numbers := fmt.Sprintf("No. %d", card.Sequence)
	if card.Component > 0 {
		numbers = fmt.Sprintf("No. %d / Block %d-%d", card.Sequence, card.Block, card.Component)
	}
	pdf.CellFormat(textW, 3.5, numbers, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+cardPadding+9.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%.0f, %.0f", card.XMin, card.YMax), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+cardPadding+12.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%.0f, %.0f", card.XMax, card.YMin), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+cardPadding+15.5)
	pdf.CellFormat(textW, 3, card.CRS, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectSheetCards extracts the card data of every sheet in grid order.
func CollectSheetCards(g *model.Grid) []SheetCard {
	if g == nil {
		return nil
	}
	cards := make([]SheetCard, 0, len(g.Sheets))
	for _, s := range g.Sheets {
		cards = append(cards, SheetCard{
			GridID:    g.ID,
			Name:      s.Name,
			Sequence:  s.SequenceNumber,
			Component: s.ComponentNumber,
			Block:     s.Block,
			CRS:       g.CRS,
			XMin:      s.Bound.Min.X(),
			YMin:      s.Bound.Min.Y(),
			XMax:      s.Bound.Max.X(),
			YMax:      s.Bound.Max.Y(),
		})
	}
	return cards
}
