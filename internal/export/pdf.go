package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Page geometry in points on A4 (595 x 842).
const (
	pdfTitleSize = 18
	pdfLineSize  = 16
	pdfTitleY    = 42
	pdfFirstY    = 92
	pdfLineX     = 75
	pdfLinePitch = 25
	pdfBottom    = 800
)

// Embedded TrueType family; ingredient names are not limited to Latin-1.
const pdfFont = "Go"

// RenderPDF lays out one numbered line per item and starts a new page
// when the next line would pass the bottom margin.
func RenderPDF(title string, items []model.ShoppingListItem) ([]byte, error) {
	var buf bytes.Buffer
	if err := buildPDF(title, items).Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func buildPDF(title string, items []model.ShoppingListItem) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfLineX, pdfTitleY, pdfLineX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)

	pageWidth, _ := pdf.GetPageSize()
	y := float64(pdfFirstY)

	newPage := func() {
		pdf.AddPage()
		pdf.SetFont(pdfFont, "B", pdfTitleSize)
		pdf.SetXY(0, pdfTitleY)
		pdf.CellFormat(pageWidth, pdfTitleSize, title, "", 0, "C", false, 0, "")
		pdf.SetFont(pdfFont, "", pdfLineSize)
		y = pdfFirstY
	}
	newPage()

	for i, item := range items {
		if y > pdfBottom {
			newPage()
		}
		pdf.Text(pdfLineX, y, Line(i+1, item))
		y += pdfLinePitch
	}
	return pdf
}

// linesPerPage is how many items fit between the title and the bottom margin.
func linesPerPage() int {
	return (pdfBottom-pdfFirstY)/pdfLinePitch + 1
}
