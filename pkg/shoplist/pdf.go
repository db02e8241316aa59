package shoplist

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"resep/internal/repositories"
)

// PDFRenderer renders an aggregated shopping list as a one-page PDF: a
// title followed by a numbered line per ingredient.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render produces the PDF document bytes for the given rows.
func (r *PDFRenderer) Render(rows []repositories.ShoppingListRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Shopping list"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 12)
	if len(rows) == 0 {
		pdf.CellFormat(0, 8, tr("The shopping cart is empty."), "", 1, "L", false, 0, "")
	}
	for i, row := range rows {
		line := fmt.Sprintf("%d. %s (%s) - %d", i+1, row.Name, row.MeasurementUnit, row.Total)
		pdf.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list PDF: %w", err)
	}
	return buf.Bytes(), nil
}
