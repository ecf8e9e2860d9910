package generate

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/fairlead/cpgen/internal/charter"
)

// RenderPDF renders the filled document as a PDF. Substituted values are
// set bold and red, untouched template text in the regular face.
func RenderPDF(original string, mods []charter.Modification, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Charter Party", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "CHARTER PARTY", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, "Generated on: "+generatedAt.Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, seg := range segments(original, mods) {
		if seg.marked {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(220, 0, 0)
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Write(5, seg.text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF output: %w", err)
	}
	return buf.Bytes(), nil
}
