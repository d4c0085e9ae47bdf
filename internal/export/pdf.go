package export

import (
	"fmt"
	"io"

	"fintrack/internal/core"

	"github.com/phpdave11/gofpdf"
)

const rowsPerPage = 40

var pdfColumns = []float64{90, 45, 45}

// WritePDF renders s as a statement: a header per page, 40 rows per page and
// a closing total line.
func WritePDF(w io.Writer, title string, s Sheet) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetMargins(14, 14, 14)

	var total core.Money
	for i, r := range s.Rows {
		if i%rowsPerPage == 0 {
			addPage(pdf, title, s.LabelHeader)
		}
		pdf.CellFormat(pdfColumns[0], 7, r.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColumns[1], 7, r.Amount.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColumns[2], 7, r.Date.Format(DateLayout), "1", 1, "C", false, 0, "")
		total = total.Add(r.Amount)
	}
	if len(s.Rows) == 0 {
		addPage(pdf, title, s.LabelHeader)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(pdfColumns[0], 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfColumns[1], 8, total.String(), "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfColumns[2], 8, fmt.Sprintf("%d rows", len(s.Rows)), "1", 1, "C", true, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func addPage(pdf *gofpdf.Fpdf, title, labelHeader string) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(pdfColumns[0], 8, labelHeader, "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfColumns[1], 8, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfColumns[2], 8, "Date", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
}
