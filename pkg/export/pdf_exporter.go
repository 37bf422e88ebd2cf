package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Column is one vertical strip of a column layout, e.g. a weekday.
type Column struct {
	Heading string
	Cells   []string
}

// PDFExporter renders tables and day-column schedules with gofpdf.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a portrait PDF with an optional title and a table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	writeTitle(pdf, tr, data.Title)

	colWidth := 190.0 / float64(len(data.Headers))
	header := func() {
		pdf.SetFont("Arial", "B", 9)
		for _, h := range data.Headers {
			pdf.CellFormat(colWidth, 8, tr(h), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	header()
	for _, row := range data.Rows {
		cells := fitRow(row, len(data.Headers))
		for i := range cells {
			cells[i] = tr(cells[i])
		}
		writeRow(pdf, cells, colWidth, 4.5, header)
	}
	return output(pdf)
}

// RenderColumns lays columns side by side on a landscape page, one block per
// cell, aligned row by row.
func (e *PDFExporter) RenderColumns(title string, columns []Column) ([]byte, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(8, 12, 8)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	writeTitle(pdf, tr, title)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageW - left - right) / float64(len(columns))
	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range columns {
			pdf.CellFormat(colWidth, 8, tr(col.Heading), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 7)
	}
	header()

	rows := 0
	for _, col := range columns {
		rows = max(rows, len(col.Cells))
	}
	for r := 0; r < rows; r++ {
		cells := make([]string, len(columns))
		for c, col := range columns {
			if r < len(col.Cells) {
				cells[c] = tr(col.Cells[r])
			}
		}
		writeRow(pdf, cells, colWidth, 3.5, header)
	}
	return output(pdf)
}

func writeTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	if title == "" {
		return
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(strings.ToUpper(title)), "", 1, "C", false, 0, "")
	pdf.Ln(3)
}

// writeRow draws one row of wrapped cells, breaking the page first when the
// row would not fit.
func writeRow(pdf *gofpdf.Fpdf, cells []string, colWidth, lineHeight float64, header func()) {
	lines := 1
	for _, cell := range cells {
		lines = max(lines, len(pdf.SplitLines([]byte(cell), colWidth-2)))
	}
	height := float64(lines)*lineHeight + 2

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+height > pageH-bottom {
		pdf.AddPage()
		header()
	}

	x, y := pdf.GetX(), pdf.GetY()
	for i, cell := range cells {
		cx := x + float64(i)*colWidth
		pdf.Rect(cx, y, colWidth, height, "D")
		pdf.SetXY(cx+1, y+1)
		pdf.MultiCell(colWidth-2, lineHeight, cell, "", "L", false)
	}
	pdf.SetXY(x, y+height)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
