package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/signintech/gopdf"

	"budget/internal/ledger"
)

// ErrNoFont is returned when PDF export is requested without a configured
// TTF font. gopdf embeds fonts into the document and ships none of its own.
var ErrNoFont = errors.New("pdf export requires a TTF font (set BUDGET_PDF_FONT)")

// PDFWriter renders the budget report as a single-page PDF.
type PDFWriter struct {
	fontPath string
}

func NewPDFWriter(fontPath string) *PDFWriter {
	return &PDFWriter{fontPath: fontPath}
}

// Write renders the report. Layout: colored header band, summary box, then
// the budget table; transactions are left to the CSV/XLSX reports where
// arbitrary length fits better.
func (w *PDFWriter) Write(snap ledger.ExportSnapshot) ([]byte, error) {
	if w.fontPath == "" {
		return nil, ErrNoFont
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	if err := pdf.AddTTFFont("report", w.fontPath); err != nil {
		return nil, fmt.Errorf("load report font: %w", err)
	}

	pdf.AddPage()

	// Header band
	pdf.SetFillColor(102, 126, 234)
	pdf.RectFromUpperLeftWithStyle(0, 0, 595, 90, "F")
	pdf.SetTextColor(255, 255, 255)
	if err := pdf.SetFont("report", "", 24); err != nil {
		return nil, fmt.Errorf("set font: %w", err)
	}
	pdf.SetXY(40, 25)
	pdf.Cell(nil, "Monthly Budget Report")
	pdf.SetFont("report", "", 11)
	pdf.SetXY(40, 60)
	pdf.Cell(nil, time.Now().Format("January 2006"))

	// Summary box
	pdf.SetFillColor(245, 247, 250)
	pdf.RectFromUpperLeftWithStyle(30, 110, 535, 110, "F")
	pdf.SetTextColor(45, 52, 54)
	pdf.SetFont("report", "", 14)
	pdf.SetXY(50, 122)
	pdf.Cell(nil, "Summary")

	pdf.SetFont("report", "", 11)
	summary := []struct {
		label string
		value string
	}{
		{"Income (" + snap.Income.Source + ")", "$" + snap.Totals.Income.String()},
		{"Total Planned", "$" + snap.Totals.TotalPlanned.String()},
		{"Total Actual", "$" + snap.Totals.TotalActual.String()},
		{"Money Left", "$" + snap.Totals.MoneyLeft.String()},
		{"Savings Rate", fmt.Sprintf("%.1f%%", snap.Totals.SavingsRate)},
	}
	y := 148.0
	for _, s := range summary {
		pdf.SetXY(50, y)
		pdf.Cell(nil, s.label)
		pdf.SetXY(320, y)
		pdf.Cell(nil, s.value)
		y += 14
	}

	// Budget table
	y = 250
	pdf.SetFont("report", "", 12)
	pdf.SetXY(40, y)
	pdf.Cell(nil, "Planned vs Actual")
	y += 22

	pdf.SetFont("report", "", 10)
	cols := []struct {
		title string
		x     float64
	}{
		{"Category", 40}, {"Planned", 280}, {"Actual", 370}, {"Difference", 460},
	}
	for _, c := range cols {
		pdf.SetXY(c.x, y)
		pdf.Cell(nil, c.title)
	}
	y += 16

	for _, r := range snap.Rows {
		if y > 780 {
			pdf.AddPage()
			y = 40
		}
		pdf.SetTextColor(45, 52, 54)
		pdf.SetXY(40, y)
		pdf.Cell(nil, r.Category.Name)
		pdf.SetXY(280, y)
		pdf.Cell(nil, "$"+r.Category.Planned.String())
		pdf.SetXY(370, y)
		pdf.Cell(nil, "$"+r.Actual.String())
		if r.Overspent {
			pdf.SetTextColor(214, 48, 49)
		} else {
			pdf.SetTextColor(0, 184, 148)
		}
		pdf.SetXY(460, y)
		pdf.Cell(nil, "$"+r.Difference.String())
		y += 14
	}

	pdf.SetTextColor(45, 52, 54)
	pdf.SetXY(40, y+6)
	pdf.Cell(nil, "TOTAL")
	pdf.SetXY(280, y+6)
	pdf.Cell(nil, "$"+snap.Totals.TotalPlanned.String())
	pdf.SetXY(370, y+6)
	pdf.Cell(nil, "$"+snap.Totals.TotalActual.String())
	pdf.SetXY(460, y+6)
	pdf.Cell(nil, "$"+snap.Totals.TotalDifference.String())

	return pdf.GetBytesPdf(), nil
}
