// Package export renders the ledger's read-only ExportSnapshot to report
// files. The ledger computes the numbers; this package only formats and
// encodes them.
package export

import (
	"fmt"
	"time"

	"budget/internal/ledger"
)

// Format identifies a report encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ContentType returns the MIME type for HTTP downloads.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// IsValid returns true if the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return true
	default:
		return false
	}
}

// Filename builds the report file name for the given month,
// e.g. "Monthly_Budget_January_2024.csv".
func Filename(f Format, at time.Time) string {
	return fmt.Sprintf("Monthly_Budget_%s_%d.%s", at.Month().String(), at.Year(), f)
}

// categoryName resolves a transaction's category label from the snapshot
// rows, falling back to the raw id for orphaned references.
func categoryName(snap ledger.ExportSnapshot, categoryID string) string {
	for _, r := range snap.Rows {
		if r.Category.ID == categoryID {
			return r.Category.Name
		}
	}
	return categoryID
}
