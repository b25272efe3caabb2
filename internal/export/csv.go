package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"budget/internal/ledger"
)

// WriteCSV renders the budget table with a TOTAL row, a blank separator,
// and the transaction log.
func WriteCSV(snap ledger.ExportSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Category", "Planned", "Actual", "Difference"},
	}
	for _, r := range snap.Rows {
		records = append(records, []string{
			r.Category.Name,
			r.Category.Planned.String(),
			r.Actual.String(),
			r.Difference.String(),
		})
	}
	records = append(records, []string{
		"TOTAL",
		snap.Totals.TotalPlanned.String(),
		snap.Totals.TotalActual.String(),
		snap.Totals.TotalDifference.String(),
	})

	records = append(records,
		[]string{},
		[]string{"Date", "Category", "Amount", "Notes"},
	)
	for _, t := range snap.Transactions {
		records = append(records, []string{
			t.Date.ISO(),
			categoryName(snap, t.CategoryID),
			t.Amount.String(),
			t.Notes,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
