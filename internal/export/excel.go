package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"budget/internal/ledger"
)

// WriteXLSX builds a three-sheet workbook: Summary, Monthly Budget, and
// Transactions.
func WriteXLSX(snap ledger.ExportSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"667EEA"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	// Sheet 1: Summary
	const summarySheet = "Summary"
	f.SetSheetName("Sheet1", summarySheet)
	summary := [][]interface{}{
		{"Monthly Budget Summary"},
		{},
		{"Metric", "Value"},
		{"Income Source", snap.Income.Source},
		{"Total Income", snap.Totals.Income.Dollars()},
		{"Total Planned Expenses", snap.Totals.TotalPlanned.Dollars()},
		{"Total Actual Expenses", snap.Totals.TotalActual.Dollars()},
		{"Money Left", snap.Totals.MoneyLeft.Dollars()},
		{"Savings Rate", fmt.Sprintf("%.1f%%", snap.Totals.SavingsRate)},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	f.SetColWidth(summarySheet, "A", "A", 25)
	f.SetColWidth(summarySheet, "B", "B", 20)
	f.SetCellStyle(summarySheet, "A3", "B3", headerStyle)

	// Sheet 2: Monthly Budget
	const budgetSheet = "Monthly Budget"
	if _, err := f.NewSheet(budgetSheet); err != nil {
		return nil, fmt.Errorf("create budget sheet: %w", err)
	}
	budgetRows := [][]interface{}{
		{"Category", "Planned", "Actual", "Difference"},
	}
	for _, r := range snap.Rows {
		budgetRows = append(budgetRows, []interface{}{
			r.Category.Name,
			r.Category.Planned.Dollars(),
			r.Actual.Dollars(),
			r.Difference.Dollars(),
		})
	}
	budgetRows = append(budgetRows, []interface{}{
		"TOTAL",
		snap.Totals.TotalPlanned.Dollars(),
		snap.Totals.TotalActual.Dollars(),
		snap.Totals.TotalDifference.Dollars(),
	})
	for i, row := range budgetRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(budgetSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write budget row %d: %w", i+1, err)
		}
	}
	f.SetColWidth(budgetSheet, "A", "A", 20)
	f.SetColWidth(budgetSheet, "B", "D", 12)
	f.SetCellStyle(budgetSheet, "A1", "D1", headerStyle)
	lastBudget := fmt.Sprintf("%d", len(budgetRows))
	f.SetCellStyle(budgetSheet, "A"+lastBudget, "D"+lastBudget, totalStyle)

	// Sheet 3: Transactions
	const txSheet = "Transactions"
	if _, err := f.NewSheet(txSheet); err != nil {
		return nil, fmt.Errorf("create transactions sheet: %w", err)
	}
	txRows := [][]interface{}{
		{"Date", "Category", "Amount", "Notes"},
	}
	for _, t := range snap.Transactions {
		txRows = append(txRows, []interface{}{
			t.Date.ISO(),
			categoryName(snap, t.CategoryID),
			t.Amount.Dollars(),
			t.Notes,
		})
	}
	for i, row := range txRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(txSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write transaction row %d: %w", i+1, err)
		}
	}
	f.SetColWidth(txSheet, "A", "A", 12)
	f.SetColWidth(txSheet, "B", "B", 20)
	f.SetColWidth(txSheet, "C", "C", 12)
	f.SetColWidth(txSheet, "D", "D", 30)
	f.SetCellStyle(txSheet, "A1", "D1", headerStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
