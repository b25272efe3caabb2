package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"budget/internal/core"
	"budget/internal/ledger"
)

func sampleSnapshot() ledger.ExportSnapshot {
	rent := core.Category{ID: "rent", Name: "Rent", Planned: core.Money{Cents: 45000}}
	food := core.Category{ID: "food", Name: "Food", Planned: core.Money{Cents: 10000}}
	return ledger.ExportSnapshot{
		Income: core.Income{Source: "Job", Amount: core.Money{Cents: 150000}},
		Totals: ledger.Totals{
			Income:          core.Money{Cents: 150000},
			TotalPlanned:    core.Money{Cents: 55000},
			TotalActual:     core.Money{Cents: 45000},
			MoneyLeft:       core.Money{Cents: 105000},
			SavingsRate:     70.0,
			TotalDifference: core.Money{Cents: 10000},
		},
		Rows: []ledger.Row{
			{Category: rent, Actual: core.Money{Cents: 45000}, Difference: core.Money{Cents: 0}},
			{Category: food, Actual: core.Money{Cents: 0}, Difference: core.Money{Cents: 10000}},
		},
		Transactions: []core.Transaction{
			{ID: 1, Date: core.NewDate(2024, 1, 5), CategoryID: "rent", Amount: core.Money{Cents: 45000}, Notes: "january rent"},
			{ID: 2, Date: core.NewDate(2024, 1, 4), CategoryID: "gone", Amount: core.Money{Cents: 500}},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	data, err := WriteCSV(sampleSnapshot())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"Category,Planned,Actual,Difference",
		"Rent,450.00,450.00,0.00",
		"Food,100.00,0.00,100.00",
		"TOTAL,550.00,450.00,100.00",
		"2024-01-05,Rent,450.00,january rent",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("csv missing %q:\n%s", want, out)
		}
	}
	// Orphaned transactions fall back to the raw category id.
	if !strings.Contains(out, "2024-01-04,gone,5.00") {
		t.Errorf("csv missing orphan row:\n%s", out)
	}
}

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX(sampleSnapshot())
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Summary", "Monthly Budget", "Transactions"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
	}

	cell, err := f.GetCellValue("Monthly Budget", "A2")
	if err != nil {
		t.Fatalf("get cell: %v", err)
	}
	if cell != "Rent" {
		t.Fatalf("Monthly Budget!A2 = %q, want Rent", cell)
	}
	rate, err := f.GetCellValue("Summary", "B9")
	if err != nil {
		t.Fatalf("get cell: %v", err)
	}
	if rate != "70.0%" {
		t.Fatalf("Summary!B9 = %q, want 70.0%%", rate)
	}
}

func TestPDFRequiresFont(t *testing.T) {
	w := NewPDFWriter("")
	if _, err := w.Write(sampleSnapshot()); !errors.Is(err, ErrNoFont) {
		t.Fatalf("expected ErrNoFont, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		format Format
		want   string
	}{
		{FormatCSV, "Monthly_Budget_January_2024.csv"},
		{FormatXLSX, "Monthly_Budget_January_2024.xlsx"},
		{FormatPDF, "Monthly_Budget_January_2024.pdf"},
	}
	for _, tc := range cases {
		if got := Filename(tc.format, at); got != tc.want {
			t.Errorf("Filename(%s) = %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestFormatContentType(t *testing.T) {
	if got := FormatCSV.ContentType(); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("csv content type = %q", got)
	}
	if !FormatXLSX.IsValid() || Format("doc").IsValid() {
		t.Errorf("format validity broken")
	}
}
