package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.ISO() != "2024-01-05" {
		t.Fatalf("round trip = %q", d.ISO())
	}

	for _, bad := range []string{"", "  ", "05/01/2024", "2024-13-01", "2024-02-30", "not-a-date"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q): expected error", bad)
		}
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2024, 1, 5).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:         1,
		Date:       NewDate(2024, 1, 5),
		CategoryID: "rent",
		Amount:     Money{Cents: 45000},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{}, CategoryID: "rent", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 5), CategoryID: "", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 5), CategoryID: "  ", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 5), CategoryID: "rent", Amount: Money{Cents: 0}},
		{Date: NewDate(2024, 1, 5), CategoryID: "rent", Amount: Money{Cents: -500}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
