package ledger

import "budget/internal/core"

// Totals is the aggregate summary derived from the ledger. All fields are
// recomputed from scratch on every call; nothing here is cached state.
type Totals struct {
	Income          core.Money
	TotalPlanned    core.Money
	TotalActual     core.Money
	MoneyLeft       core.Money
	SavingsRate     float64 // percent of income left, 0 when income is zero
	TotalDifference core.Money
}

// Row is one line of the budget table: a category with its derived actual
// and planned-minus-actual difference. Overspent reflects the sign of the
// difference for display classification.
type Row struct {
	Category   core.Category
	Actual     core.Money
	Difference core.Money
	Overspent  bool
}

// ExportSnapshot is the read-only shape handed to report writers. Formatting
// and encoding are the consumer's responsibility.
type ExportSnapshot struct {
	Income       core.Income
	Totals       Totals
	Rows         []Row
	Transactions []core.Transaction
}

// Totals computes the aggregate metrics. Pure read, no side effects.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalsLocked()
}

func (l *Ledger) totalsLocked() Totals {
	actuals := l.actualsLocked()
	var planned, actual int64
	for _, c := range l.categories {
		planned += c.Planned.Cents
		actual += actuals[c.ID]
	}
	income := l.income.Amount.Cents
	left := income - actual
	rate := 0.0
	if income > 0 {
		rate = float64(left) / float64(income) * 100
	}
	return Totals{
		Income:          core.Money{Cents: income},
		TotalPlanned:    core.Money{Cents: planned},
		TotalActual:     core.Money{Cents: actual},
		MoneyLeft:       core.Money{Cents: left},
		SavingsRate:     rate,
		TotalDifference: core.Money{Cents: planned - actual},
	}
}

// Rows returns the per-category budget table in category order.
func (l *Ledger) Rows() []Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rowsLocked()
}

func (l *Ledger) rowsLocked() []Row {
	actuals := l.actualsLocked()
	rows := make([]Row, 0, len(l.categories))
	for _, c := range l.categories {
		diff := c.Planned.Cents - actuals[c.ID]
		rows = append(rows, Row{
			Category:   c,
			Actual:     core.Money{Cents: actuals[c.ID]},
			Difference: core.Money{Cents: diff},
			Overspent:  diff < 0,
		})
	}
	return rows
}

// Export assembles the full read-only snapshot for report writers.
func (l *Ledger) Export() ExportSnapshot {
	l.mu.Lock()
	income := l.income
	totals := l.totalsLocked()
	rows := l.rowsLocked()
	l.mu.Unlock()
	return ExportSnapshot{
		Income:       income,
		Totals:       totals,
		Rows:         rows,
		Transactions: l.Transactions(),
	}
}
