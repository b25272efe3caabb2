package ledger

import "budget/internal/core"

// Default budget lines used when no persisted snapshot exists yet.
var defaultCategories = []core.Category{
	{ID: "rent", Name: "Rent", Planned: core.Money{Cents: 45000}},
	{ID: "utilities", Name: "Utilities", Planned: core.Money{Cents: 5000}},
	{ID: "wifi", Name: "Wifi", Planned: core.Money{Cents: 2000}},
	{ID: "insurance", Name: "Insurance", Planned: core.Money{Cents: 30700}},
	{ID: "gas", Name: "Gas", Planned: core.Money{Cents: 10000}},
	{ID: "food", Name: "Food", Planned: core.Money{Cents: 10000}},
	{ID: "subscriptions", Name: "Subscriptions", Planned: core.Money{Cents: 6500}},
	{ID: "affirm-1", Name: "Affirm 1", Planned: core.Money{Cents: 6000}},
	{ID: "affirm-2", Name: "Affirm 2", Planned: core.Money{Cents: 3400}},
	{ID: "mobile-bill", Name: "Mobile bill", Planned: core.Money{Cents: 14000}},
	{ID: "send-to-india", Name: "Send to India", Planned: core.Money{Cents: 15000}},
}

var defaultIncome = core.Income{
	Source: "Holiday Inn",
	Amount: core.Money{Cents: 150000},
}

func (l *Ledger) seedDefaults() {
	l.income = defaultIncome
	l.categories = append(l.categories[:0], defaultCategories...)
	l.transactions = l.transactions[:0]
}
