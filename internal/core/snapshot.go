package core

// Snapshot is the single persisted record consumed and produced by the
// storage adapters. ActualCents on a category row is the derived sum at the
// moment the snapshot was taken; loaders discard it and recompute from the
// transaction log, so a stale or hand-edited value cannot introduce drift.
type Snapshot struct {
	Income       IncomeRecord        `json:"income"`
	Categories   []CategoryRecord    `json:"categories"`
	Transactions []TransactionRecord `json:"transactions"`
}

type IncomeRecord struct {
	Source      string `json:"source"`
	AmountCents int64  `json:"amount_cents"`
}

type CategoryRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlannedCents int64  `json:"planned_cents"`
	ActualCents  int64  `json:"actual_cents"`
}

type TransactionRecord struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	CategoryID  string `json:"category_id"`
	AmountCents int64  `json:"amount_cents"`
	Notes       string `json:"notes,omitempty"`
}
