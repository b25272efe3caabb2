// Package ledger implements the budget ledger aggregate: category budget
// lines, the append-only transaction log, and the derived-totals pipeline.
//
// Actual spend per category is never stored as authoritative state. Every
// observation (Totals, Rows, Snapshot, Export) recomputes it from the
// transaction log, so the sum-of-transactions invariant holds at every
// observation point and a reload self-heals any drift in a persisted record.
package ledger

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"budget/internal/core"
)

// Store is the snapshot persistence port. Load returns (nil, nil) when no
// snapshot exists yet, which triggers default seeding.
type Store interface {
	Load(ctx context.Context) (*core.Snapshot, error)
	Save(ctx context.Context, snap core.Snapshot) error
	Close() error
}

// Ledger owns the income record, the ordered category set, and the
// transaction log. All mutating operations persist a snapshot through the
// store before returning; a failed write is logged and does not roll back
// the in-memory change.
type Ledger struct {
	mu           sync.Mutex
	income       core.Income
	categories   []core.Category
	transactions []core.Transaction
	store        Store
	lastTxID     int64
	revision     uint64
}

// New creates an empty ledger backed by store. Store may be nil for tests.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Load builds a ledger from the store's snapshot, seeding the default
// category and income set when no snapshot exists.
func Load(ctx context.Context, store Store) (*Ledger, error) {
	l := New(store)
	if store == nil {
		l.seedDefaults()
		return l, nil
	}
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load snapshot", Err: err}
	}
	if snap == nil {
		l.seedDefaults()
		l.persist(ctx, "seed")
		return l, nil
	}
	l.restore(*snap)
	return l, nil
}

// restore rebuilds in-memory state from a snapshot. Stored actuals are
// intentionally dropped; they are derived values.
func (l *Ledger) restore(snap core.Snapshot) {
	l.income = core.Income{
		Source: snap.Income.Source,
		Amount: core.Money{Cents: maxInt64(0, snap.Income.AmountCents)},
	}
	l.categories = l.categories[:0]
	for _, c := range snap.Categories {
		if strings.TrimSpace(c.ID) == "" {
			continue
		}
		l.categories = append(l.categories, core.Category{
			ID:      c.ID,
			Name:    c.Name,
			Planned: core.Money{Cents: maxInt64(0, c.PlannedCents)},
		})
	}
	l.transactions = l.transactions[:0]
	for _, t := range snap.Transactions {
		date, err := core.ParseDate(t.Date)
		if err != nil || t.AmountCents <= 0 {
			slog.Warn("Dropping malformed transaction from snapshot",
				"transaction_id", t.ID, "date", t.Date, "amount_cents", t.AmountCents)
			continue
		}
		l.transactions = append(l.transactions, core.Transaction{
			ID:         t.ID,
			Date:       date,
			CategoryID: t.CategoryID,
			Amount:     core.Money{Cents: t.AmountCents},
			Notes:      t.Notes,
		})
		if t.ID > l.lastTxID {
			l.lastTxID = t.ID
		}
	}
}

// SetIncome replaces the income source label and amount. The amount string
// is coerced to non-negative cents; non-numeric input degrades to zero
// without error.
func (l *Ledger) SetIncome(ctx context.Context, source, amount string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.income = core.Income{
		Source: strings.TrimSpace(source),
		Amount: core.Money{Cents: core.CoerceDecimalToCents(amount)},
	}
	l.bump()
	l.persist(ctx, "set income")
}

// SetPlannedAmount updates the planned spend for an existing category.
// Unknown category ids are a silent no-op. The amount is coerced the same
// way as income.
func (l *Ledger) SetPlannedAmount(ctx context.Context, categoryID, amount string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.categories {
		if l.categories[i].ID == categoryID {
			l.categories[i].Planned = core.Money{Cents: core.CoerceDecimalToCents(amount)}
			l.bump()
			l.persist(ctx, "set planned amount")
			return
		}
	}
	slog.DebugContext(ctx, "Planned-amount update for unknown category ignored",
		"category_id", categoryID)
}

// AddCategory appends a new budget line with a freshly derived stable id.
func (l *Ledger) AddCategory(ctx context.Context, name, planned string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cat := core.Category{
		ID:      l.uniqueID(slugify(name)),
		Name:    name,
		Planned: core.Money{Cents: core.CoerceDecimalToCents(planned)},
	}
	l.categories = append(l.categories, cat)
	l.bump()
	l.persist(ctx, "add category")
	return cat, nil
}

// RenameCategory changes a category's display label. The id is immutable,
// so existing transactions keep resolving to the renamed category.
func (l *Ledger) RenameCategory(ctx context.Context, categoryID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.categories {
		if l.categories[i].ID == categoryID {
			l.categories[i].Name = newName
			l.bump()
			l.persist(ctx, "rename category")
			return nil
		}
	}
	return &NotFoundError{Kind: "category", ID: categoryID}
}

// RemoveCategory deletes a budget line. Transactions referencing it are kept
// untouched; they become orphans and stop contributing to totals until a
// category with the same id exists again.
func (l *Ledger) RemoveCategory(ctx context.Context, categoryID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.categories {
		if l.categories[i].ID == categoryID {
			l.categories = append(l.categories[:i], l.categories[i+1:]...)
			l.bump()
			l.persist(ctx, "remove category")
			return nil
		}
	}
	return &NotFoundError{Kind: "category", ID: categoryID}
}

// RecordTransaction validates and appends a transaction. Validation is
// all-or-nothing: a bad date, empty category id, or non-positive amount
// leaves the ledger untouched. The referenced category may have been removed;
// the transaction is still recorded and simply does not contribute to any
// category's actual until the id resolves again.
func (l *Ledger) RecordTransaction(ctx context.Context, date, categoryID, amount, notes string) (core.Transaction, error) {
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, &ValidationError{Field: "date", Reason: "must be a calendar date (YYYY-MM-DD)"}
	}
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return core.Transaction{}, &ValidationError{Field: "amount", Reason: "must be a positive decimal"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := core.Transaction{
		ID:         l.nextTxID(),
		Date:       d,
		CategoryID: strings.TrimSpace(categoryID),
		Amount:     core.Money{Cents: cents},
		Notes:      strings.TrimSpace(notes),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, &ValidationError{Field: "transaction", Reason: err.Error()}
	}

	l.transactions = append(l.transactions, tx)
	l.bump()
	l.persist(ctx, "record transaction")

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", tx.ID,
		"category_id", tx.CategoryID,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.ISO())
	return tx, nil
}

// DeleteTransaction removes a transaction from the log. The matching
// category's actual decreases by exactly the transaction's amount on the
// next read; derivation from the log means it can never go below zero.
func (l *Ledger) DeleteTransaction(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.transactions {
		if l.transactions[i].ID == id {
			tx := l.transactions[i]
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			l.bump()
			l.persist(ctx, "delete transaction")
			slog.InfoContext(ctx, "Transaction deleted",
				"transaction_id", tx.ID,
				"category_id", tx.CategoryID,
				"amount_cents", tx.Amount.Cents)
			return nil
		}
	}
	return &NotFoundError{Kind: "transaction", ID: strconv.FormatInt(id, 10)}
}

// ResetPeriod clears the transaction log, zeroing every derived actual,
// while preserving planned amounts and income. Irreversible; callers must
// obtain explicit confirmation before invoking it.
func (l *Ledger) ResetPeriod(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = l.transactions[:0]
	l.bump()
	l.persist(ctx, "reset period")
	slog.InfoContext(ctx, "Period reset: transactions cleared, planned amounts kept")
}

// Income returns the current income record.
func (l *Ledger) Income() core.Income {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.income
}

// Categories returns the ordered category set.
func (l *Ledger) Categories() []core.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Category, len(l.categories))
	copy(out, l.categories)
	return out
}

// Transactions returns the log ordered by date descending (newest first),
// ties broken by id descending.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Transaction, len(l.transactions))
	copy(out, l.transactions)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Revision increases on every mutation. Consumers use it as a cache key for
// derived artifacts (rendered fragments, export files).
func (l *Ledger) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

// Snapshot produces the persisted record shape, with actuals materialized
// from the current log.
func (l *Ledger) Snapshot() core.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() core.Snapshot {
	actuals := l.actualsLocked()
	snap := core.Snapshot{
		Income: core.IncomeRecord{
			Source:      l.income.Source,
			AmountCents: l.income.Amount.Cents,
		},
	}
	for _, c := range l.categories {
		snap.Categories = append(snap.Categories, core.CategoryRecord{
			ID:           c.ID,
			Name:         c.Name,
			PlannedCents: c.Planned.Cents,
			ActualCents:  actuals[c.ID],
		})
	}
	for _, t := range l.transactions {
		snap.Transactions = append(snap.Transactions, core.TransactionRecord{
			ID:          t.ID,
			Date:        t.Date.ISO(),
			CategoryID:  t.CategoryID,
			AmountCents: t.Amount.Cents,
			Notes:       t.Notes,
		})
	}
	return snap
}

// actualsLocked derives per-category actual cents from the transaction log.
// Orphaned transactions (category id with no matching category) are excluded
// by construction: the map is keyed by existing category ids only.
func (l *Ledger) actualsLocked() map[string]int64 {
	actuals := make(map[string]int64, len(l.categories))
	for _, c := range l.categories {
		actuals[c.ID] = 0
	}
	for _, t := range l.transactions {
		if _, ok := actuals[t.CategoryID]; ok {
			actuals[t.CategoryID] += t.Amount.Cents
		}
	}
	return actuals
}

// persist saves a snapshot, called with l.mu held. Write failures are logged
// and swallowed: the in-memory ledger is the source of truth for the session
// and may diverge from disk until the next successful write.
func (l *Ledger) persist(ctx context.Context, op string) {
	if l.store == nil {
		return
	}
	if err := l.store.Save(ctx, l.snapshotLocked()); err != nil {
		perr := &PersistenceError{Op: op, Err: err}
		slog.ErrorContext(ctx, "Snapshot save failed, in-memory state kept",
			"operation", op, "error", perr)
	}
}

func (l *Ledger) bump() {
	l.revision++
}

// nextTxID returns a unix-millisecond id, bumped past the previous id when
// two transactions land in the same millisecond.
func (l *Ledger) nextTxID() int64 {
	id := time.Now().UnixMilli()
	if id <= l.lastTxID {
		id = l.lastTxID + 1
	}
	l.lastTxID = id
	return id
}

func (l *Ledger) uniqueID(base string) string {
	if base == "" {
		base = "category"
	}
	id := base
	for n := 2; l.hasCategoryID(id); n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func (l *Ledger) hasCategoryID(id string) bool {
	for _, c := range l.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
