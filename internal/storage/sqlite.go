// Package storage provides the SQLite snapshot store. The ledger replaces
// its whole state on every save, so Save rewrites the three tables inside a
// single transaction; readers either see the previous snapshot or the new
// one, never a mix.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the snapshot. An empty database (no income row and no
// categories) means no snapshot was ever saved and returns (nil, nil).
func (s *SQLiteStore) Load(ctx context.Context) (*core.Snapshot, error) {
	var snap core.Snapshot

	hasIncome := true
	err := s.db.QueryRowContext(ctx,
		`SELECT source, amount_cents FROM income WHERE id = 1`,
	).Scan(&snap.Income.Source, &snap.Income.AmountCents)
	if err == sql.ErrNoRows {
		hasIncome = false
	} else if err != nil {
		return nil, fmt.Errorf("load income: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, planned_cents, actual_cents FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c core.CategoryRecord
		if err := rows.Scan(&c.ID, &c.Name, &c.PlannedCents, &c.ActualCents); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		snap.Categories = append(snap.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	if !hasIncome && len(snap.Categories) == 0 {
		return nil, nil
	}

	txRows, err := s.db.QueryContext(ctx,
		`SELECT id, date, category_id, amount_cents, notes FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer txRows.Close()
	for txRows.Next() {
		var t core.TransactionRecord
		if err := txRows.Scan(&t.ID, &t.Date, &t.CategoryID, &t.AmountCents, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		snap.Transactions = append(snap.Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return &snap, nil
}

// Save replaces the stored snapshot atomically.
func (s *SQLiteStore) Save(ctx context.Context, snap core.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM income`,
		`DELETE FROM categories`,
		`DELETE FROM transactions`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO income (id, source, amount_cents) VALUES (1, ?, ?)`,
		snap.Income.Source, snap.Income.AmountCents); err != nil {
		return fmt.Errorf("save income: %w", err)
	}

	for i, c := range snap.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, planned_cents, actual_cents, position) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.PlannedCents, c.ActualCents, i); err != nil {
			return fmt.Errorf("save category %s: %w", c.ID, err)
		}
	}

	for _, t := range snap.Transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, date, category_id, amount_cents, notes) VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.Date, t.CategoryID, t.AmountCents, t.Notes); err != nil {
			return fmt.Errorf("save transaction %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot save: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved to SQLite",
		"categories", len(snap.Categories),
		"transactions", len(snap.Transactions))
	return nil
}
