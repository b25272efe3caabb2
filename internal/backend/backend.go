// Package backend selects and constructs the snapshot store from
// configuration.
package backend

import (
	"fmt"

	"budget/internal/filestore"
	"budget/internal/ledger"
	"budget/internal/storage"
)

// Type identifies a snapshot-store implementation.
type Type string

const (
	// FileBackend keeps the snapshot as a single JSON document, the direct
	// analog of the original tracker's browser-local storage. Default.
	FileBackend Type = "file"
	// SQLiteBackend keeps the snapshot in a local SQLite database.
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a store.
type Config struct {
	Type         Type
	SnapshotPath string // file backend
	SQLiteDBPath string // sqlite backend
}

// Open constructs the configured store.
func Open(cfg Config) (ledger.Store, error) {
	switch cfg.Type {
	case FileBackend:
		return filestore.New(cfg.SnapshotPath)
	case SQLiteBackend:
		return storage.NewSQLiteStore(cfg.SQLiteDBPath)
	default:
		return nil, fmt.Errorf("unknown backend type: %s", cfg.Type)
	}
}
