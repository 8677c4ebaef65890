// Package backend selects and builds the ledger implementation from
// configuration.
package backend

import (
	"fmt"

	"finplan/internal/config"
	"finplan/internal/ledger"
	"finplan/internal/ledger/memory"
	"finplan/internal/log"
	"finplan/internal/storage"
)

// Type selects a ledger implementation.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Ledger is the full set of ports a backend provides.
type Ledger interface {
	ledger.ExpenseAppender
	ledger.ExpenseLister
	ledger.StatementRegistry
	ledger.BaselineStore
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result holds the built ledger and its cleanup.
type Result struct {
	Ledger  Ledger
	Cleanup CleanupFunc
}

// Factory builds backends from configuration.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Create builds the ledger named by cfg.DataBackend.
func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	t := Type(cfg.DataBackend)
	switch t {
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case MemoryBackend, "":
		f.logger.Info("Initialized memory backend")
		return &Result{Ledger: memory.New()}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	if cfg.SQLiteDBPath == "" {
		return nil, fmt.Errorf("sqlite backend requires SQLITE_DB_PATH")
	}
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &Result{Ledger: repo, Cleanup: repo.Close}, nil
}
