package ledger

import (
	"context"
	"errors"

	"finplan/internal/core"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters. The memory store and the SQLite repository
// both satisfy the full set.
type (
	ExpenseAppender interface {
		AppendExpense(ctx context.Context, e core.ExpenseRecord) error
	}

	ExpenseLister interface {
		// ListExpenses returns all records in insertion order; display
		// ordering is the caller's concern.
		ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error)
	}

	// StatementRegistry tracks uploaded statements and their processing state.
	StatementRegistry interface {
		RegisterStatement(ctx context.Context, st core.Statement) error
		GetStatement(ctx context.Context, id string) (core.Statement, error)
		ListStatements(ctx context.Context) ([]core.Statement, error)
		SetStatementResult(ctx context.Context, id string, status core.StatementStatus, outputFile string, rows int) error
	}

	// BaselineStore holds the per-category totals produced by the external
	// categorization of processed statements.
	BaselineStore interface {
		ReadBaseline(ctx context.Context) (map[core.Category]core.Money, error)
		WriteBaseline(ctx context.Context, totals map[core.Category]core.Money) error
	}
)
