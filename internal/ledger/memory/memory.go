// Package memory implements the ledger ports on mutex-guarded slices.
// It is the default backend: the dashboard state lives for the process
// lifetime only, which is all the manual-expense flow requires.
package memory

import (
	"context"
	"sync"

	"finplan/internal/core"
	"finplan/internal/ledger"
)

type Store struct {
	mu         sync.Mutex
	expenses   []core.ExpenseRecord
	statements []core.Statement
	baseline   map[core.Category]core.Money
}

func New() *Store {
	return &Store{baseline: make(map[core.Category]core.Money)}
}

// AppendExpense stores an already validated record.
func (s *Store) AppendExpense(_ context.Context, e core.ExpenseRecord) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

// ListExpenses returns a copy of the records in insertion order.
func (s *Store) ListExpenses(_ context.Context) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ExpenseRecord, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}

func (s *Store) RegisterStatement(_ context.Context, st core.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements = append(s.statements, st)
	return nil
}

func (s *Store) GetStatement(_ context.Context, id string) (core.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.statements {
		if st.ID == id {
			return st, nil
		}
	}
	return core.Statement{}, ledger.ErrNotFound
}

// ListStatements returns uploads newest-first.
func (s *Store) ListStatements(_ context.Context) ([]core.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Statement, len(s.statements))
	for i, st := range s.statements {
		out[len(s.statements)-1-i] = st
	}
	return out, nil
}

func (s *Store) SetStatementResult(_ context.Context, id string, status core.StatementStatus, outputFile string, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.statements {
		if s.statements[i].ID == id {
			s.statements[i].Status = status
			s.statements[i].OutputFile = outputFile
			s.statements[i].Rows = rows
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ReadBaseline(_ context.Context) (map[core.Category]core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[core.Category]core.Money, len(s.baseline))
	for c, m := range s.baseline {
		out[c] = m
	}
	return out, nil
}

func (s *Store) WriteBaseline(_ context.Context, totals map[core.Category]core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = make(map[core.Category]core.Money, len(totals))
	for c, m := range totals {
		s.baseline[c] = m
	}
	return nil
}
