package memory

import (
	"context"
	"testing"
	"time"

	"finplan/internal/core"
	"finplan/internal/ledger"
)

func TestAppendAndListExpenses(t *testing.T) {
	s := New()
	ctx := context.Background()

	e := core.ExpenseRecord{
		ID:          "e1",
		Category:    core.Food,
		Amount:      core.Money{Cents: 4550},
		Date:        core.NewDate(2025, 2, 1),
		Description: "groceries",
	}
	if err := s.AppendExpense(ctx, e); err != nil {
		t.Fatalf("append: %v", err)
	}

	// invalid records are refused
	bad := e
	bad.Description = ""
	if err := s.AppendExpense(ctx, bad); err == nil {
		t.Fatalf("expected validation error")
	}

	got, err := s.ListExpenses(ctx)
	if err != nil || len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("list = %v, err=%v", got, err)
	}

	// the returned slice is a copy
	got[0].Description = "mutated"
	again, _ := s.ListExpenses(ctx)
	if again[0].Description != "groceries" {
		t.Fatalf("internal state leaked")
	}
}

func TestStatementRegistry(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := core.Statement{ID: "s1", Filename: "jan.csv", Status: core.StatementPending, UploadedAt: time.Now()}
	second := core.Statement{ID: "s2", Filename: "feb.csv", Status: core.StatementPending, UploadedAt: time.Now()}
	if err := s.RegisterStatement(ctx, first); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.RegisterStatement(ctx, second); err != nil {
		t.Fatalf("register: %v", err)
	}

	list, err := s.ListStatements(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("list = %v, err=%v", list, err)
	}
	if list[0].ID != "s2" {
		t.Fatalf("expected newest-first, got %v", list)
	}

	if err := s.SetStatementResult(ctx, "s1", core.StatementProcessed, "out.csv", 42); err != nil {
		t.Fatalf("set result: %v", err)
	}
	st, err := s.GetStatement(ctx, "s1")
	if err != nil || st.Status != core.StatementProcessed || st.Rows != 42 {
		t.Fatalf("get = %+v, err=%v", st, err)
	}

	if _, err := s.GetStatement(ctx, "nope"); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetStatementResult(ctx, "nope", core.StatementFailed, "", 0); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBaselineStore(t *testing.T) {
	s := New()
	ctx := context.Background()

	empty, err := s.ReadBaseline(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("fresh baseline = %v, err=%v", empty, err)
	}

	in := map[core.Category]core.Money{core.Food: {Cents: 1200}}
	if err := s.WriteBaseline(ctx, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	in[core.Food] = core.Money{Cents: 9999} // caller's map must not alias

	got, _ := s.ReadBaseline(ctx)
	if got[core.Food].Cents != 1200 {
		t.Fatalf("baseline = %v", got)
	}
}
