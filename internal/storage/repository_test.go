package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finplan/internal/core"
	"finplan/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finplan.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestExpenseRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records := []core.ExpenseRecord{
		{ID: "e1", Category: core.Food, Amount: core.Money{Cents: 4550}, Date: core.NewDate(2025, 2, 1), Description: "groceries"},
		{ID: "e2", Category: core.Books, Amount: core.Money{Cents: 9500}, Date: core.NewDate(2025, 2, 3), Description: "course reader"},
	}
	for _, rec := range records {
		if err := repo.AppendExpense(ctx, rec); err != nil {
			t.Fatalf("append %s: %v", rec.ID, err)
		}
	}

	got, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID != "e1" || got[0].Amount.Cents != 4550 || got[0].Category != core.Food {
		t.Fatalf("first record = %+v", got[0])
	}
	if got[1].Date.String() != "2025-02-03" {
		t.Fatalf("date round-trip = %q", got[1].Date)
	}
}

func TestAppendExpenseRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	bad := core.ExpenseRecord{ID: "bad", Category: core.Food, Amount: core.Money{Cents: -1},
		Date: core.NewDate(2025, 2, 1), Description: "negative"}
	if err := repo.AppendExpense(context.Background(), bad); err == nil {
		t.Fatalf("invalid record must be rejected before hitting the table")
	}
}

func TestStatementLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := core.Statement{ID: "s1", Filename: "jan.pdf", StoredPath: "/tmp/s1", SizeBytes: 10,
		Mode: "all", Status: core.StatementPending, UploadedAt: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)}
	newer := core.Statement{ID: "s2", Filename: "feb.csv", StoredPath: "/tmp/s2", SizeBytes: 20,
		Mode: "expenses", Status: core.StatementPending, UploadedAt: time.Date(2025, 2, 5, 10, 0, 0, 0, time.UTC)}
	for _, st := range []core.Statement{older, newer} {
		if err := repo.RegisterStatement(ctx, st); err != nil {
			t.Fatalf("register %s: %v", st.ID, err)
		}
	}

	if err := repo.SetStatementResult(ctx, "s1", core.StatementProcessed, "jan_categorized.csv", 42); err != nil {
		t.Fatalf("set result: %v", err)
	}

	got, err := repo.GetStatement(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != core.StatementProcessed || got.Rows != 42 || got.OutputFile != "jan_categorized.csv" {
		t.Fatalf("statement = %+v", got)
	}

	list, err := repo.ListStatements(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("list = %v, err=%v", list, err)
	}
	if list[0].ID != "s2" {
		t.Fatalf("expected newest first, got %s", list[0].ID)
	}
}

func TestStatementNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetStatement(ctx, "ghost"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("get unknown = %v, want ErrNotFound", err)
	}
	if err := repo.SetStatementResult(ctx, "ghost", core.StatementFailed, "", 0); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("set result on unknown = %v, want ErrNotFound", err)
	}
}

func TestBaselineReplaceOnWrite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := map[core.Category]core.Money{
		core.Housing: {Cents: 85000},
		core.Food:    {Cents: 12000},
	}
	if err := repo.WriteBaseline(ctx, first); err != nil {
		t.Fatalf("write: %v", err)
	}

	second := map[core.Category]core.Money{core.Books: {Cents: 900}}
	if err := repo.WriteBaseline(ctx, second); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	got, err := repo.ReadBaseline(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[core.Books].Cents != 900 {
		t.Fatalf("baseline = %v, want only the second write", got)
	}
}
