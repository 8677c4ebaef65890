package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"finplan/internal/amqp"
	"finplan/internal/core"
	"finplan/internal/ledger/memory"
	"finplan/internal/remote"
)

type fakeProcessor struct {
	result remote.ProcessResult
	err    error
	calls  int
}

func (p *fakeProcessor) ProcessStatement(_ context.Context, path, mode string) (remote.ProcessResult, error) {
	p.calls++
	if p.err != nil {
		return remote.ProcessResult{}, p.err
	}
	return p.result, nil
}

type fakeFetcher struct {
	result remote.BaselineResult
}

func (f *fakeFetcher) FetchBaseline(_ context.Context) remote.BaselineResult {
	return f.result
}

func registerStatement(t *testing.T, store *memory.Store) core.Statement {
	t.Helper()
	st := core.Statement{
		ID:         "st-1",
		Filename:   "jan.pdf",
		StoredPath: "/tmp/st-1_jan.pdf",
		Mode:       "all",
		Status:     core.StatementPending,
		UploadedAt: time.Now(),
	}
	if err := store.RegisterStatement(context.Background(), st); err != nil {
		t.Fatalf("register: %v", err)
	}
	return st
}

func TestHandleProcessMessageSuccess(t *testing.T) {
	store := memory.New()
	st := registerStatement(t, store)

	proc := &fakeProcessor{result: remote.ProcessResult{OK: true, OutputFile: "jan_categorized.csv", Rows: 42}}
	fetcher := &fakeFetcher{result: remote.BaselineResult{
		Source: remote.SourceRemote,
		Totals: map[core.Category]core.Money{core.Food: {Cents: 5000}},
	}}
	w := NewStatementWorker(store, store, proc, fetcher, nil)

	if err := w.HandleProcessMessage(context.Background(), amqp.NewStatementProcessMessage(st.ID)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, _ := store.GetStatement(context.Background(), st.ID)
	if got.Status != core.StatementProcessed || got.Rows != 42 || got.OutputFile != "jan_categorized.csv" {
		t.Fatalf("statement = %+v", got)
	}

	baseline, _ := store.ReadBaseline(context.Background())
	if baseline[core.Food].Cents != 5000 {
		t.Fatalf("baseline not refreshed: %v", baseline)
	}
}

func TestHandleProcessMessageFailureMarksAndContinues(t *testing.T) {
	store := memory.New()
	st := registerStatement(t, store)

	proc := &fakeProcessor{err: errors.New("processor unreachable")}
	w := NewStatementWorker(store, store, proc, nil, nil)

	// Returns nil so the consumer acks instead of requeueing a poison file.
	if err := w.HandleProcessMessage(context.Background(), amqp.NewStatementProcessMessage(st.ID)); err != nil {
		t.Fatalf("a processing failure must not propagate: %v", err)
	}

	got, _ := store.GetStatement(context.Background(), st.ID)
	if got.Status != core.StatementFailed {
		t.Fatalf("status = %q, want failed", got.Status)
	}
}

func TestHandleProcessMessageUnknownStatement(t *testing.T) {
	store := memory.New()
	w := NewStatementWorker(store, store, &fakeProcessor{}, nil, nil)

	if err := w.HandleProcessMessage(context.Background(), amqp.NewStatementProcessMessage("ghost")); err == nil {
		t.Fatalf("unknown statement must error")
	}
}

func TestFallbackFetchLeavesBaselineUntouched(t *testing.T) {
	store := memory.New()
	st := registerStatement(t, store)
	seed := map[core.Category]core.Money{core.Books: {Cents: 900}}
	if err := store.WriteBaseline(context.Background(), seed); err != nil {
		t.Fatalf("seed baseline: %v", err)
	}

	proc := &fakeProcessor{result: remote.ProcessResult{OK: true, Rows: 1}}
	fetcher := &fakeFetcher{result: remote.BaselineResult{Source: remote.SourceFallback, Reason: "summary endpoint unreachable"}}
	w := NewStatementWorker(store, store, proc, fetcher, nil)

	if err := w.HandleProcessMessage(context.Background(), amqp.NewStatementProcessMessage(st.ID)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	baseline, _ := store.ReadBaseline(context.Background())
	if baseline[core.Books].Cents != 900 {
		t.Fatalf("fallback fetch must not clobber the stored baseline: %v", baseline)
	}
}
