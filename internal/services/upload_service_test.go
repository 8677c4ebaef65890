package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"finplan/internal/core"
	"finplan/internal/ledger/memory"
)

type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) PublishStatementProcess(_ context.Context, statementID string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, statementID)
	return nil
}

func TestAcceptStoresAndPublishes(t *testing.T) {
	dir := t.TempDir()
	store := memory.New()
	pub := &fakePublisher{}
	svc := NewUploadService(dir, store, pub, nil)

	st, err := svc.Accept(context.Background(), "january.pdf", "expenses", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if st.Filename != "january.pdf" || st.Mode != "expenses" || st.Status != core.StatementPending {
		t.Fatalf("statement = %+v", st)
	}
	if st.SizeBytes == 0 {
		t.Fatalf("expected a non-empty stored file")
	}
	if _, err := os.Stat(st.StoredPath); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != st.ID {
		t.Fatalf("published = %v, want [%s]", pub.published, st.ID)
	}
	if got, err := store.GetStatement(context.Background(), st.ID); err != nil || got.ID != st.ID {
		t.Fatalf("registry lookup = %+v, err=%v", got, err)
	}
}

func TestAcceptRejectsUnsupportedExtension(t *testing.T) {
	svc := NewUploadService(t.TempDir(), memory.New(), nil, nil)

	_, err := svc.Accept(context.Background(), "statement.docx", "all", strings.NewReader("hi"))
	if !errors.Is(err, core.ErrUnsupportedStatement) {
		t.Fatalf("expected ErrUnsupportedStatement, got %v", err)
	}
}

func TestAcceptStripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, memory.New(), nil, nil)

	st, err := svc.Accept(context.Background(), "../../etc/passwd.csv", "all", strings.NewReader("a,b"))
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if st.Filename != "passwd.csv" {
		t.Fatalf("filename = %q", st.Filename)
	}
	if filepath.Dir(st.StoredPath) != dir {
		t.Fatalf("stored outside upload dir: %s", st.StoredPath)
	}
}

func TestAcceptWithoutPublisherStaysPending(t *testing.T) {
	svc := NewUploadService(t.TempDir(), memory.New(), nil, nil)

	st, err := svc.Accept(context.Background(), "q1.xlsx", "", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if st.Status != core.StatementPending || st.Mode != "all" {
		t.Fatalf("statement = %+v", st)
	}
}

func TestAcceptSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewUploadService(t.TempDir(), memory.New(), pub, nil)

	st, err := svc.Accept(context.Background(), "feb.csv", "all", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("upload must not fail on publish error: %v", err)
	}
	if st.Status != core.StatementPending {
		t.Fatalf("status = %q", st.Status)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := memory.New()
	svc := NewUploadService(t.TempDir(), store, nil, nil)
	ctx := context.Background()

	first, _ := svc.Accept(ctx, "a.csv", "all", strings.NewReader("1"))
	second, _ := svc.Accept(ctx, "b.csv", "all", strings.NewReader("2"))

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("list = %v, err=%v", list, err)
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %v then %v", list[0].ID, list[1].ID)
	}
}
