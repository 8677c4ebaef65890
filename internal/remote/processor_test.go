package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempStatement(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jan.csv")
	if err := os.WriteFile(path, []byte("Date,Description,Amount\n"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestProcessStatement(t *testing.T) {
	path := writeTempStatement(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload/statement" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("mode"); got != "expenses" {
			t.Fatalf("mode = %q", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Fatalf("file part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "output_file": "jan_transactions_by_month.csv", "rows": 57}`))
	}))
	defer srv.Close()

	c := NewProcessorClient(srv.URL, 2*time.Second, nil)
	res, err := c.ProcessStatement(context.Background(), path, "expenses")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !res.OK || res.Rows != 57 || res.OutputFile == "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestProcessStatementErrors(t *testing.T) {
	path := writeTempStatement(t)

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()
		if _, err := NewProcessorClient(srv.URL, time.Second, nil).ProcessStatement(context.Background(), path, "all"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("processor rejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok": false}`))
		}))
		defer srv.Close()
		if _, err := NewProcessorClient(srv.URL, time.Second, nil).ProcessStatement(context.Background(), path, "all"); err == nil {
			t.Fatalf("expected error for ok=false")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := NewProcessorClient("http://localhost:1", time.Second, nil).ProcessStatement(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "all"); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}
