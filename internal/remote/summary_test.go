package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finplan/internal/core"
)

func TestFetchBaselineRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/budget/summary" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totals_by_category": {"Food": 45.50, "Housing": 800, "Crypto": 10},
			"total_spent": 855.50
		}`))
	}))
	defer srv.Close()

	c := NewSummaryClient(srv.URL, 2*time.Second, nil)
	res := c.FetchBaseline(context.Background())

	if res.Source != SourceRemote {
		t.Fatalf("source = %q, want remote", res.Source)
	}
	if res.Totals[core.Food].Cents != 4550 {
		t.Fatalf("Food = %d", res.Totals[core.Food].Cents)
	}
	if res.Totals[core.Other].Cents != 1000 {
		t.Fatalf("unknown remote category should fold into Other, got %d", res.Totals[core.Other].Cents)
	}
	if res.TotalSpent.Cents != 85550 {
		t.Fatalf("total spent = %d", res.TotalSpent.Cents)
	}
}

func TestFetchBaselineFallsBack(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			res := NewSummaryClient(srv.URL, 2*time.Second, nil).FetchBaseline(context.Background())
			if res.Source != SourceFallback {
				t.Fatalf("source = %q, want fallback", res.Source)
			}
			if res.Reason == "" {
				t.Fatalf("fallback must carry a reason")
			}
			if len(res.Totals) != 0 {
				t.Fatalf("fallback baseline must be empty, got %v", res.Totals)
			}
		})
	}
}

func TestFetchBaselineUnreachable(t *testing.T) {
	// Closed server: connection refused
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	res := NewSummaryClient(srv.URL, time.Second, nil).FetchBaseline(context.Background())
	if res.Source != SourceFallback || res.Reason == "" {
		t.Fatalf("expected fallback with reason, got %+v", res)
	}
}

func TestFetchBaselineUnconfigured(t *testing.T) {
	res := NewSummaryClient("", time.Second, nil).FetchBaseline(context.Background())
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback, got %+v", res)
	}
}
