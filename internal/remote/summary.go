// Package remote holds the clients for the opaque external collaborators:
// the category-summary endpoint and the statement processor. Both speak
// plain JSON over HTTP with a single attempt and no retry; failure always
// degrades to a default value instead of propagating.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finplan/internal/core"
	"finplan/internal/log"
)

const (
	// SourceRemote marks a baseline actually fetched from the collaborator.
	SourceRemote = "remote"
	// SourceFallback marks the empty baseline used after a fetch failure.
	SourceFallback = "fallback"
)

// BaselineResult is the outcome of a category-summary fetch. Source tells
// the presentation layer whether it is looking at remote data or at the
// degraded default, and Reason carries the failure cause in the latter case.
type BaselineResult struct {
	Totals     map[core.Category]core.Money
	TotalSpent core.Money
	Source     string
	Reason     string
}

// summaryResponse mirrors the collaborator's JSON contract.
type summaryResponse struct {
	TotalsByCategory map[string]float64 `json:"totals_by_category"`
	TotalSpent       float64            `json:"total_spent"`
}

// SummaryClient fetches the externally maintained per-category baseline.
type SummaryClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

func NewSummaryClient(baseURL string, timeout time.Duration, logger *log.Logger) *SummaryClient {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SummaryClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.WithComponent(log.ComponentRemote),
	}
}

// FetchBaseline returns the remote per-category totals, or the empty
// fallback baseline when the collaborator is unreachable, answers with a
// non-2xx status, or returns undecodable JSON. It never returns an error:
// a missing baseline is a valid display state, not a failure of the caller.
func (c *SummaryClient) FetchBaseline(ctx context.Context) BaselineResult {
	if c.baseURL == "" {
		return fallback("summary endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/budget/summary", nil)
	if err != nil {
		return c.failed(ctx, err.Error())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.failed(ctx, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failed(ctx, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var body summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return c.failed(ctx, "decode summary response: "+err.Error())
	}

	totals := make(map[core.Category]core.Money, len(body.TotalsByCategory))
	for raw, dollars := range body.TotalsByCategory {
		cat := core.ParseCategory(raw)
		totals[cat] = core.Money{Cents: totals[cat].Cents + core.DollarsToCents(dollars)}
	}

	c.logger.DebugContext(ctx, "Fetched remote baseline",
		log.FieldOperation, log.OpFetch,
		"categories", len(totals),
		log.FieldAmountCents, core.DollarsToCents(body.TotalSpent))

	return BaselineResult{
		Totals:     totals,
		TotalSpent: core.Money{Cents: core.DollarsToCents(body.TotalSpent)},
		Source:     SourceRemote,
	}
}

func (c *SummaryClient) failed(ctx context.Context, reason string) BaselineResult {
	c.logger.WarnContext(ctx, "Baseline fetch failed, using empty fallback",
		log.FieldOperation, log.OpFetch,
		log.FieldError, reason)
	return fallback(reason)
}

func fallback(reason string) BaselineResult {
	return BaselineResult{
		Totals: make(map[core.Category]core.Money),
		Source: SourceFallback,
		Reason: reason,
	}
}
