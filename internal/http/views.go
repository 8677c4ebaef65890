package http

import (
	"finplan/internal/core"
	"finplan/internal/remote"
)

// JSON views for the API. Money crosses the wire as dollars with two
// decimals, matching what the dashboard renders.

type budgetView struct {
	Total       float64       `json:"total"`
	Spent       float64       `json:"spent"`
	Remaining   float64       `json:"remaining"`
	PercentUsed float64       `json:"percent_used"`
	Severity    core.Severity `json:"severity"`
}

type categoryShareView struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Share    float64 `json:"share"`
}

type baselineView struct {
	Source string `json:"source"`
	Reason string `json:"reason,omitempty"`
}

type overviewView struct {
	Budget     budgetView          `json:"budget"`
	Categories []categoryShareView `json:"categories"`
	Baseline   baselineView        `json:"baseline"`
}

type expenseView struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

type statementView struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	SizeBytes  int64  `json:"size_bytes"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	OutputFile string `json:"output_file,omitempty"`
	Rows       int    `json:"rows"`
	UploadedAt string `json:"uploaded_at"`
}

type sessionView struct {
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

type errorView struct {
	Error string `json:"error"`
}

func newOverviewView(budget core.Budget, shares []core.CategoryShare, baseline remote.BaselineResult) overviewView {
	categories := make([]categoryShareView, 0, len(shares))
	for _, s := range shares {
		categories = append(categories, categoryShareView{
			Category: s.Category.String(),
			Amount:   s.Amount.Dollars(),
			Share:    float64(s.ShareHundredths) / 100.0,
		})
	}
	return overviewView{
		Budget: budgetView{
			Total:       budget.Total.Dollars(),
			Spent:       budget.Spent.Dollars(),
			Remaining:   budget.Remaining.Dollars(),
			PercentUsed: budget.PercentUsed(),
			Severity:    budget.Severity(),
		},
		Categories: categories,
		Baseline:   baselineView{Source: baseline.Source, Reason: baseline.Reason},
	}
}

func newExpenseView(r core.ExpenseRecord) expenseView {
	return expenseView{
		ID:          r.ID,
		Category:    r.Category.String(),
		Amount:      r.Amount.Dollars(),
		Date:        r.Date.String(),
		Description: r.Description,
	}
}

func newStatementView(st core.Statement) statementView {
	return statementView{
		ID:         st.ID,
		Filename:   st.Filename,
		SizeBytes:  st.SizeBytes,
		Mode:       st.Mode,
		Status:     string(st.Status),
		OutputFile: st.OutputFile,
		Rows:       st.Rows,
		UploadedAt: st.UploadedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
