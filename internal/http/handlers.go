package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"finplan/internal/core"
	"finplan/internal/log"
	"finplan/internal/remote"
	"finplan/internal/services"
	"finplan/internal/session"
)

// maxUploadBytes caps statement uploads at 20 MiB.
const maxUploadBytes = 20 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.lister.ListExpenses(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "ledger unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess, err := s.sessions.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	s.logger.InfoContext(r.Context(), "Session opened",
		log.FieldOperation, log.OpLogin,
		"email", sess.Email)

	writeJSON(w, http.StatusOK, sessionView{
		Email:     sess.Email,
		ExpiresAt: sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		s.sessions.Logout(cookie.Value)
		s.logger.InfoContext(r.Context(), "Session closed", log.FieldOperation, log.OpLogout)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// resolveBaseline returns the cached summary, fetching on a miss. When the
// fetch degrades to fallback, the worker's last stored totals stand in so
// the dashboard keeps showing the most recent known numbers; the source
// stays fallback so the UI can flag the degraded state. Fallback results are
// not cached, the next read retries the collaborator.
func (s *Server) resolveBaseline(r *http.Request) remote.BaselineResult {
	if cached, ok := s.baselineCache.Get(baselineCacheKey); ok {
		return cached
	}

	res := s.fetcher.FetchBaseline(r.Context())
	if res.Source == remote.SourceRemote {
		s.baselineCache.Set(baselineCacheKey, res)
		return res
	}

	if s.baseline != nil {
		if stored, err := s.baseline.ReadBaseline(r.Context()); err == nil && len(stored) > 0 {
			res.Totals = stored
		}
	}
	return res
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	records, err := s.lister.ListExpenses(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load expenses",
			log.FieldOperation, log.OpList,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	baseline := s.resolveBaseline(r)
	totals := core.ComputeCategoryTotals(records, baseline.Totals)
	budget := core.ComputeBudget(totals, core.Money{Cents: s.cfg.MonthlyBudgetCents()})
	shares := core.ComputeCategoryShares(totals, budget.Spent)

	writeJSON(w, http.StatusOK, newOverviewView(budget, shares, baseline))
}

type createExpenseRequest struct {
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	record, err := s.expenses.Create(r.Context(), services.ExpenseCandidate{
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store expense")
		return
	}

	writeJSON(w, http.StatusCreated, newExpenseView(record))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	records, err := s.expenses.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	views := make([]expenseView, 0, len(records))
	for _, rec := range records {
		views = append(views, newExpenseView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	st, err := s.uploads.Accept(r.Context(), header.Filename, r.FormValue("mode"), file)
	if err != nil {
		if errors.Is(err, core.ErrUnsupportedStatement) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store statement")
		return
	}

	writeJSON(w, http.StatusAccepted, newStatementView(st))
}

func (s *Server) handleListStatements(w http.ResponseWriter, r *http.Request) {
	statements, err := s.uploads.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load statements")
		return
	}

	views := make([]statementView, 0, len(statements))
	for _, st := range statements {
		views = append(views, newStatementView(st))
	}
	writeJSON(w, http.StatusOK, views)
}
