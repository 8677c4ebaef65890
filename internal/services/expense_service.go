package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"finplan/internal/core"
	"finplan/internal/ledger"
	"finplan/internal/log"
)

// ErrValidation wraps every submission-gate rejection so the HTTP layer can
// answer 422 with the specific message instead of silently discarding the
// candidate.
var ErrValidation = errors.New("validation failed")

// ExpenseCandidate is a user-submitted expense before the gate: raw text
// fields exactly as they arrive from the form.
type ExpenseCandidate struct {
	Category    string
	Amount      string
	Date        string
	Description string
}

// ExpenseService is the submission gate in front of the expense ledger.
type ExpenseService struct {
	appender ledger.ExpenseAppender
	lister   ledger.ExpenseLister
	logger   *log.Logger
}

func NewExpenseService(appender ledger.ExpenseAppender, lister ledger.ExpenseLister, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExpenseService{
		appender: appender,
		lister:   lister,
		logger:   logger.WithComponent(log.ComponentExpense),
	}
}

// Create admits a candidate to the ledger or rejects it with a wrapped
// ErrValidation. Admission requires amount, date and description all present
// and parsable; an unparsable amount counts as missing. The category is
// never a rejection cause: unknown labels fold into Other.
func (s *ExpenseService) Create(ctx context.Context, c ExpenseCandidate) (core.ExpenseRecord, error) {
	if strings.TrimSpace(c.Description) == "" {
		return core.ExpenseRecord{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if strings.TrimSpace(c.Amount) == "" {
		return core.ExpenseRecord{}, fmt.Errorf("%w: amount is required", ErrValidation)
	}
	cents, err := core.ParseDecimalToCents(c.Amount)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("%w: amount %q is not a valid decimal", ErrValidation, c.Amount)
	}
	if strings.TrimSpace(c.Date) == "" {
		return core.ExpenseRecord{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	date, err := core.ParseDate(c.Date)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("%w: date %q is not a valid YYYY-MM-DD date", ErrValidation, c.Date)
	}

	record := core.ExpenseRecord{
		ID:          uuid.NewString(),
		Category:    core.ParseCategory(c.Category),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: strings.TrimSpace(c.Description),
	}
	if err := record.Validate(); err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.appender.AppendExpense(ctx, record); err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("append expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense admitted",
		log.FieldOperation, log.OpCreate,
		log.FieldExpenseID, record.ID,
		log.FieldCategory, record.Category.String(),
		log.FieldAmountCents, record.Amount.Cents)

	return record, nil
}

// List returns all records sorted for display, newest date first.
func (s *ExpenseService) List(ctx context.Context) ([]core.ExpenseRecord, error) {
	records, err := s.lister.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return core.SortByDateDesc(records), nil
}
