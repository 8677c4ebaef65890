package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatementPending   StatementStatus = "pending"
	StatementProcessed StatementStatus = "processed"
	StatementFailed    StatementStatus = "failed"
)

type (
	StatementStatus string

	// Statement is an uploaded bank statement handed off to the external
	// categorization service. Row extraction happens entirely on that side;
	// this record only tracks the hand-off.
	Statement struct {
		ID         string
		Filename   string
		StoredPath string
		SizeBytes  int64
		Mode       string // "all" or "expenses"
		Status     StatementStatus
		OutputFile string
		Rows       int
		UploadedAt time.Time
	}
)

var ErrUnsupportedStatement = errors.New("unsupported statement file type")

// statementExtensions lists the file types the external processor accepts.
var statementExtensions = []string{".pdf", ".csv", ".xlsx", ".xls"}

// ValidateStatementFilename checks the extension against the supported set.
func ValidateStatementFilename(name string) error {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ErrUnsupportedStatement
	}
	for _, ext := range statementExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return ErrUnsupportedStatement
}

// ValidMode normalizes the processing mode, defaulting to "all".
func ValidMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "expenses":
		return "expenses"
	default:
		return "all"
	}
}
