package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finplan/internal/core"
	"finplan/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements the full set of ledger ports on SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendExpense implements ledger.ExpenseAppender.
func (r *SQLiteRepository) AppendExpense(ctx context.Context, e core.ExpenseRecord) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, category, amount_cents, date, description) VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Category), e.Amount.Cents, e.Date.String(), e.Description)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", string(e.Category))

	return nil
}

// ListExpenses implements ledger.ExpenseLister. Rows come back in insertion
// order; display sorting stays in the aggregation layer.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount_cents, date, description FROM expenses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var (
			e        core.ExpenseRecord
			category string
			cents    int64
			date     string
		)
		if err := rows.Scan(&e.ID, &category, &cents, &date, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category = core.ParseCategory(category)
		e.Amount = core.Money{Cents: cents}
		if d, err := core.ParseDate(date); err == nil {
			e.Date = d
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// RegisterStatement implements ledger.StatementRegistry.
func (r *SQLiteRepository) RegisterStatement(ctx context.Context, st core.Statement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO statements (id, filename, stored_path, size_bytes, mode, status, output_file, row_count, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Filename, st.StoredPath, st.SizeBytes, st.Mode, string(st.Status), st.OutputFile, st.Rows,
		st.UploadedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetStatement(ctx context.Context, id string) (core.Statement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, filename, stored_path, size_bytes, mode, status, output_file, row_count, uploaded_at
		 FROM statements WHERE id = ?`, id)
	st, err := scanStatement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Statement{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Statement{}, fmt.Errorf("get statement: %w", err)
	}
	return st, nil
}

// ListStatements implements ledger.StatementRegistry, newest-first.
func (r *SQLiteRepository) ListStatements(ctx context.Context) ([]core.Statement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, filename, stored_path, size_bytes, mode, status, output_file, row_count, uploaded_at
		 FROM statements ORDER BY uploaded_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var out []core.Statement
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) SetStatementResult(ctx context.Context, id string, status core.StatementStatus, outputFile string, rowCount int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE statements SET status = ?, output_file = ?, row_count = ? WHERE id = ?`,
		string(status), outputFile, rowCount, id)
	if err != nil {
		return fmt.Errorf("update statement: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	slog.InfoContext(ctx, "Statement result recorded",
		"statement_id", id,
		"status", string(status),
		"row_count", rowCount)

	return nil
}

// ReadBaseline implements ledger.BaselineStore.
func (r *SQLiteRepository) ReadBaseline(ctx context.Context) (map[core.Category]core.Money, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, amount_cents FROM baseline_totals`)
	if err != nil {
		return nil, fmt.Errorf("query baseline: %w", err)
	}
	defer rows.Close()

	out := make(map[core.Category]core.Money)
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan baseline row: %w", err)
		}
		cat := core.ParseCategory(category)
		out[cat] = core.Money{Cents: out[cat].Cents + cents}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate baseline: %w", err)
	}
	return out, nil
}

// WriteBaseline replaces the stored baseline wholesale inside a transaction.
func (r *SQLiteRepository) WriteBaseline(ctx context.Context, totals map[core.Category]core.Money) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin baseline tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM baseline_totals`); err != nil {
		return fmt.Errorf("clear baseline: %w", err)
	}
	for cat, m := range totals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO baseline_totals (category, amount_cents) VALUES (?, ?)`,
			string(cat), m.Cents); err != nil {
			return fmt.Errorf("insert baseline row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit baseline: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatement(row rowScanner) (core.Statement, error) {
	var (
		st       core.Statement
		status   string
		uploaded string
	)
	if err := row.Scan(&st.ID, &st.Filename, &st.StoredPath, &st.SizeBytes, &st.Mode, &status, &st.OutputFile, &st.Rows, &uploaded); err != nil {
		return core.Statement{}, err
	}
	st.Status = core.StatementStatus(status)
	if t, err := time.Parse(time.RFC3339, uploaded); err == nil {
		st.UploadedAt = t
	}
	return st, nil
}
