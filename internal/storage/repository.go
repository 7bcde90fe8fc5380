// Package storage implements the SQLite persistence layer.
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

	"fintrack/internal/core"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	_ "modernc.org/sqlite"
)

// Repository wraps the database handle. It is created once in main and
// passed explicitly to everything that needs it.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks database liveness for readiness probes.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateExpense persists a new expense. The id and timestamps are filled in
// on the passed record.
func (r *Repository) CreateExpense(ctx context.Context, e *core.Expense) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, title, amount_cents, category, date, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Title, e.Amount.Cents, string(e.Category), e.Date, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"user_id", e.UserID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	return nil
}

// GetExpense returns the expense with the given id owned by userID. A record
// owned by a different user resolves to core.ErrNotFound, identical to a
// nonexistent id.
func (r *Repository) GetExpense(ctx context.Context, userID int64, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, amount_cents, category, date, notes, created_at, updated_at
		 FROM expenses WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ExpenseFilter restricts ListExpenses. Zero values mean "no restriction";
// From and To are inclusive.
type ExpenseFilter struct {
	Category core.Category
	From     time.Time
	To       time.Time
}

// ListExpenses returns the user's expenses matching the filter, most recent
// first.
func (r *Repository) ListExpenses(ctx context.Context, userID int64, f ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT id, user_id, title, amount_cents, category, date, notes, created_at, updated_at
		 FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, string(f.Category))
	}
	if !f.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.To)
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense applies a partial update to the user's expense and returns
// the updated record. Fields not present in the patch keep their prior
// values; the merged record is re-validated before the write.
func (r *Repository) UpdateExpense(ctx context.Context, userID int64, id string, patch core.ExpensePatch) (core.Expense, error) {
	e, err := r.GetExpense(ctx, userID, id)
	if err != nil {
		return core.Expense{}, err
	}

	patch.Apply(&e)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount_cents = ?, category = ?, date = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		e.Title, e.Amount.Cents, string(e.Category), e.Date, e.Notes, e.UpdatedAt, e.ID, userID,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return e, nil
}

// DeleteExpense permanently removes the user's expense. Missing or
// foreign-owned ids both report core.ErrNotFound.
func (r *Repository) DeleteExpense(ctx context.Context, userID int64, id string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// UpsertBudget writes the budget for (user, month) as a single conditional
// insert, so concurrent upserts on the same key never produce two rows.
func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, month, amount_cents, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, month) DO UPDATE SET
		   amount_cents = excluded.amount_cents,
		   updated_at = excluded.updated_at`,
		b.UserID, b.Month, b.Amount.Cents, time.Now(),
	)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget upserted",
		"user_id", b.UserID,
		"month", b.Month,
		"amount_cents", b.Amount.Cents)

	return b, nil
}

// GetBudget returns the user's budget for the month. A missing row yields a
// zero-amount placeholder, never an error.
func (r *Repository) GetBudget(ctx context.Context, userID int64, month string) (core.Budget, error) {
	b := core.Budget{UserID: userID, Month: month}
	err := r.db.QueryRowContext(ctx,
		"SELECT amount_cents FROM budgets WHERE user_id = ? AND month = ?",
		userID, month,
	).Scan(&b.Amount.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{UserID: userID, Month: month}, nil
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// MonthlySummary aggregates the user's expenses inside now's calendar month.
// The total and the category breakdown are two independent scans run
// concurrently; they are not a consistent snapshot under concurrent writes.
func (r *Repository) MonthlySummary(ctx context.Context, userID int64, now time.Time) (core.MonthlySummary, error) {
	start, end := core.MonthWindow(now)
	summary := core.NewMonthlySummary()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := r.db.QueryRowContext(gctx,
			`SELECT COALESCE(SUM(amount_cents), 0), COUNT(*)
			 FROM expenses WHERE user_id = ? AND date >= ? AND date <= ?`,
			userID, start, end,
		).Scan(&summary.TotalSpent.Cents, &summary.TotalCount)
		if err != nil {
			return fmt.Errorf("sum month expenses: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := r.db.QueryContext(gctx,
			`SELECT category, SUM(amount_cents)
			 FROM expenses WHERE user_id = ? AND date >= ? AND date <= ?
			 GROUP BY category`,
			userID, start, end,
		)
		if err != nil {
			return fmt.Errorf("group month expenses: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var cat string
			var cents int64
			if err := rows.Scan(&cat, &cents); err != nil {
				return fmt.Errorf("scan category sum: %w", err)
			}
			summary.CategoryBreakdown[core.Category(cat)] = core.Money{Cents: cents}
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return core.MonthlySummary{}, err
	}
	return summary, nil
}

// CreateUser inserts a new account and returns it.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	now := time.Now()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, passwordHash, now,
	)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user insert id: %w", err)
	}
	return core.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// GetUserByUsername returns the account with the given username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// CreateSession stores a bearer token for the user.
func (r *Repository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)",
		token, userID, expiresAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetUserByToken resolves a bearer token to its user. Expired or unknown
// tokens report core.ErrNotFound.
func (r *Repository) GetUserByToken(ctx context.Context, token string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.username, u.password_hash, u.created_at
		 FROM sessions s JOIN users u ON s.user_id = u.id
		 WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now(),
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by token: %w", err)
	}
	return u, nil
}

// DeleteSession invalidates a bearer token.
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions sweeps out sessions past their expiry. Called once
// at startup; there is no background sweeper.
func (r *Repository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	var category string
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount.Cents, &category, &e.Date, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(category)
	return e, nil
}
