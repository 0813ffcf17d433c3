// Package store provides the SQLite-backed persistence for users and expenses.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/shopspring/decimal"
)

// Store owns the on-disk database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at the given path and applies migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, wrap("create db dir", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, wrap("migrate", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, wrap("open", err)
	}
	// Single writer: one connection serialises every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, wrap("ping", err)
	}

	slog.Debug("database opened", "component", "store", "path", dbPath)
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CreateUser inserts a user. Returns ErrDuplicate if the username is taken.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (model.User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, now.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrDuplicate
		}
		return model.User{}, wrap("insert user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, wrap("insert user", err)
	}
	return model.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now.Truncate(time.Second)}, nil
}

// UserByUsername looks a user up by name, ignoring case.
func (s *Store) UserByUsername(ctx context.Context, username string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// UserByID looks a user up by id.
func (s *Store) UserByID(ctx context.Context, id int64) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, wrap("select user", err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return u, nil
}

// CreateExpense inserts an expense and returns its id.
func (s *Store) CreateExpense(ctx context.Context, e model.Expense) (int64, error) {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount, category, date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.StringFixed(2), e.Category, e.Date.Format(model.DateLayout),
		e.Note, created.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, wrap("insert expense", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("insert expense", err)
	}
	return id, nil
}

// ListExpenses returns a user's expenses matching f, ordered by date then id.
func (s *Store) ListExpenses(ctx context.Context, userID int64, f model.Filter) ([]model.Expense, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if f.Range != nil {
		if !f.Range.From.IsZero() {
			where = append(where, "date >= ?")
			args = append(args, f.Range.From.Format(model.DateLayout))
		}
		if !f.Range.To.IsZero() {
			where = append(where, "date <= ?")
			args = append(args, f.Range.To.Format(model.DateLayout))
		}
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		where = append(where, "category = ?")
		args = append(args, c)
	}

	query := fmt.Sprintf(`SELECT id, user_id, amount, category, date, note, created_at
		FROM expenses WHERE %s ORDER BY date ASC, id ASC`, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("list expenses", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Expense
	for rows.Next() {
		var (
			e                     model.Expense
			amount, date, created string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &amount, &e.Category, &date, &e.Note, &created); err != nil {
			return nil, wrap("scan expense", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, wrap("decode amount", err)
		}
		if e.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return nil, wrap("decode date", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list expenses", err)
	}
	return out, nil
}

// Categories returns the distinct categories a user has recorded, sorted.
func (s *Store) Categories(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM expenses WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, wrap("list categories", err)
	}
	defer func() { _ = rows.Close() }()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, wrap("scan category", err)
		}
		cats = append(cats, c)
	}
	return cats, wrap("list categories", rows.Err())
}

// ExpenseCount returns the number of expenses recorded by a user.
func (s *Store) ExpenseCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE user_id = ?`, userID).Scan(&n)
	return n, wrap("count expenses", err)
}
