package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/sandevgo/affibot/internal/core"
)

// Users is the SQLite implementation of core.UserGateway over the chat table.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func (u *Users) UserExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := u.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM chat WHERE username = ?`, username,
		).Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count > 0, nil
}

func (u *Users) CreateUser(ctx context.Context, username string) error {
	err := u.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO chat (username, summary) VALUES (?, '')`, username,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", username, core.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (u *Users) GetSummary(ctx context.Context, username string) (string, error) {
	var summary string
	err := u.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`SELECT summary FROM chat WHERE username = ?`, username,
		).Scan(&summary)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("user %q: %w", username, core.ErrNotFound)
		}
		return "", fmt.Errorf("failed to select summary: %w", err)
	}
	return summary, nil
}

func (u *Users) SetSummary(ctx context.Context, username, summary string) error {
	err := u.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx,
			`UPDATE chat SET summary = ?, updated_at = CURRENT_TIMESTAMP WHERE username = ?`,
			summary, username,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}
	return nil
}

func (u *Users) Close() error {
	return u.db.Close()
}

// withConn scopes a single connection to one operation and always returns it to the pool.
func (u *Users) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := u.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrConnection, err)
	}
	defer conn.Close()

	return fn(conn)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
