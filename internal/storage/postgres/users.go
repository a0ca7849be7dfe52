package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sandevgo/affibot/internal/core"
)

const uniqueViolation = "23505"

// Users is the PostgreSQL implementation of core.UserGateway. Every call
// acquires its own connection from the pool and releases it before returning.
type Users struct {
	pool *pgxpool.Pool
}

func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{pool: pool}
}

func (u *Users) UserExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := u.withConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM chat WHERE username = $1`, username,
		).Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (u *Users) CreateUser(ctx context.Context, username string) error {
	err := u.withConn(ctx, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			`INSERT INTO chat (username, summary) VALUES ($1, '')`, username,
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("user %q: %w", username, core.ErrDuplicateKey)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (u *Users) GetSummary(ctx context.Context, username string) (string, error) {
	var summary string
	err := u.withConn(ctx, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT summary FROM chat WHERE username = $1`, username,
		).Scan(&summary)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("user %q: %w", username, core.ErrNotFound)
		}
		return "", fmt.Errorf("select summary: %w", err)
	}
	return summary, nil
}

func (u *Users) SetSummary(ctx context.Context, username, summary string) error {
	err := u.withConn(ctx, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			`UPDATE chat SET summary = $1, updated_at = now() WHERE username = $2`,
			summary, username,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	return nil
}

func (u *Users) Close() error {
	u.pool.Close()
	return nil
}

func (u *Users) withConn(ctx context.Context, fn func(conn *pgxpool.Conn) error) error {
	conn, err := u.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrConnection, err)
	}
	defer conn.Release()

	if err := fn(conn); err != nil {
		if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
			return fmt.Errorf("%w: %w", core.ErrConnection, err)
		}
		return err
	}
	return nil
}
