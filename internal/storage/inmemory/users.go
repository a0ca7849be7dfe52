package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandevgo/affibot/internal/core"
)

// Users keeps user records in process memory. Nothing survives a restart.
type Users struct {
	mu      sync.RWMutex
	records map[string]core.UserRecord
	closed  bool
}

func NewUsers() *Users {
	return &Users{records: make(map[string]core.UserRecord)}
}

func (u *Users) UserExists(ctx context.Context, username string) (bool, error) {
	if err := u.check(ctx); err != nil {
		return false, err
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.records[username]
	return ok, nil
}

func (u *Users) CreateUser(ctx context.Context, username string) error {
	if err := u.check(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.records[username]; ok {
		return fmt.Errorf("user %q: %w", username, core.ErrDuplicateKey)
	}

	now := time.Now().UTC()
	u.records[username] = core.UserRecord{
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (u *Users) GetSummary(ctx context.Context, username string) (string, error) {
	if err := u.check(ctx); err != nil {
		return "", err
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	rec, ok := u.records[username]
	if !ok {
		return "", fmt.Errorf("user %q: %w", username, core.ErrNotFound)
	}
	return rec.Summary, nil
}

func (u *Users) SetSummary(ctx context.Context, username, summary string) error {
	if err := u.check(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	rec, ok := u.records[username]
	if !ok {
		return nil
	}
	rec.Summary = summary
	rec.UpdatedAt = time.Now().UTC()
	u.records[username] = rec
	return nil
}

func (u *Users) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed = true
	return nil
}

func (u *Users) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrConnection, err)
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.closed {
		return fmt.Errorf("%w: store closed", core.ErrConnection)
	}
	return nil
}
