package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/pkg/log"
	"github.com/sandevgo/affibot/pkg/retry"
)

// Memory bootstraps users and moves their rolling summary in and out of the
// store. Only connection failures are retried.
type Memory struct {
	store   core.UserGateway
	retrier *retry.Retrier
}

func NewMemory(store core.UserGateway, retryCfg *retry.Config) *Memory {
	cfg := *retryCfg
	cfg.ShouldRetry = func(err error) bool {
		return errors.Is(err, core.ErrConnection)
	}
	return &Memory{
		store:   store,
		retrier: retry.NewRetrier(&cfg),
	}
}

// NewRetryConfig maps the STORE_RETRY_* settings onto the retrier.
func NewRetryConfig(maxRetries int, initial, maxDelay time.Duration) *retry.Config {
	return &retry.Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2,
		InitialDelay:  initial,
		MaxDelay:      maxDelay,
		Jitter:        initial / 4,
	}
}

// EnsureUser creates the user record on first sight. A concurrent creator
// winning the race is not an error.
func (m *Memory) EnsureUser(ctx context.Context, username string) error {
	if strings.TrimSpace(username) == "" {
		return core.ErrInvalidUsername
	}

	var exists bool
	err := m.do(ctx, "user_exists", func() error {
		var err error
		exists, err = m.store.UserExists(ctx, username)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil
	}

	err = m.do(ctx, "create_user", func() error {
		return m.store.CreateUser(ctx, username)
	})
	if err != nil && !errors.Is(err, core.ErrDuplicateKey) {
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.FromCtx(ctx).Info().Str(log.FieldUsername, username).Msg("user bootstrapped")
	return nil
}

func (m *Memory) LoadContext(ctx context.Context, username string) (string, error) {
	var summary string
	err := m.do(ctx, "get_summary", func() error {
		var err error
		summary, err = m.store.GetSummary(ctx, username)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to load context: %w", err)
	}
	return summary, nil
}

// SaveContext replaces the stored summary wholesale.
func (m *Memory) SaveContext(ctx context.Context, username, summary string) error {
	err := m.do(ctx, "set_summary", func() error {
		return m.store.SetSummary(ctx, username, summary)
	})
	if err != nil {
		return fmt.Errorf("failed to save context: %w", err)
	}
	return nil
}

func (m *Memory) do(ctx context.Context, op string, fn retry.Operation) error {
	attempt := 0
	return m.retrier.Do(ctx, func() error {
		attempt++
		err := fn()
		if err != nil && errors.Is(err, core.ErrConnection) {
			log.FromCtx(ctx).Warn().
				Err(err).
				Str("op", op).
				Int("attempt", attempt).
				Msg("store unreachable")
		}
		return err
	})
}
