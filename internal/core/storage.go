package core

import "context"

// UserGateway is the storage contract for user records. Every call is one
// logical unit of work that acquires and releases its own connection.
type UserGateway interface {
	UserExists(ctx context.Context, username string) (bool, error)
	// CreateUser inserts a record with an empty summary. It fails with
	// ErrDuplicateKey when the username is taken.
	CreateUser(ctx context.Context, username string) error
	// GetSummary fails with ErrNotFound when the username is unknown.
	GetSummary(ctx context.Context, username string) (string, error)
	// SetSummary overwrites the summary. It is a no-op for unknown usernames.
	SetSummary(ctx context.Context, username, summary string) error
	Close() error
}
