package core

import "context"

// ContextStore bootstraps users and loads or saves their rolling summary.
type ContextStore interface {
	EnsureUser(ctx context.Context, username string) error
	LoadContext(ctx context.Context, username string) (string, error)
	SaveContext(ctx context.Context, username, summary string) error
}
