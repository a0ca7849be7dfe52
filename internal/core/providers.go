package core

import "context"

type CompletionRequest struct {
	SystemPrompt string
	UserContent  string
	MaxTokens    int
}

// CompletionService is the opaque text-completion capability. Implementations
// wrap every failure with ErrGeneration.
type CompletionService interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type AIProvider interface {
	CompletionService
	Models(ctx context.Context) ([]Model, error)
}
