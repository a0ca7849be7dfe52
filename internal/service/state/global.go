package state

import (
	"context"

	"github.com/sandevgo/affibot/internal/core"
)

type provider interface {
	SetModel(ctx context.Context, model string) error
	GetModel() string
	Models(ctx context.Context) ([]core.Model, error)
}

// GlobalState is the process-wide settings the slash commands may change.
// Conversation state never lives here; it belongs to sessions.
type GlobalState struct {
	provider provider
}

func NewGlobalState(
	provider provider,
) *GlobalState {
	return &GlobalState{
		provider: provider,
	}
}

func (s *GlobalState) ChangeModel(ctx context.Context, model string) error {
	return s.provider.SetModel(ctx, model)
}

func (s *GlobalState) CurrentModel() string {
	return s.provider.GetModel()
}

func (s *GlobalState) AvailableModels(ctx context.Context) ([]core.Model, error) {
	return s.provider.Models(ctx)
}
