package command

import (
	"github.com/sandevgo/affibot/internal/core"
)

func NewCommands(
	cfg core.ProviderConfig,
	state core.GlobalState,
	store core.ContextStore,
	canChange Access,
) []core.Command {
	return []core.Command{
		NewModelCommand(cfg, state, canChange),
		NewSummaryCommand(store),
	}
}
