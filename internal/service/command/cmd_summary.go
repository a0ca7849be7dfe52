package command

import (
	"context"

	"github.com/sandevgo/affibot/internal/core"
)

// SummaryCommand shows what the assistant currently remembers about the user.
type SummaryCommand struct {
	store     core.ContextStore
	formatter *ResponseFormatter
}

func NewSummaryCommand(store core.ContextStore) *SummaryCommand {
	return &SummaryCommand{
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *SummaryCommand) Name() string {
	return "summary"
}

func (c *SummaryCommand) Description() string {
	return "Show the stored conversation summary"
}

func (c *SummaryCommand) Execute(ctx context.Context, username string, args []string) (string, error) {
	summary, err := c.store.LoadContext(ctx, username)
	if err != nil {
		return "", err
	}

	if summary == "" {
		return c.formatter.Combine(
			c.formatter.Info("Conversation Summary"),
			c.formatter.Tip("Nothing remembered yet. Ask a question to start."),
		), nil
	}

	return c.formatter.Combine(
		c.formatter.Info("Conversation Summary"),
		c.formatter.Quote(summary),
	), nil
}
