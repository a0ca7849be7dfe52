package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/sandevgo/affibot/internal/core"
)

// maxListedModels keeps /model list readable in a chat window.
const maxListedModels = 20

type ModelCommand struct {
	cfg       core.ProviderConfig
	state     core.GlobalState
	canChange Access
	formatter *ResponseFormatter
}

func NewModelCommand(
	cfg core.ProviderConfig,
	state core.GlobalState,
	canChange Access,
) *ModelCommand {
	if canChange == nil {
		canChange = Admins(nil)
	}
	return &ModelCommand{
		cfg:       cfg,
		state:     state,
		canChange: canChange,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show, list or change the completion model"
}

func (c *ModelCommand) Execute(ctx context.Context, username string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Current Model"),
			c.formatter.Label("Provider", c.cfg.GetProvider()),
			c.formatter.Label("Model", c.state.CurrentModel()),
			c.formatter.Usage("/model [model] | /model list"),
			c.formatter.Examples([]string{
				"/model gpt-4o-mini",
				"/model gpt-4o",
				"/model list",
			}),
		), nil
	}

	if args[0] == "list" {
		return c.list(ctx)
	}

	// The model is shared by every user, so switching it is an admin action.
	if !c.canChange(username) {
		return "", core.ErrNotAllowed
	}

	if err := c.state.ChangeModel(ctx, args[0]); err != nil {
		return "", fmt.Errorf("failed to set model: %w", err)
	}

	return c.formatter.Success(fmt.Sprintf("Model changed to: `%s/%s`", c.cfg.GetProvider(), c.state.CurrentModel())), nil
}

func (c *ModelCommand) list(ctx context.Context) (string, error) {
	models, err := c.state.AvailableModels(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list models: %w", err)
	}
	if len(models) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Available Models"),
			c.formatter.Tip("The provider did not report any models"),
		), nil
	}

	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

	items := make([]string, 0, maxListedModels)
	for i, m := range models {
		if i == maxListedModels {
			break
		}
		items = append(items, fmt.Sprintf("`%s`", m.ID))
	}

	sections := []string{
		c.formatter.Info("Available Models"),
		c.formatter.Label("Total", fmt.Sprintf("%d", len(models))),
		c.formatter.List(items),
	}
	if len(models) > maxListedModels {
		sections = append(sections, c.formatter.Tip(fmt.Sprintf("Showing the first %d", maxListedModels)))
	}
	return c.formatter.Combine(sections...), nil
}
