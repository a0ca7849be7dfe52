package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, username, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, username string, args []string) (string, error)
}
