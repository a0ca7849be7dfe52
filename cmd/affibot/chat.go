package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sandevgo/affibot/internal/transport/cli"
	"github.com/sandevgo/affibot/pkg/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:          "chat",
	Short:        "Chat with the advisor in the terminal",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.close(context.WithoutCancel(ctx))

		rl, err := cli.NewReadLine(app.cfg, app.sessions, app.assistant, app.localRouter)
		if err != nil {
			return err
		}
		defer func() {
			if err := rl.Shutdown(ctx); err != nil {
				log.FromCtx(ctx).Warn().Err(err).Msg("failed to close readline")
			}
		}()

		return rl.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
