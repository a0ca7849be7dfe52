package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/affibot/pkg/log"
	"github.com/sandevgo/affibot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the AffiBot services",
	Long:  `Initializes and starts the configured transports (HTTP API, Telegram) and background workers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting affibot")

		app, err := newApp(ctx)
		if err != nil {
			return err
		}

		services, err := app.servers(ctx)
		if err != nil {
			return err
		}
		if len(services) == len(app.cleanups) {
			logger.Warn().Msg("no transport enabled, set ENABLE_HTTP or ENABLE_TELEGRAM")
		}

		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("affibot has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
