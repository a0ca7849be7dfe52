package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/affibot/internal/config"
	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/internal/observability"
	"github.com/sandevgo/affibot/internal/providers/llm"
	"github.com/sandevgo/affibot/internal/service/assistant"
	"github.com/sandevgo/affibot/internal/service/command"
	"github.com/sandevgo/affibot/internal/service/memory"
	"github.com/sandevgo/affibot/internal/service/session"
	"github.com/sandevgo/affibot/internal/service/state"
	"github.com/sandevgo/affibot/internal/storage"
	"github.com/sandevgo/affibot/internal/transport/httpapi"
	"github.com/sandevgo/affibot/internal/transport/telegram"
	"github.com/sandevgo/affibot/pkg/keylock"
	"github.com/sandevgo/affibot/pkg/log"
	"github.com/sandevgo/affibot/pkg/srv"
)

const janitorInterval = time.Minute

// app is the object graph shared by every transport.
type app struct {
	cfg       *config.AppConfig
	metrics   *observability.Metrics
	sessions  *session.Manager
	assistant *assistant.Assistant
	cleanups  []srv.Service

	router core.CmdRouter
	// localRouter serves the terminal, whose operator owns the process.
	localRouter core.CmdRouter
}

func newApp(ctx context.Context) (*app, error) {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	// 1. Configuration
	appCfg, err := config.ParseAppConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	providerCfg, err := config.ParseProviderConfig(appCfg.GetEnvPath())
	if err != nil {
		return nil, fmt.Errorf("failed to parse provider config: %w", err)
	}

	a := &app{cfg: appCfg, metrics: observability.NewMetrics()}

	// 2. Storage
	gateway, err := storage.NewGateway(ctx, appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.cleanups = append(a.cleanups, srv.NewCleanup("storage", gateway.Close))

	retryCfg := memory.NewRetryConfig(appCfg.Retry.MaxRetries, appCfg.Retry.InitialDelay, appCfg.Retry.MaxDelay)
	mem := memory.NewMemory(gateway, retryCfg)

	// 3. AI Provider
	aiProvider, err := llm.NewDynamicProvider(ctx, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	// 4. Commands
	globalState := state.NewGlobalState(aiProvider)
	a.router = command.New(command.NewCommands(providerCfg, globalState, mem, command.Admins(appCfg.AdminUsernames)))
	a.localRouter = command.New(command.NewCommands(providerCfg, globalState, mem, command.AllowAll))

	// 5. Sessions and the assistant share one lock per username
	locks := keylock.New()
	a.sessions = session.NewManager(mem, locks, appCfg.SessionIdleTimeout)
	a.sessions.SetActiveHook(func(active int) {
		a.metrics.ActiveSessions.Set(float64(active))
	})
	a.sessions.StartJanitor(ctx, janitorInterval)

	a.assistant = assistant.NewAssistant(
		appCfg,
		aiProvider,
		mem,
		memory.NewSysPrompt(appCfg),
		locks,
		a.metrics,
	)

	logger.Info().
		Str("storage", appCfg.StorageDriver).
		Str("provider", providerCfg.GetProvider()).
		Str("model", aiProvider.GetModel()).
		Msg("affibot initialized")

	return a, nil
}

// servers returns the enabled transports followed by the cleanups, so that
// reverse-order shutdown stops the transports before the store closes.
func (a *app) servers(ctx context.Context) ([]srv.Service, error) {
	services := append([]srv.Service{}, a.cleanups...)

	if a.cfg.EnableHTTP {
		services = append(services, httpapi.New(a.cfg.HTTPAddr, a.sessions, a.assistant, a.router, a.metrics))
	}

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.sessions, a.assistant, a.router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func (a *app) close(ctx context.Context) {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		if err := a.cleanups[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("cleanup failed")
		}
	}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
