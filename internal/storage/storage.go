package storage

import (
	"context"
	"fmt"

	"github.com/sandevgo/affibot/internal/config"
	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/internal/storage/inmemory"
	"github.com/sandevgo/affibot/internal/storage/postgres"
	"github.com/sandevgo/affibot/internal/storage/sqlite"
	"github.com/sandevgo/affibot/pkg/log"
)

// NewGateway opens the user store selected by STORAGE_DRIVER.
func NewGateway(ctx context.Context, cfg *config.AppConfig) (core.UserGateway, error) {
	logger := log.FromCtx(ctx)

	switch cfg.StorageDriver {
	case config.StorageSQLite, "":
		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.GetDatabasePath()).Msg("sqlite store ready")
		return sqlite.NewUsers(db), nil

	case config.StoragePostgres:
		dbCfg, err := config.ParseDBConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to parse DB config: %w", err)
		}
		if err := dbCfg.Validate(); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dbCfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrConnection, err)
		}
		logger.Info().Str("host", dbCfg.Host).Str("db", dbCfg.Name).Msg("postgres store ready")
		return postgres.NewUsers(pool), nil

	case config.StorageMemory:
		logger.Warn().Msg("using in-memory store, summaries will not survive a restart")
		return inmemory.NewUsers(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}
