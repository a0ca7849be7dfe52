package storage

import (
	"context"
	"testing"

	"github.com/sandevgo/affibot/internal/config"
	"github.com/sandevgo/affibot/internal/storage/inmemory"
	"github.com/sandevgo/affibot/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.AppConfig{RuntimePath: t.TempDir(), StorageDriver: config.StorageSQLite}
		gw, err := NewGateway(ctx, cfg)
		require.NoError(t, err)
		defer gw.Close()
		assert.IsType(t, &sqlite.Users{}, gw)
		assert.FileExists(t, cfg.GetDatabasePath())
	})

	t.Run("memory", func(t *testing.T) {
		gw, err := NewGateway(ctx, &config.AppConfig{StorageDriver: config.StorageMemory})
		require.NoError(t, err)
		assert.IsType(t, &inmemory.Users{}, gw)
	})

	t.Run("postgres without settings", func(t *testing.T) {
		t.Setenv("DB_USER", "")
		t.Setenv("DB_NAME", "")
		_, err := NewGateway(ctx, &config.AppConfig{StorageDriver: config.StoragePostgres})
		require.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewGateway(ctx, &config.AppConfig{StorageDriver: "redis"})
		require.Error(t, err)
	})
}
