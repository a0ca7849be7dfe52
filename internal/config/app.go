package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/affibot/pkg/log"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type AppConfig struct {
	RuntimePath   string `env:"AFFI_RUNTIME_PATH" envDefault:".affibot"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`

	// Transport Flags
	EnableHTTP     bool   `env:"ENABLE_HTTP" envDefault:"true"`
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	EnableTelegram bool   `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// AdminUsernames may switch the shared model from the HTTP API or Telegram.
	AdminUsernames []string `env:"ADMIN_USERNAMES" envSeparator:","`

	// Completion calls
	CompletionMaxTokens int           `env:"COMPLETION_MAX_TOKENS" envDefault:"500"`
	CompletionTimeout   time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"60s"`

	// Context Management. Zero leaves the summary unbounded.
	MaxContextTokens   int           `env:"MAX_CONTEXT_TOKENS" envDefault:"0"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	Retry RetryConfig `envPrefix:"STORE_RETRY_"`
}

// RetryConfig bounds the retries of storage calls that failed to connect.
type RetryConfig struct {
	MaxRetries   int           `env:"MAX" envDefault:"3"`
	InitialDelay time.Duration `env:"INITIAL_DELAY" envDefault:"200ms"`
	MaxDelay     time.Duration `env:"MAX_DELAY" envDefault:"5s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetKnowledgePath() string {
	return filepath.Join(c.RuntimePath, "KNOWLEDGE.md")
}

func (c AppConfig) GetPersonaPath() string {
	return filepath.Join(c.RuntimePath, "PERSONA.md")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "affibot.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
