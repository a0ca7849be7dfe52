package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sandevgo/affibot/pkg/log"
)

const modelEnvKey = "LLM_MODEL"

type ProviderConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	// envPath is rewritten when the model changes at runtime. Empty disables persistence.
	envPath string
	mu      sync.RWMutex
}

func NewProviderConfig(ctx context.Context, envPath string) *ProviderConfig {
	c, err := ParseProviderConfig(envPath)
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	return c
}

func ParseProviderConfig(envPath string) (*ProviderConfig, error) {
	c := &ProviderConfig{envPath: envPath}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ProviderConfig) validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case "openrouter":
		if c.OpenRouterAPIKey == "" {
			return errors.New("OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "custom":
		if c.CustomOpenAIBaseURL == "" {
			return errors.New("CUSTOM_OPENAI_BASE_URL is required for the custom provider")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown llm provider: %s", c.Provider)
	}
	return nil
}

func (c *ProviderConfig) GetProvider() string {
	return c.Provider
}

func (c *ProviderConfig) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Model
}

// SetModel switches the model and persists it into the runtime .env when one exists.
func (c *ProviderConfig) SetModel(model string) error {
	if model == "" {
		return errors.New("model must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.envPath != "" {
		if err := persistEnvValue(c.envPath, modelEnvKey, model); err != nil {
			return err
		}
	}
	c.Model = model
	return nil
}

func (c *ProviderConfig) GetOpenAIAPIKey() string        { return c.OpenAIAPIKey }
func (c *ProviderConfig) GetOpenRouterAPIKey() string    { return c.OpenRouterAPIKey }
func (c *ProviderConfig) GetAnthropicAPIKey() string     { return c.AnthropicAPIKey }
func (c *ProviderConfig) GetOllamaBaseURL() string       { return c.OllamaBaseURL }
func (c *ProviderConfig) GetOllamaAPIKey() string        { return c.OllamaAPIKey }
func (c *ProviderConfig) GetCustomOpenAIBaseURL() string { return c.CustomOpenAIBaseURL }
func (c *ProviderConfig) GetCustomOpenAIAPIKey() string  { return c.CustomOpenAIAPIKey }

func persistEnvValue(path, key, value string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	values[key] = value
	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
