package installer

import (
	"strconv"
	"strings"

	"github.com/sandevgo/affibot/internal/config"
)

// Keys collected by the wizard. They match the variables read by internal/config.
const (
	keyProvider       = "LLM_PROVIDER"
	keyModel          = "LLM_MODEL"
	keyOpenAIKey      = "OPENAI_API_KEY"
	keyOpenRouterKey  = "OPENROUTER_API_KEY"
	keyAnthropicKey   = "ANTHROPIC_API_KEY"
	keyOllamaURL      = "OLLAMA_BASE_URL"
	keyOllamaKey      = "OLLAMA_API_KEY"
	keyCustomURL      = "CUSTOM_OPENAI_BASE_URL"
	keyCustomKey      = "CUSTOM_OPENAI_API_KEY"
	keyStorageDriver  = "STORAGE_DRIVER"
	keyDBHost         = "DB_HOST"
	keyDBPort         = "DB_PORT"
	keyDBName         = "DB_NAME"
	keyDBUser         = "DB_USER"
	keyDBPassword     = "DB_PASSWORD"
	keyDBSSLMode      = "DB_SSLMODE"
	keyEnableHTTP     = "ENABLE_HTTP"
	keyHTTPAddr       = "HTTP_ADDR"
	keyEnableTelegram = "ENABLE_TELEGRAM"
	keyTelegramToken  = "TELEGRAM_TOKEN"
	keyDebug          = "AFFI_DEBUG"
)

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) provider() string {
	return strings.ToLower(s.EnvVars[keyProvider])
}

func (s *InstallState) telegramEnabled() bool {
	return s.EnvVars[keyEnableTelegram] == "true"
}

// providerConfig builds the provider settings collected so far, used to
// query the model catalogue before anything is written to disk.
func (s *InstallState) providerConfig() *config.ProviderConfig {
	return &config.ProviderConfig{
		Provider:            s.provider(),
		Model:               s.EnvVars[keyModel],
		OpenAIAPIKey:        s.EnvVars[keyOpenAIKey],
		OpenRouterAPIKey:    s.EnvVars[keyOpenRouterKey],
		AnthropicAPIKey:     s.EnvVars[keyAnthropicKey],
		OllamaBaseURL:       s.EnvVars[keyOllamaURL],
		OllamaAPIKey:        s.EnvVars[keyOllamaKey],
		CustomOpenAIBaseURL: s.EnvVars[keyCustomURL],
		CustomOpenAIAPIKey:  s.EnvVars[keyCustomKey],
	}
}

// Settings is the typed form of the .env file written by the wizard.
type Settings struct {
	Debug string `env:"AFFI_DEBUG"`

	Provider            string `env:"LLM_PROVIDER"`
	Model               string `env:"LLM_MODEL"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	StorageDriver string     `env:"STORAGE_DRIVER"`
	DB            DBSettings `envPrefix:"DB_"`

	// Booleans are kept as strings so an explicit "false" is still written.
	EnableHTTP     string `env:"ENABLE_HTTP"`
	HTTPAddr       string `env:"HTTP_ADDR"`
	EnableTelegram string `env:"ENABLE_TELEGRAM"`
	TelegramToken  string `env:"TELEGRAM_TOKEN"`
}

type DBSettings struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"`
	Name     string `env:"NAME"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	SSLMode  string `env:"SSLMODE"`
}

func (s *InstallState) Settings() *Settings {
	v := s.EnvVars
	out := &Settings{
		Debug:               v[keyDebug],
		Provider:            s.provider(),
		Model:               v[keyModel],
		OpenAIAPIKey:        v[keyOpenAIKey],
		OpenRouterAPIKey:    v[keyOpenRouterKey],
		AnthropicAPIKey:     v[keyAnthropicKey],
		OllamaBaseURL:       v[keyOllamaURL],
		OllamaAPIKey:        v[keyOllamaKey],
		CustomOpenAIBaseURL: v[keyCustomURL],
		CustomOpenAIAPIKey:  v[keyCustomKey],
		StorageDriver:       v[keyStorageDriver],
		EnableHTTP:          v[keyEnableHTTP],
		HTTPAddr:            v[keyHTTPAddr],
		EnableTelegram:      v[keyEnableTelegram],
		TelegramToken:       v[keyTelegramToken],
	}
	if out.StorageDriver == config.StoragePostgres {
		port, _ := strconv.Atoi(v[keyDBPort])
		out.DB = DBSettings{
			Host:     v[keyDBHost],
			Port:     port,
			Name:     v[keyDBName],
			User:     v[keyDBUser],
			Password: v[keyDBPassword],
			SSLMode:  v[keyDBSSLMode],
		}
	}
	return out
}
