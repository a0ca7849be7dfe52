package installer

import "github.com/sandevgo/affibot/internal/config"

// NewStorageStep selects where user summaries are kept.
func NewStorageStep() Step {
	return &choiceStep{
		title: "Where should conversation summaries be stored?",
		labels: []string{
			"SQLite (local file)",
			"PostgreSQL (e.g. Neon)",
			"In memory (lost on restart)",
		},
		values: []string{config.StorageSQLite, config.StoragePostgres, config.StorageMemory},
		onEnter: func(state *InstallState, value string) {
			state.EnvVars[keyStorageDriver] = value
		},
	}
}

// NewChannelStep selects the transports started by `affibot start`.
func NewChannelStep() Step {
	return &choiceStep{
		title:  "Select your Chat Channel:",
		labels: []string{"HTTP API", "Telegram", "HTTP API + Telegram", "Terminal only (affibot chat)"},
		values: []string{"http", "telegram", "both", "none"},
		onEnter: func(state *InstallState, value string) {
			httpOn := value == "http" || value == "both"
			tgOn := value == "telegram" || value == "both"
			state.EnvVars[keyEnableHTTP] = boolString(httpOn)
			state.EnvVars[keyEnableTelegram] = boolString(tgOn)
		},
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
