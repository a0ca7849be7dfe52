package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/affibot/internal/config"
)

// FinalizationStep fills in defaults for anything the user skipped
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	v := state.EnvVars

	if v[keyStorageDriver] == "" {
		v[keyStorageDriver] = config.StorageSQLite
	}
	if v[keyTelegramToken] == "" {
		v[keyEnableTelegram] = "false"
	}
	if v[keyEnableHTTP] == "" {
		v[keyEnableHTTP] = "true"
	}
	if v[keyDebug] == "" {
		v[keyDebug] = "0"
	}
	if v[keyModel] == "" {
		v[keyModel] = defaultModels[state.provider()]
	}
}
