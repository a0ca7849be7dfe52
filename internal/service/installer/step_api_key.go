package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// APIKeyStep collects provider-specific API keys (optional for Ollama and custom endpoints)
type APIKeyStep struct {
	input      textinput.Model
	provider   string
	envKey     string
	title      string
	isOptional bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.provider = state.provider()

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch s.provider {
	case "anthropic":
		s.envKey, s.title = keyAnthropicKey, "Anthropic API Key"
		s.input.Placeholder = "sk-ant-..."
	case "openai":
		s.envKey, s.title = keyOpenAIKey, "OpenAI API Key"
		s.input.Placeholder = "sk-..."
	case "openrouter":
		s.envKey, s.title = keyOpenRouterKey, "OpenRouter API Key"
		s.input.Placeholder = "sk-or-v1-..."
	case "ollama":
		s.envKey, s.title, s.isOptional = keyOllamaKey, "Ollama API Key", true
	case "custom":
		s.envKey, s.title, s.isOptional = keyCustomKey, "API Key", true
	default:
		return false
	}

	if s.isOptional {
		s.input.Placeholder = "Optional - press Enter to skip"
		s.input.EchoMode = textinput.EchoNormal
	}
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.envKey == "" {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := s.input.Value()
		if val == "" && !s.isOptional {
			return s, cmd
		}
		state.EnvVars[s.envKey] = val
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.envKey == "" {
		return "Loading...\n"
	}

	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional - press Enter to skip)"
	}

	return fmt.Sprintf("Enter your %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.title, optionalHint, s.input.View())
}
