package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// choiceStep is a vertical menu that stores the selected option's value.
type choiceStep struct {
	title   string
	labels  []string
	values  []string
	cursor  int
	onEnter func(state *InstallState, value string)
}

func (s *choiceStep) Init() tea.Cmd {
	return nil
}

func (s *choiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.labels)-1 {
				s.cursor++
			}
		case "enter":
			s.onEnter(state, s.values[s.cursor])
			return nil, nil
		}
	}
	return s, nil
}

func (s *choiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, choice := range s.labels {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

// NewProviderStep allows selection of the AI provider
func NewProviderStep() Step {
	return &choiceStep{
		title:  "Select your AI Provider:",
		labels: []string{"OpenAI", "OpenRouter", "Anthropic", "Ollama", "Custom (OpenAI-compatible)"},
		values: []string{"openai", "openrouter", "anthropic", "ollama", "custom"},
		onEnter: func(state *InstallState, value string) {
			state.EnvVars[keyProvider] = value
		},
	}
}
