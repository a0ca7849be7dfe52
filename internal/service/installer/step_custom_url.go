package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// textStep asks for a single value. It is skipped when skip reports true and
// falls back to the placeholder when the input is left empty and optional.
type textStep struct {
	prompt   string
	envKey   string
	optional bool
	skip     func(state *InstallState) bool
	input    textinput.Model
}

func newTextStep(prompt, envKey, placeholder string, optional bool, skip func(*InstallState) bool) *textStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	return &textStep{
		prompt:   prompt,
		envKey:   envKey,
		optional: optional,
		skip:     skip,
		input:    ti,
	}
}

func (s *textStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *textStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.skip != nil && s.skip(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && s.optional {
			val = s.input.Placeholder
		}
		if val == "" {
			return s, cmd
		}
		state.EnvVars[s.envKey] = val
		return nil, nil
	}
	return s, cmd
}

func (s *textStep) View(state *InstallState) string {
	return s.prompt + "\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}

func NewCustomURLStep() Step {
	return newTextStep("Enter Custom OpenAI Base URL:", keyCustomURL, "https://api.example.com/v1", false,
		func(state *InstallState) bool { return state.provider() != "custom" })
}
