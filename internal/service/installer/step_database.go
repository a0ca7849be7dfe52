package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/affibot/internal/config"
)

type dbField struct {
	key         string
	label       string
	placeholder string
	secret      bool
	optional    bool
}

var dbFields = []dbField{
	{key: keyDBHost, label: "Host", placeholder: "ep-example.eu-central-1.aws.neon.tech"},
	{key: keyDBPort, label: "Port", placeholder: "5432", optional: true},
	{key: keyDBName, label: "Database", placeholder: "neondb"},
	{key: keyDBUser, label: "User", placeholder: "neondb_owner"},
	{key: keyDBPassword, label: "Password", secret: true},
	{key: keyDBSSLMode, label: "SSL mode", placeholder: "require", optional: true},
}

// DatabaseStep collects the PostgreSQL connection settings field by field.
type DatabaseStep struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func NewDatabaseStep() Step {
	inputs := make([]textinput.Model, len(dbFields))
	for i, f := range dbFields {
		ti := textinput.New()
		ti.CharLimit = 255
		ti.Width = 50
		ti.Placeholder = f.placeholder
		if f.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[i] = ti
	}
	inputs[0].Focus()
	return &DatabaseStep{inputs: inputs}
}

func (s *DatabaseStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *DatabaseStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.EnvVars[keyStorageDriver] != config.StoragePostgres {
		return nil, nil
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)

	key, ok := msg.(tea.KeyMsg)
	if !ok || key.String() != "enter" {
		return s, cmd
	}

	field := dbFields[s.focus]
	val := strings.TrimSpace(s.inputs[s.focus].Value())
	if val == "" && field.optional {
		val = field.placeholder
	}
	if val == "" && !field.secret {
		s.err = field.label + " is required"
		return s, cmd
	}

	s.err = ""
	state.EnvVars[field.key] = val

	s.inputs[s.focus].Blur()
	s.focus++
	if s.focus >= len(s.inputs) {
		return nil, nil
	}
	return s, s.inputs[s.focus].Focus()
}

func (s *DatabaseStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("PostgreSQL connection:\n\n")
	for i, f := range dbFields {
		label := fmt.Sprintf("%-9s", f.label)
		if i == s.focus {
			b.WriteString(selStyle.Render(label) + " " + s.inputs[i].View() + "\n")
		} else {
			b.WriteString(itemStyle.Render(label) + " " + s.inputs[i].View() + "\n")
		}
	}
	if s.err != "" {
		b.WriteString("\n" + errorStyle.Render(s.err) + "\n")
	}
	b.WriteString("\n(press enter to confirm each field)\n")
	return b.String()
}
