package memory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandevgo/affibot/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type promptPaths struct {
	dir string
}

func (p promptPaths) GetKnowledgePath() string { return filepath.Join(p.dir, "KNOWLEDGE.md") }
func (p promptPaths) GetPersonaPath() string   { return filepath.Join(p.dir, "PERSONA.md") }

func TestSysPrompt_EmbeddedDefaults(t *testing.T) {
	prompt := NewSysPrompt(promptPaths{dir: t.TempDir()}).Build()

	assert.True(t, strings.HasPrefix(prompt, "You are a knowledgeable Deriv affiliate program advisor."))
	assert.Contains(t, prompt, "Up to 45% revenue share commission")
	assert.Contains(t, prompt, "Deriv GO (Mobile trading)")
	assert.True(t, strings.HasSuffix(prompt, "Maintain a professional yet friendly tone."))
	assert.NotContains(t, prompt, configs.KnowledgePlaceholder)
}

func TestSysPrompt_RuntimeOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "KNOWLEDGE.md"), []byte("Custom program terms."), 0644))

	prompt := NewSysPrompt(promptPaths{dir: dir}).Build()
	assert.Contains(t, prompt, "Reference this information: Custom program terms.")
	assert.NotContains(t, prompt, "45% revenue share")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "PERSONA.md"), []byte("You are terse."), 0644))
	prompt = NewSysPrompt(promptPaths{dir: dir}).Build()
	assert.Equal(t, "You are terse.\nReference this information: Custom program terms.", prompt)
}
