package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func typeText(step Step, state *InstallState, text string) Step {
	for _, r := range text {
		next, _ := step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, state, 80, 24)
		step = next
	}
	return step
}

func TestProviderStep_SelectsLowercaseID(t *testing.T) {
	state := NewInstallState()
	step := NewProviderStep()

	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyDown}, state, 80, 24)
	next, _ := step.Update(enter, state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, "openrouter", state.EnvVars[keyProvider])
}

func TestChannelStep_SetsTransportFlags(t *testing.T) {
	state := NewInstallState()
	step := NewChannelStep()

	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyDown}, state, 80, 24)
	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyDown}, state, 80, 24)
	step.Update(enter, state, 80, 24)

	assert.Equal(t, "true", state.EnvVars[keyEnableHTTP])
	assert.Equal(t, "true", state.EnvVars[keyEnableTelegram])
}

func TestTextStep_SkippedForOtherProviders(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[keyProvider] = "openai"

	next, _ := NewCustomURLStep().Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.NotContains(t, state.EnvVars, keyCustomURL)
}

func TestTextStep_OptionalFallsBackToPlaceholder(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[keyProvider] = "ollama"

	next, _ := NewOllamaURLStep().Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "http://127.0.0.1:11434", state.EnvVars[keyOllamaURL])
}

func TestTextStep_RequiredWaitsForInput(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[keyEnableTelegram] = "true"

	step := NewTelegramTokenStep()
	next, _ := step.Update(enter, state, 80, 24)
	require.NotNil(t, next)

	step = typeText(next, state, "123:abc")
	next, _ = step.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "123:abc", state.EnvVars[keyTelegramToken])
}

func TestAPIKeyStep_RequiresKeyForHostedProviders(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[keyProvider] = "openai"

	step := NewAPIKeyStep()
	step, _ = step.Update(nextMsg{}, state, 80, 24)
	require.NotNil(t, step)

	next, _ := step.Update(enter, state, 80, 24)
	require.NotNil(t, next, "empty key must not complete the step")

	step = typeText(next, state, "sk-test")
	next, _ = step.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "sk-test", state.EnvVars[keyOpenAIKey])
}

func TestDatabaseStep_CollectsFields(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[keyStorageDriver] = "postgres"

	var step Step = NewDatabaseStep()
	values := []string{"db.example.com", "", "chat", "neon", "s3cret", ""}
	for i, v := range values {
		step = typeText(step, state, v)
		next, _ := step.Update(enter, state, 80, 24)
		if i < len(values)-1 {
			require.NotNil(t, next)
			step = next
		} else {
			assert.Nil(t, next)
		}
	}

	assert.Equal(t, "db.example.com", state.EnvVars[keyDBHost])
	assert.Equal(t, "5432", state.EnvVars[keyDBPort])
	assert.Equal(t, "s3cret", state.EnvVars[keyDBPassword])
	assert.Equal(t, "require", state.EnvVars[keyDBSSLMode])
}

func TestDatabaseStep_SkippedForSQLite(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[keyStorageDriver] = "sqlite"

	next, _ := NewDatabaseStep().Update(enter, state, 80, 24)
	assert.Nil(t, next)
}

func TestFinalize_Defaults(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[keyProvider] = "openai"
	state.EnvVars[keyEnableTelegram] = "true"

	finalize(state)

	assert.Equal(t, "sqlite", state.EnvVars[keyStorageDriver])
	assert.Equal(t, "false", state.EnvVars[keyEnableTelegram], "no token means no telegram")
	assert.Equal(t, "true", state.EnvVars[keyEnableHTTP])
	assert.Equal(t, "gpt-4o-mini", state.EnvVars[keyModel])
}

func TestSaveEnv_WritesParsableFile(t *testing.T) {
	dir := t.TempDir()
	state := NewInstallState()
	state.EnvVars[keyProvider] = "openai"
	state.EnvVars[keyOpenAIKey] = "sk-test"
	state.EnvVars[keyStorageDriver] = "postgres"
	state.EnvVars[keyDBHost] = "db.example.com"
	state.EnvVars[keyDBPort] = "6543"
	state.EnvVars[keyDBName] = "chat"
	state.EnvVars[keyDBUser] = "neon"
	state.EnvVars[keyDBPassword] = "p@ss word#1"
	state.EnvVars[keyEnableTelegram] = "false"
	finalize(state)

	require.NoError(t, saveEnv(dir, state))

	values, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "openai", values["LLM_PROVIDER"])
	assert.Equal(t, "gpt-4o-mini", values["LLM_MODEL"])
	assert.Equal(t, "6543", values["DB_PORT"])
	assert.Equal(t, "p@ss word#1", values["DB_PASSWORD"])
	assert.Equal(t, "false", values["ENABLE_TELEGRAM"])

	assert.Error(t, saveEnv(dir, state), "existing .env must not be overwritten")
}

func TestInitFiles_KeepsUserEdits(t *testing.T) {
	dir := t.TempDir()
	persona := filepath.Join(dir, "PERSONA.md")
	require.NoError(t, os.WriteFile(persona, []byte("custom"), 0644))

	require.NoError(t, initFiles(dir))

	data, err := os.ReadFile(persona)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))

	knowledge, err := os.ReadFile(filepath.Join(dir, "KNOWLEDGE.md"))
	require.NoError(t, err)
	assert.Contains(t, string(knowledge), "Deriv")
}
