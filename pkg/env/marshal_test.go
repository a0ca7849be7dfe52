package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retrySettings struct {
	Max   int           `env:"MAX"`
	Delay time.Duration `env:"INITIAL_DELAY"`
}

type installSettings struct {
	Driver   string `env:"STORAGE_DRIVER"`
	Password string `env:"DB_PASSWORD"`
	Port     int    `env:"DB_PORT"`
	Telegram bool   `env:"ENABLE_TELEGRAM"`
	Token    string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	Skipped  string
	Retry    retrySettings `envPrefix:"STORE_RETRY_"`
	hidden   string        `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	cfg := &installSettings{
		Driver:   "postgres",
		Password: "p@ss word#1",
		Port:     5432,
		Token:    "123:abc",
		Skipped:  "ignored",
		Retry:    retrySettings{Max: 4, Delay: 250 * time.Millisecond},
		hidden:   "nope",
	}

	out, err := MarshalEnv(cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "STORAGE_DRIVER=postgres\n")
	assert.Contains(t, out, "DB_PORT=5432\n")
	assert.Contains(t, out, "TELEGRAM_TOKEN=123:abc\n")
	assert.Contains(t, out, "STORE_RETRY_MAX=4\n")
	assert.Contains(t, out, "STORE_RETRY_INITIAL_DELAY=250ms\n")
	assert.NotContains(t, out, "ENABLE_TELEGRAM")
	assert.NotContains(t, out, "HIDDEN")
	assert.NotContains(t, out, "ignored")

	// The output must round-trip through godotenv.
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(out), 0600))
	values, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "p@ss word#1", values["DB_PASSWORD"])
	assert.Equal(t, "postgres", values["STORAGE_DRIVER"])
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv("nope")
	assert.Error(t, err)

	s := installSettings{}
	_, err = MarshalEnv(s)
	assert.Error(t, err)
}
