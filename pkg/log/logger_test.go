package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	level, logger := zerolog.GlobalLevel(), zlog.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		zlog.Logger = logger
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewContextWithLogger_JSONLevels(t *testing.T) {
	restoreGlobals(t)
	buf := &bytes.Buffer{}

	ctx, flush := NewContextWithLogger(context.Background(), Options{JSON: true, Out: buf})
	FromCtx(ctx).Debug().Msg("hidden")
	FromCtx(ctx).Info().Msg("shown")
	flush()

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Contains(t, lines[0], "time")
}

func TestNewContextWithLogger_Debug(t *testing.T) {
	restoreGlobals(t)
	buf := &bytes.Buffer{}

	ctx, flush := NewContextWithLogger(context.Background(), Options{Debug: true, JSON: true, Out: buf})
	FromCtx(ctx).Debug().Msg("visible")
	flush()

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "debug", lines[0]["level"])
}

func TestWithSession_TagsEntries(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := zerolog.New(buf).WithContext(context.Background())

	FromCtx(WithSession(ctx, "sess-1", "alice")).Info().Msg("turn")
	FromCtx(WithUser(ctx, "bob")).Info().Msg("login")
	FromCtx(ctx).Info().Msg("plain")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "sess-1", lines[0][FieldSessionID])
	assert.Equal(t, "alice", lines[0][FieldUsername])

	assert.Equal(t, "bob", lines[1][FieldUsername])
	assert.NotContains(t, lines[1], FieldSessionID)

	assert.NotContains(t, lines[2], FieldUsername)
}
