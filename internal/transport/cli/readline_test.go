package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/internal/service/assistant"
	"github.com/sandevgo/affibot/internal/service/command"
	"github.com/sandevgo/affibot/internal/service/memory"
	"github.com/sandevgo/affibot/internal/service/session"
	"github.com/sandevgo/affibot/internal/storage/inmemory"
	"github.com/sandevgo/affibot/pkg/keylock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTurner struct {
	queries []string
	err     error
}

func (s *stubTurner) Turn(_ context.Context, sess *session.Session, query string) (assistant.TurnResult, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return assistant.TurnResult{}, s.err
	}
	answer := "answer to " + query
	sess.Append(
		core.Message{Role: core.RoleUser, Content: query},
		core.Message{Role: core.RoleAssistant, Content: answer},
	)
	return assistant.TurnResult{Answer: answer, Persisted: true}, nil
}

func newTestChat(t *testing.T) (*chat, *bytes.Buffer, *stubTurner, *inmemory.Users) {
	t.Helper()

	store := inmemory.NewUsers()
	mem := memory.NewMemory(store, memory.NewRetryConfig(0, time.Millisecond, time.Millisecond))
	turner := &stubTurner{}
	out := &bytes.Buffer{}

	return &chat{
		out:       out,
		sessions:  session.NewManager(mem, keylock.New(), time.Minute),
		assistant: turner,
		router:    command.New(nil),
	}, out, turner, store
}

func TestChat_FirstLineIsUsername(t *testing.T) {
	c, out, turner, store := newTestChat(t)
	ctx := context.Background()

	assert.False(t, c.handleLine(ctx, "carol"))
	require.NotNil(t, c.sess)
	assert.Equal(t, "carol", c.sess.Username)
	assert.Contains(t, out.String(), "Welcome, carol!")
	assert.Empty(t, turner.queries)

	exists, err := store.UserExists(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestChat_UsernameIsVerbatim(t *testing.T) {
	c, _, _, store := newTestChat(t)
	ctx := context.Background()

	assert.False(t, c.handleLine(ctx, " carol"))
	require.NotNil(t, c.sess)
	assert.Equal(t, " carol", c.sess.Username)

	exists, err := store.UserExists(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.UserExists(ctx, " carol")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestChat_TurnPrintsTypingAndAnswer(t *testing.T) {
	c, out, turner, _ := newTestChat(t)
	ctx := context.Background()

	c.handleLine(ctx, "carol")
	out.Reset()

	assert.False(t, c.handleLine(ctx, "How do I sign up?"))
	assert.Equal(t, []string{"How do I sign up?"}, turner.queries)

	text := out.String()
	typing := strings.Index(text, "Typing...")
	answer := strings.Index(text, "answer to How do I sign up?")
	require.GreaterOrEqual(t, typing, 0)
	assert.Greater(t, answer, typing)
	assert.Len(t, c.sess.Transcript(), 2)
}

func TestChat_SkipsBlankAndExits(t *testing.T) {
	c, _, turner, _ := newTestChat(t)
	ctx := context.Background()

	assert.False(t, c.handleLine(ctx, "   "))
	assert.Nil(t, c.sess)
	assert.True(t, c.handleLine(ctx, "exit"))
	assert.Empty(t, turner.queries)
}

func TestChat_CommandsBypassAssistant(t *testing.T) {
	c, out, turner, _ := newTestChat(t)
	ctx := context.Background()

	c.handleLine(ctx, "carol")
	c.handleLine(ctx, "/help")

	assert.Empty(t, turner.queries)
	assert.Contains(t, out.String(), "/help")
}

func TestChat_GenerationErrorIsReported(t *testing.T) {
	c, out, turner, _ := newTestChat(t)
	ctx := context.Background()

	c.handleLine(ctx, "dave")
	turner.err = fmt.Errorf("%w: rate limited", core.ErrGeneration)

	assert.False(t, c.handleLine(ctx, "hi"))
	assert.Contains(t, out.String(), "could not answer right now")
	assert.Empty(t, c.sess.Transcript())
}

func TestChat_StoreDownAtLogin(t *testing.T) {
	c, out, _, store := newTestChat(t)
	require.NoError(t, store.Close())

	c.handleLine(context.Background(), "erin")

	assert.Nil(t, c.sess)
	assert.Contains(t, out.String(), "store is unavailable")
	assert.Contains(t, out.String(), usernamePrompt)
}
