package inmemory

import (
	"context"
	"testing"

	"github.com/sandevgo/affibot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_Semantics(t *testing.T) {
	ctx := context.Background()
	users := NewUsers()

	exists, err := users.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = users.GetSummary(ctx, "alice")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, users.SetSummary(ctx, "alice", "ignored"))
	exists, _ = users.UserExists(ctx, "alice")
	assert.False(t, exists, "SetSummary must not create records")

	require.NoError(t, users.CreateUser(ctx, "alice"))
	assert.ErrorIs(t, users.CreateUser(ctx, "alice"), core.ErrDuplicateKey)

	summary, err := users.GetSummary(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, summary)

	require.NoError(t, users.SetSummary(ctx, "alice", "first"))
	require.NoError(t, users.SetSummary(ctx, "alice", "second"))
	summary, err = users.GetSummary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "second", summary)
}

func TestUsers_ClosedAndCancelled(t *testing.T) {
	users := NewUsers()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := users.UserExists(ctx, "alice")
	assert.ErrorIs(t, err, core.ErrConnection)

	require.NoError(t, users.Close())
	err = users.CreateUser(context.Background(), "alice")
	assert.ErrorIs(t, err, core.ErrConnection)
}
