package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/internal/storage/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyGateway wraps a real gateway and injects failures per operation.
type flakyGateway struct {
	core.UserGateway

	mu         sync.Mutex
	failures   map[string]int
	failWith   error
	calls      map[string]int
	raceCreate bool
}

func newFlaky(inner core.UserGateway) *flakyGateway {
	return &flakyGateway{
		UserGateway: inner,
		failures:    make(map[string]int),
		calls:       make(map[string]int),
		failWith:    fmt.Errorf("%w: dial tcp: refused", core.ErrConnection),
	}
}

func (f *flakyGateway) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.failures[op] > 0 {
		f.failures[op]--
		return f.failWith
	}
	return nil
}

func (f *flakyGateway) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *flakyGateway) UserExists(ctx context.Context, username string) (bool, error) {
	if err := f.hit("exists"); err != nil {
		return false, err
	}
	if f.raceCreate {
		// Another process creates the user between the check and the insert.
		_ = f.UserGateway.CreateUser(ctx, username)
		return false, nil
	}
	return f.UserGateway.UserExists(ctx, username)
}

func (f *flakyGateway) CreateUser(ctx context.Context, username string) error {
	if err := f.hit("create"); err != nil {
		return err
	}
	return f.UserGateway.CreateUser(ctx, username)
}

func (f *flakyGateway) GetSummary(ctx context.Context, username string) (string, error) {
	if err := f.hit("get"); err != nil {
		return "", err
	}
	return f.UserGateway.GetSummary(ctx, username)
}

func (f *flakyGateway) SetSummary(ctx context.Context, username, summary string) error {
	if err := f.hit("set"); err != nil {
		return err
	}
	return f.UserGateway.SetSummary(ctx, username, summary)
}

func newTestMemory(store core.UserGateway, maxRetries int) *Memory {
	return NewMemory(store, NewRetryConfig(maxRetries, time.Millisecond, 5*time.Millisecond))
}

func TestMemory_EnsureUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFlaky(inmemory.NewUsers())
	mem := newTestMemory(store, 0)

	require.NoError(t, mem.EnsureUser(ctx, "alice"))
	require.NoError(t, mem.EnsureUser(ctx, "alice"))

	assert.Equal(t, 1, store.count("create"), "second bootstrap must not write")

	summary, err := mem.LoadContext(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestMemory_EnsureUserSwallowsDuplicate(t *testing.T) {
	store := newFlaky(inmemory.NewUsers())
	store.raceCreate = true
	mem := newTestMemory(store, 0)

	require.NoError(t, mem.EnsureUser(context.Background(), "dave"))
	assert.Equal(t, 1, store.count("create"))
}

func TestMemory_EnsureUserRejectsEmpty(t *testing.T) {
	mem := newTestMemory(inmemory.NewUsers(), 0)

	assert.ErrorIs(t, mem.EnsureUser(context.Background(), ""), core.ErrInvalidUsername)
	assert.ErrorIs(t, mem.EnsureUser(context.Background(), "   "), core.ErrInvalidUsername)
}

func TestMemory_SaveReplacesSummary(t *testing.T) {
	ctx := context.Background()
	mem := newTestMemory(inmemory.NewUsers(), 0)

	require.NoError(t, mem.EnsureUser(ctx, "carol"))
	require.NoError(t, mem.SaveContext(ctx, "carol", "S1"))
	require.NoError(t, mem.SaveContext(ctx, "carol", "S2"))

	summary, err := mem.LoadContext(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "S2", summary)
}

func TestMemory_LoadUnknownUserIsNotFound(t *testing.T) {
	mem := newTestMemory(inmemory.NewUsers(), 3)

	_, err := mem.LoadContext(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemory_RetriesConnectionErrors(t *testing.T) {
	ctx := context.Background()
	store := newFlaky(inmemory.NewUsers())
	store.failures["exists"] = 2
	store.failures["get"] = 1
	mem := newTestMemory(store, 3)

	require.NoError(t, mem.EnsureUser(ctx, "erin"))
	assert.Equal(t, 3, store.count("exists"))

	_, err := mem.LoadContext(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, 2, store.count("get"))
}

func TestMemory_GivesUpAfterMaxRetries(t *testing.T) {
	store := newFlaky(inmemory.NewUsers())
	store.failures["exists"] = 10
	mem := newTestMemory(store, 2)

	err := mem.EnsureUser(context.Background(), "frank")
	assert.ErrorIs(t, err, core.ErrConnection)
	assert.Equal(t, 3, store.count("exists"))
}

func TestMemory_DoesNotRetryOtherErrors(t *testing.T) {
	store := newFlaky(inmemory.NewUsers())
	store.failWith = fmt.Errorf("syntax error")
	store.failures["set"] = 5
	mem := newTestMemory(store, 3)

	require.NoError(t, mem.EnsureUser(context.Background(), "gina"))
	err := mem.SaveContext(context.Background(), "gina", "x")
	require.Error(t, err)
	assert.Equal(t, 1, store.count("set"))
}
