package srv

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingService struct {
	name  string
	mu    *sync.Mutex
	order *[]string
}

func (r recordingService) Start(ctx context.Context) error { return nil }

func (r recordingService) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.order = append(*r.order, r.name)
	return ctx.Err()
}

func TestShutdownServices_ReverseOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)

	services := []Service{
		recordingService{name: "store", mu: &mu, order: &order},
		recordingService{name: "http", mu: &mu, order: &order},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ShutdownServices(ctx, services)

	assert.Equal(t, []string{"http", "store"}, order)
}

func TestNewCleanup(t *testing.T) {
	called := false
	svc := NewCleanup("gateway", func() error {
		called = true
		return nil
	})

	assert.NoError(t, svc.Start(context.Background()))
	assert.NoError(t, svc.Shutdown(context.Background()))
	assert.True(t, called)
}
