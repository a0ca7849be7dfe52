package llm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sandevgo/affibot/internal/core"
)

// DynamicProvider lets the model be switched at runtime while completions
// keep flowing through whichever provider is current.
type DynamicProvider struct {
	config  core.ProviderConfig
	build   func(ctx context.Context, cfg core.ProviderConfig) (core.AIProvider, error)
	current atomic.Value
	mu      sync.Mutex
}

func NewDynamicProvider(
	ctx context.Context,
	config core.ProviderConfig,
) (*DynamicProvider, error) {
	return newDynamicProvider(ctx, config, NewProvider)
}

func newDynamicProvider(
	ctx context.Context,
	config core.ProviderConfig,
	build func(ctx context.Context, cfg core.ProviderConfig) (core.AIProvider, error),
) (*DynamicProvider, error) {
	d := &DynamicProvider{
		config: config,
		build:  build,
	}

	provider, err := build(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial provider: %w", err)
	}

	d.current.Store(provider)
	return d, nil
}

func (d *DynamicProvider) provider() core.AIProvider {
	return d.current.Load().(core.AIProvider)
}

func (d *DynamicProvider) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	return d.provider().Complete(ctx, req)
}

func (d *DynamicProvider) Models(ctx context.Context) ([]core.Model, error) {
	return d.provider().Models(ctx)
}

func (d *DynamicProvider) GetModel() string {
	return d.config.GetModel()
}

// SetModel persists the new model and swaps in a provider built for it.
func (d *DynamicProvider) SetModel(ctx context.Context, model string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	previous := d.config.GetModel()
	if err := d.config.SetModel(model); err != nil {
		return err
	}

	newProvider, err := d.build(ctx, d.config)
	if err != nil {
		_ = d.config.SetModel(previous)
		return fmt.Errorf("failed to create provider: %w", err)
	}

	d.current.Store(newProvider)
	return nil
}
