package factory

import (
	"context"
	"fmt"

	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/providers"
	"github.com/briefly/briefly-backend/internal/providers/gemini"
	"github.com/briefly/briefly-backend/internal/providers/openai"
)

// BuildRegistry constructs the provider registry from configuration. The
// default provider must initialize successfully; other configured providers
// are skipped when they have no credential.
func BuildRegistry(ctx context.Context, cfg *config.Config) (*providers.Registry, error) {
	registry := providers.NewRegistry()

	for id, pc := range cfg.Providers {
		provider, err := newProvider(ctx, pc)
		if err != nil {
			if id == cfg.DefaultProvider {
				return nil, fmt.Errorf("initializing default provider %q: %w", id, err)
			}
			continue
		}
		registry.Register(id, provider)
	}

	if !registry.Has(cfg.DefaultProvider) {
		return nil, fmt.Errorf("default provider %q is not available", cfg.DefaultProvider)
	}

	return registry, nil
}

func newProvider(ctx context.Context, pc config.ProviderConfig) (providers.Provider, error) {
	switch pc.Type {
	case "gemini":
		return gemini.NewProvider(ctx, pc)
	case "openai":
		return openai.NewProvider(pc)
	case "stub":
		return &providers.StubProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", pc.Type)
	}
}
