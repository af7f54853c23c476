package app

import (
	"fmt"

	"github.com/florianilch/seedrine/internal/auth"
	"github.com/florianilch/seedrine/internal/authapi"
	"github.com/florianilch/seedrine/internal/observability"
)

// NewManager creates the credential lifecycle manager from application
// configuration. No I/O is performed - state loading is deferred to the
// manager's first call.
func NewManager(cfg *Config) (*auth.Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := cfg.State.NewStateStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create state store: %w", err)
	}

	var apiOpts []authapi.Option
	if cfg.API.BaseURL != "" {
		apiOpts = append(apiOpts, authapi.WithBaseURL(cfg.API.BaseURL))
	}

	return auth.NewManager(store, authapi.New(apiOpts...))
}

// ObservabilityConfig translates the application configuration into the
// observability layer's own config type.
func (c *Config) ObservabilityConfig() observability.Config {
	return observability.Config{
		Level:  c.LogLevel,
		Format: string(c.LogFormat),
		OTLP: observability.OTLPConfig{
			Endpoint: c.OTLP.Endpoint,
			Protocol: c.OTLP.Protocol,
			Insecure: c.OTLP.Insecure,
		},
	}
}
