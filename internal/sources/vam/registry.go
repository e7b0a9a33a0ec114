// internal/sources/vam/registry.go
package vam

import (
	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/registry"
)

// Auto-registro de la source al importar el package
func init() {
	if err := registry.Global().Register(
		domain.SourceVAM,
		factory,
		ports.SourceMetadata{
			DisplayName:  domain.SourceVAM.DisplayName(),
			Description:  "Victoria and Albert Museum Collections API v2",
			Version:      "1.0.0",
			RequiresAuth: false,
			RateLimit:    5,
			Priority:     6,
			Capabilities: []string{"search", "fetch", "facets"},
		},
	); err != nil {
		logx.New().Warn("failed to register vam source", "error", err.Error())
	}
}

// factory creates a VAM source from configuration.
func factory(cfg ports.SourceConfig, env registry.Env) (ports.ArtworkSource, error) {
	opts := DefaultOptions()
	if cfg.BaseURL != "" {
		opts.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		opts.Timeout = cfg.Timeout
	}
	if cfg.SearchTimeout > 0 {
		opts.SearchTimeout = cfg.SearchTimeout
	}
	opts.RateLimit = cfg.RateLimit
	opts.RateLimitBurst = cfg.RateLimitBurst
	opts.UserAgent = cfg.UserAgent
	opts.FacetsTTL = registry.GetDurationConfig(cfg.Custom, registry.KeyCacheTTL, opts.FacetsTTL)

	env.Logger.Debug("creating vam source", "base_url", opts.BaseURL)
	return New(opts, env.Logger), nil
}
