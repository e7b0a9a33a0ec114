// internal/sources/rijks/registry.go
package rijks

import (
	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/registry"
)

// Auto-registro de la source al importar el package
func init() {
	if err := registry.Global().Register(
		domain.SourceRijks,
		factory,
		ports.SourceMetadata{
			DisplayName:  domain.SourceRijks.DisplayName(),
			Description:  "Rijksmuseum Linked Art search and object graph",
			Version:      "1.0.0",
			RequiresAuth: false,
			RateLimit:    10,
			Priority:     8,
			Capabilities: []string{"search", "fetch"},
		},
	); err != nil {
		logx.New().Warn("failed to register rijks source", "error", err.Error())
	}
}

// factory creates a Rijks source from configuration.
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
	opts.IDBaseURL = registry.GetStringConfig(cfg.Custom, registry.KeyIDBaseURL, opts.IDBaseURL)
	opts.MaxPages = registry.GetIntConfig(cfg.Custom, registry.KeyMaxPages, opts.MaxPages)
	opts.Concurrency = registry.GetIntConfig(cfg.Custom, registry.KeyConcurrency, opts.Concurrency)
	opts.MaxDepth = registry.GetIntConfig(cfg.Custom, registry.KeyMaxDepth, opts.MaxDepth)

	if err := registry.ValidateIntRange("rijks max_pages", opts.MaxPages, 1, 20); err != nil {
		return nil, err
	}
	if err := registry.ValidateIntRange("rijks max_depth", opts.MaxDepth, 1, 4); err != nil {
		return nil, err
	}

	env.Logger.Debug("creating rijks source",
		"base_url", opts.BaseURL,
		"id_base_url", opts.IDBaseURL,
		"max_pages", opts.MaxPages,
		"concurrency", opts.Concurrency,
	)
	return New(opts, env.Logger), nil
}
