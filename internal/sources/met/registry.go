// internal/sources/met/registry.go
package met

import (
	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/registry"
)

// Auto-registro de la source al importar el package
func init() {
	if err := registry.Global().Register(
		domain.SourceMet,
		factory,
		ports.SourceMetadata{
			DisplayName:  domain.SourceMet.DisplayName(),
			Description:  "Metropolitan Museum of Art Collection API",
			Version:      "1.0.0",
			RequiresAuth: false,
			RateLimit:    80, // documented limit: 80 req/s
			Priority:     10,
			Capabilities: []string{"search", "fetch", "departments"},
		},
	); err != nil {
		// Log error but don't panic - allow application to start
		logx.New().Warn("failed to register met source", "error", err.Error())
	}
}

// factory creates a Met source from configuration.
func factory(cfg ports.SourceConfig, env registry.Env) (ports.ArtworkSource, error) {
	opts := DefaultOptions()
	if cfg.BaseURL != "" {
		opts.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		opts.FetchTimeout = cfg.Timeout
	}
	if cfg.SearchTimeout > 0 {
		opts.SearchTimeout = cfg.SearchTimeout
	}
	opts.RateLimit = cfg.RateLimit
	opts.RateLimitBurst = cfg.RateLimitBurst
	opts.UserAgent = cfg.UserAgent
	opts.Contact = registry.GetStringConfig(cfg.Custom, registry.KeyContact, "")
	opts.DepartmentsTTL = registry.GetDurationConfig(cfg.Custom, registry.KeyCacheTTL, opts.DepartmentsTTL)
	opts.Resilience = env.Resilience
	opts.Batch = env.Batch

	env.Logger.Debug("creating met source",
		"base_url", opts.BaseURL,
		"fetch_timeout", opts.FetchTimeout.String(),
		"search_timeout", opts.SearchTimeout.String(),
		"contact_provided", opts.Contact != "",
	)
	return New(opts, env.Logger), nil
}
