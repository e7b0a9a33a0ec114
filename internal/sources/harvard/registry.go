// internal/sources/harvard/registry.go
package harvard

import (
	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/registry"
)

// Auto-registro de la source al importar el package
func init() {
	if err := registry.Global().Register(
		domain.SourceHarvard,
		factory,
		ports.SourceMetadata{
			DisplayName:  domain.SourceHarvard.DisplayName(),
			Description:  "Harvard Art Museums object API (bearer token)",
			Version:      "1.0.0",
			RequiresAuth: true,
			RateLimit:    5,
			Priority:     4,
			Capabilities: []string{"search", "fetch"},
		},
	); err != nil {
		logx.New().Warn("failed to register harvard source", "error", err.Error())
	}
}

// factory creates a Harvard source from configuration. Credentials are read
// lazily by the client, so a missing key only fails the first request.
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
	opts.Credentials = Credentials{
		APIKey:   registry.GetStringConfig(cfg.Custom, registry.KeyAPIKey, ""),
		Username: registry.GetStringConfig(cfg.Custom, registry.KeyUsername, ""),
		Password: registry.GetStringConfig(cfg.Custom, registry.KeyPassword, ""),
	}

	if opts.Credentials.empty() {
		env.Logger.Warn("harvard source has no api_key or username/password; requests will fail with auth errors")
	}

	env.Logger.Debug("creating harvard source",
		"base_url", opts.BaseURL,
		"api_key_provided", opts.Credentials.APIKey != "",
		"login_provided", opts.Credentials.Username != "",
	)
	return New(opts, env.Logger), nil
}
