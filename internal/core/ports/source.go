// internal/core/ports/source.go
package ports

import (
	"context"
	"time"

	"curatorx/internal/core/domain"
)

// ArtworkSource es el port primario de cada museo: búsqueda estandarizada
// (search + hydrate + convert) y lectura puntual por identificador nativo.
type ArtworkSource interface {
	// Name retorna el tag de la fuente
	Name() domain.Source

	// Search returns at most limit standardized artworks for q. It is best
	// effort: per-item failures are skipped and an empty result is not an error.
	Search(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.Artwork, error)

	// FetchArtwork lee un artwork por su identificador nativo (sin prefijo).
	// A native 404 surfaces as errors.ErrUpstreamNotFound.
	FetchArtwork(ctx context.Context, nativeID string) (domain.Artwork, error)

	// Close libera recursos (conexiones ociosas, cachés)
	Close() error
}

// FacetSource es implementado por fuentes con endpoint de clustering.
type FacetSource interface {
	ArtworkSource

	// Facets retorna los clusters de facetType (material, technique, place) para query
	Facets(ctx context.Context, facetType, query string, size int) ([]domain.Facet, error)
}

// DepartmentSource es implementado por fuentes que publican sus departamentos.
type DepartmentSource interface {
	ArtworkSource

	// Departments lista los departamentos de la colección
	Departments(ctx context.Context) ([]domain.Department, error)
}

// SourceConfig contiene la configuración específica de una fuente.
type SourceConfig struct {
	// Enabled indica si la fuente está habilitada
	Enabled bool `yaml:"enabled"`

	// BaseURL del upstream; vacío = valor por defecto de la fuente
	BaseURL string `yaml:"base_url"`

	// Timeout por petición individual (fetch)
	Timeout time.Duration `yaml:"timeout"`

	// SearchTimeout por petición de búsqueda
	SearchTimeout time.Duration `yaml:"search_timeout"`

	// RateLimit peticiones por segundo (0 = sin límite)
	RateLimit float64 `yaml:"rate_limit"`

	// RateLimitBurst ráfaga permitida
	RateLimitBurst int `yaml:"rate_limit_burst"`

	// Priority orden de construcción (mayor = antes)
	Priority int `yaml:"priority"`

	// UserAgent enviado al upstream; vacío = valor por defecto
	UserAgent string `yaml:"user_agent"`

	// Custom configuración específica (api_key, username, password, max_pages, concurrency...)
	Custom map[string]interface{} `yaml:"custom"`
}

// DefaultSourceConfig retorna una configuración por defecto.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Enabled:        true,
		Timeout:        10 * time.Second,
		SearchTimeout:  15 * time.Second,
		RateLimitBurst: 1,
		Custom:         make(map[string]interface{}),
	}
}

// SourceMetadata contiene metadatos sobre una fuente.
type SourceMetadata struct {
	Name         domain.Source
	DisplayName  string
	Description  string
	Version      string
	RequiresAuth bool
	RateLimit    float64 // Límite recomendado de requests/segundo
	Priority     int
	Capabilities []string // "search", "fetch", "facets", "departments"
}
