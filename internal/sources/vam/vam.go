// internal/sources/vam/vam.go
package vam

import (
	"context"
	"fmt"
	"strings"
	"time"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/cache"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/httpclient"
	"curatorx/internal/platform/logx"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultSearchTimeout = 15 * time.Second
	defaultFacetsTTL     = 30 * time.Minute
	defaultFacetSize     = 20
)

// FacetTypes son los tipos de cluster expuestos.
var FacetTypes = []string{"material", "technique", "place"}

// Options configura la fuente V&A.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	SearchTimeout  time.Duration
	RateLimit      float64
	RateLimitBurst int
	UserAgent      string
	FacetsTTL      time.Duration
}

// DefaultOptions retorna las opciones por defecto.
func DefaultOptions() Options {
	return Options{
		BaseURL:        defaultBaseURL,
		Timeout:        defaultTimeout,
		SearchTimeout:  defaultSearchTimeout,
		RateLimitBurst: 1,
		FacetsTTL:      defaultFacetsTTL,
	}
}

// VAM implementa la fuente de la Collections API del Victoria and Albert Museum.
// Search returns full records in one round trip; there is no hydration step.
type VAM struct {
	client *apiClient
	facets *cache.Memory[[]domain.Facet]
	opts   Options
	logger logx.Logger
}

// New crea una instancia de VAM.
func New(opts Options, logger logx.Logger) *VAM {
	d := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = d.Timeout
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = d.SearchTimeout
	}
	if opts.FacetsTTL <= 0 {
		opts.FacetsTTL = d.FacetsTTL
	}

	logger = logger.With("source", string(domain.SourceVAM))
	httpCfg := httpclient.Config{
		Timeout:        opts.SearchTimeout,
		UserAgent:      opts.UserAgent,
		RateLimit:      opts.RateLimit,
		RateLimitBurst: opts.RateLimitBurst,
	}
	if opts.Timeout > httpCfg.Timeout {
		httpCfg.Timeout = opts.Timeout
	}

	return &VAM{
		client: newAPIClient(opts.BaseURL, httpCfg, logger),
		facets: cache.New[[]domain.Facet](64),
		opts:   opts,
		logger: logger,
	}
}

// Name retorna el tag de la fuente.
func (v *VAM) Name() domain.Source {
	return domain.SourceVAM
}

// Search requests a single native page of at most limit records.
func (v *VAM) Search(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.Artwork, error) {
	if limit <= 0 {
		return []domain.Artwork{}, nil
	}
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, v.opts.SearchTimeout)
	defer cancel()

	resp, err := v.client.search(sctx, q, 1, limit)
	if err != nil {
		return nil, errors.Wrap(err, "vam search")
	}

	artworks := make([]domain.Artwork, 0, len(resp.Records))
	for _, rec := range resp.Records {
		if strings.TrimSpace(rec.SystemNumber) == "" {
			v.logger.Debug("vam record without system number skipped", "title", rec.PrimaryTitle)
			continue
		}
		artworks = append(artworks, fromSummary(rec))
	}

	v.logger.Info("vam search completed",
		"q", q.Text,
		"total", resp.Info.RecordCount,
		"returned", len(artworks),
	)
	return artworks, nil
}

// FetchArtwork lee un objeto por systemNumber.
func (v *VAM) FetchArtwork(ctx context.Context, nativeID string) (domain.Artwork, error) {
	nativeID = strings.TrimSpace(nativeID)
	if nativeID == "" || strings.Contains(nativeID, "/") {
		return domain.Artwork{}, errors.Wrapf(errors.ErrInvalidInput, "vam system number %q", nativeID)
	}

	fctx, cancel := context.WithTimeout(ctx, v.opts.Timeout)
	defer cancel()

	resp, err := v.client.object(fctx, nativeID)
	if err != nil {
		return domain.Artwork{}, errors.Wrapf(err, "vam object %s", nativeID)
	}
	if strings.TrimSpace(resp.Record.SystemNumber) == "" {
		resp.Record.SystemNumber = nativeID
	}
	return fromObject(resp), nil
}

// Facets retorna los clusters de facetType para query. Los resultados se
// cachean FacetsTTL por (tipo, query, tamaño).
func (v *VAM) Facets(ctx context.Context, facetType, query string, size int) ([]domain.Facet, error) {
	facetType = strings.ToLower(strings.TrimSpace(facetType))
	if !isFacetType(facetType) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "vam facet type %q (want one of %s)",
			facetType, strings.Join(FacetTypes, ", "))
	}
	if size <= 0 {
		size = defaultFacetSize
	}
	query = strings.TrimSpace(query)

	key := fmt.Sprintf("%s|%s|%d", facetType, query, size)
	return v.facets.GetOrLoad(ctx, key, v.opts.FacetsTTL, func(ctx context.Context) ([]domain.Facet, error) {
		sctx, cancel := context.WithTimeout(ctx, v.opts.SearchTimeout)
		defer cancel()

		entries, err := v.client.clusters(sctx, facetType, query, size)
		if err != nil {
			return nil, errors.Wrapf(err, "vam %s clusters", facetType)
		}
		return toFacets(entries), nil
	})
}

// Close libera la caché de facets.
func (v *VAM) Close() error {
	v.facets.Clear()
	return nil
}

func isFacetType(t string) bool {
	for _, ft := range FacetTypes {
		if ft == t {
			return true
		}
	}
	return false
}

var _ ports.FacetSource = (*VAM)(nil)
