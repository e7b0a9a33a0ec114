// internal/sources/harvard/harvard.go
package harvard

import (
	"context"
	"strconv"
	"strings"
	"time"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/httpclient"
	"curatorx/internal/platform/logx"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultSearchTimeout = 15 * time.Second
)

// Options configura la fuente Harvard.
type Options struct {
	BaseURL        string
	Credentials    Credentials
	Timeout        time.Duration
	SearchTimeout  time.Duration
	RateLimit      float64
	RateLimitBurst int
	UserAgent      string
}

// DefaultOptions retorna las opciones por defecto.
func DefaultOptions() Options {
	return Options{
		BaseURL:        defaultBaseURL,
		Timeout:        defaultTimeout,
		SearchTimeout:  defaultSearchTimeout,
		RateLimitBurst: 1,
	}
}

// Harvard implementa la fuente de Harvard Art Museums. Search returns full
// records; every request carries the bearer token.
type Harvard struct {
	client *apiClient
	opts   Options
	logger logx.Logger
}

// New crea una instancia de Harvard.
func New(opts Options, logger logx.Logger) *Harvard {
	d := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = d.Timeout
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = d.SearchTimeout
	}

	logger = logger.With("source", string(domain.SourceHarvard))
	httpCfg := httpclient.Config{
		Timeout:        opts.SearchTimeout,
		UserAgent:      opts.UserAgent,
		RateLimit:      opts.RateLimit,
		RateLimitBurst: opts.RateLimitBurst,
	}
	if opts.Timeout > httpCfg.Timeout {
		httpCfg.Timeout = opts.Timeout
	}

	return &Harvard{
		client: newAPIClient(opts.BaseURL, opts.Credentials, httpCfg, logger),
		opts:   opts,
		logger: logger,
	}
}

// Name retorna el tag de la fuente.
func (h *Harvard) Name() domain.Source {
	return domain.SourceHarvard
}

// Search requests a single native page of at most limit records.
func (h *Harvard) Search(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.Artwork, error) {
	if limit <= 0 {
		return []domain.Artwork{}, nil
	}
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, h.opts.SearchTimeout)
	defer cancel()

	resp, err := h.client.search(sctx, q, 1, limit)
	if err != nil {
		return nil, errors.Wrap(err, "harvard search")
	}

	artworks := make([]domain.Artwork, 0, len(resp.Records))
	for _, rec := range resp.Records {
		if rec.ObjectID.IsEmpty() {
			continue
		}
		artworks = append(artworks, toArtwork(rec))
	}

	h.logger.Info("harvard search completed",
		"q", q.Text,
		"total", resp.Info.TotalRecords,
		"returned", len(artworks),
	)
	return artworks, nil
}

// FetchArtwork lee un objeto por objectid numérico.
func (h *Harvard) FetchArtwork(ctx context.Context, nativeID string) (domain.Artwork, error) {
	nativeID = strings.TrimSpace(nativeID)
	if id, err := strconv.Atoi(nativeID); err != nil || id <= 0 {
		return domain.Artwork{}, errors.Wrapf(errors.ErrInvalidInput, "harvard object id %q", nativeID)
	}

	fctx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	rec, err := h.client.object(fctx, nativeID)
	if err != nil {
		return domain.Artwork{}, errors.Wrapf(err, "harvard object %s", nativeID)
	}
	if rec.ObjectID.IsEmpty() {
		return domain.Artwork{}, errors.Wrapf(errors.ErrInvalidResponse, "harvard object %s without objectid", nativeID)
	}
	return toArtwork(rec), nil
}

// Close no mantiene recursos propios.
func (h *Harvard) Close() error {
	return nil
}

var _ ports.ArtworkSource = (*Harvard)(nil)
