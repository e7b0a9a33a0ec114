// internal/sources/rijks/rijks.go
package rijks

import (
	"context"
	"strings"
	"time"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/batch"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/httpclient"
	"curatorx/internal/platform/logx"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultSearchTimeout = 15 * time.Second
	defaultMaxPages      = 3
)

// Options configura la fuente Rijksmuseum.
type Options struct {
	BaseURL        string
	IDBaseURL      string
	Timeout        time.Duration
	SearchTimeout  time.Duration
	RateLimit      float64
	RateLimitBurst int
	UserAgent      string

	// MaxPages limita las páginas leídas por estrategia de búsqueda.
	MaxPages int

	// Concurrency limita los fetch simultáneos; 0 = todos a la vez.
	Concurrency int

	// MaxDepth limita los saltos de referencia del resolver.
	MaxDepth int
}

// DefaultOptions retorna las opciones por defecto.
func DefaultOptions() Options {
	return Options{
		BaseURL:        defaultBaseURL,
		IDBaseURL:      defaultIDBaseURL,
		Timeout:        defaultTimeout,
		SearchTimeout:  defaultSearchTimeout,
		RateLimitBurst: 1,
		MaxPages:       defaultMaxPages,
		MaxDepth:       defaultMaxDepth,
	}
}

func (o Options) httpConfig() httpclient.Config {
	return httpclient.Config{
		Timeout:        maxDuration(o.Timeout, o.SearchTimeout),
		UserAgent:      o.UserAgent,
		RateLimit:      o.RateLimit,
		RateLimitBurst: o.RateLimitBurst,
	}
}

// Rijks implementa la fuente Linked Art del Rijksmuseum.
//
// Search walks the strategy chain until one filter field yields object
// references, then fetches every selected object concurrently; a failed object
// is dropped without affecting its siblings. Image identifiers are resolved
// through the linked-data graph.
type Rijks struct {
	client   *apiClient
	resolver *resolver
	opts     Options
	logger   logx.Logger
}

// New crea una instancia de Rijks.
func New(opts Options, logger logx.Logger) *Rijks {
	d := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = d.Timeout
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = d.SearchTimeout
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = d.MaxPages
	}
	if opts.Concurrency < 0 {
		opts.Concurrency = 0
	}

	logger = logger.With("source", string(domain.SourceRijks))
	client := newAPIClient(opts.BaseURL, opts.IDBaseURL, opts.httpConfig(), logger)

	r := &Rijks{
		client: client,
		opts:   opts,
		logger: logger,
	}
	r.resolver = newResolver(r.dereference, opts.MaxDepth, logger)
	return r
}

// Name retorna el tag de la fuente.
func (r *Rijks) Name() domain.Source {
	return domain.SourceRijks
}

// Search returns at most limit artworks. Strategies that fail are skipped; the
// search fails only when every strategy failed.
func (r *Rijks) Search(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.Artwork, error) {
	if limit <= 0 {
		return []domain.Artwork{}, nil
	}
	q = q.Normalize()

	ids, err := r.searchIDs(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Artwork{}, nil
	}

	artworks := batch.FetchAll(ctx, ids, r.opts.Concurrency, r.fetchOne)

	r.logger.Info("rijks search completed",
		"q", q.Text,
		"candidates", len(ids),
		"returned", len(artworks),
		"failed", len(ids)-len(artworks),
	)
	return artworks, nil
}

// searchIDs tries each strategy in order and returns the first non-empty result.
func (r *Rijks) searchIDs(ctx context.Context, q domain.SearchQuery, limit int) ([]string, error) {
	var errs []error
	for _, s := range strategiesFor(q) {
		sctx, cancel := context.WithTimeout(ctx, r.opts.SearchTimeout)
		ids, total, err := r.client.search(sctx, s.build(q), limit, r.opts.MaxPages)
		cancel()

		if err != nil {
			r.logger.Debug("rijks strategy failed", "strategy", s.name, "error", err.Error())
			errs = append(errs, errors.Wrapf(err, "strategy %s", s.name))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(ids) > 0 {
			r.logger.Debug("rijks strategy matched", "strategy", s.name, "total", total, "ids", len(ids))
			return ids, nil
		}
	}

	if len(errs) == len(strategiesFor(q)) {
		return nil, errors.Wrap(errors.Join(errs...), "rijks search")
	}
	return []string{}, nil
}

// FetchArtwork lee un objeto por ID nativo (segmento final de la URL persistente).
func (r *Rijks) FetchArtwork(ctx context.Context, nativeID string) (domain.Artwork, error) {
	return r.fetchOne(ctx, strings.TrimSpace(nativeID))
}

// Close vacía la caché del resolver.
func (r *Rijks) Close() error {
	r.resolver.Close()
	return nil
}

func (r *Rijks) fetchOne(ctx context.Context, nativeID string) (domain.Artwork, error) {
	fctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	rec, err := r.client.object(fctx, nativeID)
	if err != nil {
		r.logger.Debug("rijks fetch failed", "id", nativeID, "error", err.Error())
		return domain.Artwork{}, errors.Wrapf(err, "rijks object %s", nativeID)
	}

	imageID := r.resolver.ImageID(fctx, rec)
	return toArtwork(nativeID, r.client.persistentURL(nativeID), rec, imageID), nil
}

func (r *Rijks) dereference(ctx context.Context, nodeURL string) (node, error) {
	return r.client.dereference(ctx, nodeURL)
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

var _ ports.ArtworkSource = (*Rijks)(nil)
