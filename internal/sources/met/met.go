// internal/sources/met/met.go
package met

import (
	"context"
	"strconv"
	"strings"
	"time"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/batch"
	"curatorx/internal/platform/cache"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/httpclient"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/resilience"
)

const (
	defaultFetchTimeout   = 10 * time.Second
	defaultSearchTimeout  = 15 * time.Second
	defaultDepartmentsTTL = time.Hour

	// maxSearchIDs acota la lista de IDs que se retiene de una búsqueda.
	maxSearchIDs = 1000

	departmentsKey = "departments"
)

// Options configura la fuente Met.
type Options struct {
	BaseURL        string
	FetchTimeout   time.Duration
	SearchTimeout  time.Duration
	RateLimit      float64
	RateLimitBurst int
	UserAgent      string

	// Contact se envía en las cabeceras From y X-Client.
	Contact string

	Resilience     resilience.Config
	Batch          batch.Config
	DepartmentsTTL time.Duration
}

// DefaultOptions retorna las opciones por defecto.
func DefaultOptions() Options {
	return Options{
		BaseURL:        defaultBaseURL,
		FetchTimeout:   defaultFetchTimeout,
		SearchTimeout:  defaultSearchTimeout,
		RateLimitBurst: 1,
		Resilience:     resilience.DefaultConfig(),
		Batch:          batch.DefaultConfig(),
		DepartmentsTTL: defaultDepartmentsTTL,
	}
}

// Met implementa la fuente de la Collection API del Metropolitan Museum.
//
// Search hydrates a selection of the search IDs through the batch orchestrator;
// every single fetch goes through the retrier, which is gated by the source's
// circuit breaker. The breaker lives as long as the Met instance.
type Met struct {
	client       *apiClient
	breaker      *resilience.CircuitBreaker
	retrier      *resilience.Retrier
	orchestrator *batch.Orchestrator
	departments  *cache.Memory[[]domain.Department]
	opts         Options
	logger       logx.Logger
}

// New crea una instancia de Met.
func New(opts Options, logger logx.Logger) *Met {
	d := DefaultOptions()
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = d.FetchTimeout
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = d.SearchTimeout
	}
	if opts.DepartmentsTTL <= 0 {
		opts.DepartmentsTTL = d.DepartmentsTTL
	}
	if opts.Resilience == (resilience.Config{}) {
		opts.Resilience = d.Resilience
	}
	if opts.Batch == (batch.Config{}) {
		opts.Batch = d.Batch
	}

	logger = logger.With("source", string(domain.SourceMet))

	headers := map[string]string{}
	if contact := strings.TrimSpace(opts.Contact); contact != "" {
		headers["From"] = contact
		headers["X-Client"] = contact
	} else {
		headers["X-Client"] = httpclient.DefaultUserAgent
	}

	httpCfg := httpclient.Config{
		Timeout:        maxDuration(opts.FetchTimeout, opts.SearchTimeout),
		UserAgent:      opts.UserAgent,
		Headers:        headers,
		RateLimit:      opts.RateLimit,
		RateLimitBurst: opts.RateLimitBurst,
	}

	breaker := opts.Resilience.NewBreaker()
	return &Met{
		client:       newAPIClient(opts.BaseURL, httpCfg, logger),
		breaker:      breaker,
		retrier:      resilience.NewRetrier(breaker, opts.Resilience, logger),
		orchestrator: batch.New(opts.Batch, breaker, logger),
		departments:  cache.New[[]domain.Department](4),
		opts:         opts,
		logger:       logger,
	}
}

// Name retorna el tag de la fuente.
func (m *Met) Name() domain.Source {
	return domain.SourceMet
}

// Breaker expone el circuit breaker de la instancia.
func (m *Met) Breaker() *resilience.CircuitBreaker {
	return m.breaker
}

// Search runs the standardized pipeline: search, select, hydrate in batches,
// convert. The result holds at most limit artworks and may hold fewer.
func (m *Met) Search(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.Artwork, error) {
	if limit <= 0 {
		return []domain.Artwork{}, nil
	}
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, m.opts.SearchTimeout)
	ids, total, err := m.client.search(sctx, q, maxSearchIDs)
	cancel()
	if err != nil {
		return nil, errors.Wrap(err, "met search")
	}
	if len(ids) == 0 {
		return []domain.Artwork{}, nil
	}

	cfg := m.orchestrator.Config()
	candidates := batch.Select(ids, limit*cfg.CandidateMultiplier, cfg)

	artworks, stats := batch.Run(ctx, m.orchestrator, candidates, limit, m.fetchOne)
	if len(artworks) > limit {
		artworks = artworks[:limit]
	}

	breaker := m.breaker.Stats()
	m.logger.Info("met search completed",
		"q", q.Text,
		"total", total,
		"candidates", len(candidates),
		"returned", len(artworks),
		"failed", stats.Failed,
		"exit", string(stats.Exit),
		"breaker", breaker.State.String(),
		"breaker_failures", breaker.FailureCount,
	)
	return artworks, nil
}

// FetchArtwork lee un objeto por ID nativo con la política de reintentos.
func (m *Met) FetchArtwork(ctx context.Context, nativeID string) (domain.Artwork, error) {
	nativeID = strings.TrimSpace(nativeID)
	id, err := strconv.Atoi(nativeID)
	if err != nil || id <= 0 {
		return domain.Artwork{}, errors.Wrapf(errors.ErrInvalidInput, "met object id %q", nativeID)
	}
	return m.fetchOne(ctx, id)
}

// Departments lista los departamentos; la lista se cachea DepartmentsTTL.
func (m *Met) Departments(ctx context.Context) ([]domain.Department, error) {
	return m.departments.GetOrLoad(ctx, departmentsKey, m.opts.DepartmentsTTL, func(ctx context.Context) ([]domain.Department, error) {
		sctx, cancel := context.WithTimeout(ctx, m.opts.SearchTimeout)
		defer cancel()

		recs, err := m.client.departments(sctx)
		if err != nil {
			return nil, errors.Wrap(err, "met departments")
		}
		return toDepartments(recs), nil
	})
}

// Close libera la caché de departamentos.
func (m *Met) Close() error {
	m.departments.Clear()
	return nil
}

// fetchOne is the breaker-gated, retried single fetch used by both Search and
// FetchArtwork.
func (m *Met) fetchOne(ctx context.Context, id int) (domain.Artwork, error) {
	nativeID := strconv.Itoa(id)

	var rec objectRecord
	err := m.retrier.Do(ctx, nativeID, func(ctx context.Context) error {
		fctx, cancel := context.WithTimeout(ctx, m.opts.FetchTimeout)
		defer cancel()

		r, err := m.client.object(fctx, nativeID)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		m.logger.Debug("met fetch failed", "id", nativeID, "error", err.Error())
		return domain.Artwork{}, err
	}
	return toArtwork(nativeID, rec), nil
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

var (
	_ ports.ArtworkSource    = (*Met)(nil)
	_ ports.DepartmentSource = (*Met)(nil)
)
