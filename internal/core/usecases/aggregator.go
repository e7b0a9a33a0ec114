// internal/core/usecases/aggregator.go
package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
)

const (
	defaultSourceTimeout = 20 * time.Second
	defaultPageSize      = 20
	defaultMaxLimit      = 100
	notificationTimeout  = 5 * time.Second
)

// Aggregator es la fachada de búsqueda: despacha una consulta lógica a una o
// varias fuentes y concatena los resultados etiquetados por origen.
//
// A source that fails contributes nothing and is reported through logs and
// notifier events; Search fails only when every selected source failed. A
// source that exceeds SourceTimeout is treated as empty.
type Aggregator struct {
	sources   map[domain.Source]ports.ArtworkSource
	logger    logx.Logger
	observers []ports.Notifier

	// Configuración
	sourceTimeout   time.Duration
	defaultPageSize int
	maxLimit        int

	// Control de goroutines
	notifyWg sync.WaitGroup
}

// AggregatorOptions configura el aggregator.
type AggregatorOptions struct {
	Sources         []ports.ArtworkSource
	Logger          logx.Logger
	Observers       []ports.Notifier
	SourceTimeout   time.Duration
	DefaultPageSize int
	MaxLimit        int
}

// NewAggregator crea una nueva instancia del aggregator.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = defaultSourceTimeout
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaultMaxLimit
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = defaultPageSize
	}
	if opts.DefaultPageSize > opts.MaxLimit {
		opts.DefaultPageSize = opts.MaxLimit
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	sources := make(map[domain.Source]ports.ArtworkSource, len(opts.Sources))
	for _, s := range opts.Sources {
		if s == nil {
			continue
		}
		sources[s.Name()] = s
	}

	return &Aggregator{
		sources:         sources,
		logger:          opts.Logger.With("component", "aggregator"),
		observers:       opts.Observers,
		sourceTimeout:   opts.SourceTimeout,
		defaultPageSize: opts.DefaultPageSize,
		maxLimit:        opts.MaxLimit,
	}
}

// Sources retorna las fuentes habilitadas en orden de despacho.
func (a *Aggregator) Sources() []domain.Source {
	out := make([]domain.Source, 0, len(a.sources))
	for _, src := range domain.AllSources() {
		if _, ok := a.sources[src]; ok {
			out = append(out, src)
		}
	}
	return out
}

// Search dispatches q to the sources named by selector ("all", "" or a
// comma-separated list of tags) and concatenates their results in dispatch
// order. Each source contributes at most limit artworks.
func (a *Aggregator) Search(ctx context.Context, q domain.SearchQuery, selector string, limit int) ([]domain.Artwork, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	targets, err := a.resolve(selector)
	if err != nil {
		return nil, err
	}
	limit = a.clampLimit(limit)

	start := time.Now()
	a.logger.Info("starting search",
		"q", q.Text,
		"sources", len(targets),
		"limit", limit,
	)

	results := make([]sourceResult, len(targets))
	var g errgroup.Group
	for i, src := range targets {
		i, src := i, src
		g.Go(func() error {
			results[i] = a.searchSource(ctx, src, q, limit)
			return nil
		})
	}
	_ = g.Wait()

	// Los eventos por fuente se entregan antes del resumen
	a.notifyWg.Wait()

	artworks, failures, timedOut := a.consolidate(results)

	summary := ports.SearchCompletedEvent{
		Query:    q.Text,
		Sources:  sourceNames(targets),
		Count:    len(artworks),
		Failed:   failedSources(results),
		TimedOut: timedOut,
		Duration: time.Since(start),
	}

	// Sin resultados de ninguna fuente: los timeouts cuentan como fallo
	if len(failures)+len(timedOut) == len(targets) {
		for _, src := range timedOut {
			failures[string(src)] = errors.Wrapf(errors.ErrTimeout, "source %s after %s", src, a.sourceTimeout)
		}
		a.logger.Err(errors.ErrAllSourcesFailed, "q", q.Text, "sources", len(targets))
		a.notify(ctx, ports.NewEvent(ports.EventTypeSearchCompleted, "", summary))
		a.notifyWg.Wait()
		return nil, &errors.AggregationError{Failures: failures}
	}

	a.logger.Info("search completed",
		"q", q.Text,
		"artworks", len(artworks),
		"failed", len(failures),
		"timed_out", len(timedOut),
		"duration_ms", summary.Duration.Milliseconds(),
	)

	a.notify(ctx, ports.NewEvent(ports.EventTypeSearchCompleted, "", summary))

	// Esperar a que todas las notificaciones terminen antes de retornar
	a.notifyWg.Wait()
	return artworks, nil
}

// SearchStandardized runs Search with enough per-source depth to fill the
// requested page and returns that window of the concatenated result.
func (a *Aggregator) SearchStandardized(ctx context.Context, params domain.SearchParams) (domain.SearchPage, error) {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = a.defaultPageSize
	}
	if pageSize > a.maxLimit {
		pageSize = a.maxLimit
	}

	depth := page * pageSize
	if depth > a.maxLimit || depth <= 0 {
		depth = a.maxLimit
	}

	artworks, err := a.Search(ctx, params.Query, params.Sources, depth)
	if err != nil {
		return domain.SearchPage{}, err
	}

	total := len(artworks)
	from := (page - 1) * pageSize
	to := from + pageSize
	if from > total {
		from = total
	}
	if to > total {
		to = total
	}

	window := make([]domain.Artwork, to-from)
	copy(window, artworks[from:to])

	return domain.SearchPage{
		Artworks:   window,
		Total:      total,
		Page:       page,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// FetchByID strips the source prefix of compoundID and dispatches the native
// identifier to the matching source.
func (a *Aggregator) FetchByID(ctx context.Context, compoundID string) (domain.Artwork, error) {
	src, nativeID, err := domain.ParseID(compoundID)
	if err != nil {
		return domain.Artwork{}, err
	}
	s, ok := a.sources[src]
	if !ok {
		return domain.Artwork{}, errors.Wrapf(errors.ErrUnknownSource, "source %s is not enabled", src)
	}

	fctx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
	defer cancel()

	art, err := s.FetchArtwork(fctx, nativeID)
	if err != nil {
		a.logger.Debug("fetch failed", "id", compoundID, "error", err.Error())
		return domain.Artwork{}, err
	}
	return art, nil
}

// Facets delega en la primera fuente habilitada que expone clustering.
func (a *Aggregator) Facets(ctx context.Context, facetType, query string, size int) ([]domain.Facet, error) {
	for _, src := range a.Sources() {
		if fs, ok := a.sources[src].(ports.FacetSource); ok {
			return fs.Facets(ctx, facetType, query, size)
		}
	}
	return nil, errors.Wrap(errors.ErrUnknownSource, "no enabled source exposes facets")
}

// Departments delega en la primera fuente habilitada que publica departamentos.
func (a *Aggregator) Departments(ctx context.Context) ([]domain.Department, error) {
	for _, src := range a.Sources() {
		if ds, ok := a.sources[src].(ports.DepartmentSource); ok {
			return ds.Departments(ctx)
		}
	}
	return nil, errors.Wrap(errors.ErrUnknownSource, "no enabled source exposes departments")
}

// Close cierra todas las fuentes y los observers.
func (a *Aggregator) Close() error {
	var errs []error
	for _, src := range a.Sources() {
		if err := a.sources[src].Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "close %s", src))
		}
	}
	for _, o := range a.observers {
		if err := o.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close notifier"))
		}
	}
	return errors.Join(errs...)
}

// resolve maps a selector to enabled sources. "all" silently skips disabled
// sources; naming a disabled source explicitly is an error.
func (a *Aggregator) resolve(selector string) ([]ports.ArtworkSource, error) {
	wanted, err := domain.ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	explicit := !isAll(selector)

	out := make([]ports.ArtworkSource, 0, len(wanted))
	for _, src := range wanted {
		s, ok := a.sources[src]
		if !ok {
			if explicit {
				return nil, errors.Wrapf(errors.ErrUnknownSource, "source %s is not enabled", src)
			}
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(errors.ErrUnknownSource, "no sources enabled")
	}
	return out, nil
}

func (a *Aggregator) clampLimit(limit int) int {
	if limit <= 0 {
		return a.defaultPageSize
	}
	if limit > a.maxLimit {
		return a.maxLimit
	}
	return limit
}

// searchSource races one source's search against the source timeout. The
// source's context carries the same deadline, so in-flight requests are
// released when the race is lost.
func (a *Aggregator) searchSource(ctx context.Context, s ports.ArtworkSource, q domain.SearchQuery, limit int) sourceResult {
	src := s.Name()
	start := time.Now()
	a.logger.Debug("executing source", "source", string(src))

	a.notify(ctx, ports.NewEvent(ports.EventTypeSourceStarted, src, nil))

	sctx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
	defer cancel()

	done := make(chan sourceResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- sourceResult{source: src, err: errors.Errorf("source %s panicked: %v", src, r)}
			}
		}()
		arts, err := s.Search(sctx, q, limit)
		done <- sourceResult{source: src, artworks: arts, err: err}
	}()

	var res sourceResult
	select {
	case res = <-done:
	case <-sctx.Done():
		res = sourceResult{source: src, err: sctx.Err()}
	}
	res.duration = time.Since(start)

	if res.err != nil && ctx.Err() == nil && errors.Is(sctx.Err(), context.DeadlineExceeded) {
		res = sourceResult{source: src, timedOut: true, duration: res.duration}
	}

	switch {
	case res.timedOut:
		a.logger.Warn("source timed out", "source", string(src), "timeout", a.sourceTimeout.String())
		a.notify(ctx, ports.NewEvent(ports.EventTypeSourceTimeout, src, ports.SourceFailedEvent{
			Err:      errors.Wrapf(errors.ErrTimeout, "source %s after %s", src, a.sourceTimeout),
			Duration: res.duration,
		}))
	case res.err != nil:
		a.logger.Warn("source failed", "source", string(src), "error", res.err.Error())
		a.notify(ctx, ports.NewEvent(ports.EventTypeSourceFailed, src, ports.SourceFailedEvent{
			Err:      res.err,
			Duration: res.duration,
		}))
	default:
		res.artworks = labeled(src, res.artworks, a.logger)
		a.logger.Debug("source completed", "source", string(src), "artworks", len(res.artworks))
		a.notify(ctx, ports.NewEvent(ports.EventTypeSourceCompleted, src, ports.SourceCompletedEvent{
			Count:    len(res.artworks),
			Duration: res.duration,
		}))
	}
	return res
}

// consolidate concatena resultados en orden de despacho.
func (a *Aggregator) consolidate(results []sourceResult) ([]domain.Artwork, map[string]error, []domain.Source) {
	total := 0
	for _, r := range results {
		total += len(r.artworks)
	}

	artworks := make([]domain.Artwork, 0, total)
	failures := make(map[string]error)
	timedOut := []domain.Source{}
	for _, r := range results {
		switch {
		case r.timedOut:
			timedOut = append(timedOut, r.source)
		case r.err != nil:
			failures[string(r.source)] = r.err
		default:
			artworks = append(artworks, r.artworks...)
		}
	}
	return artworks, failures, timedOut
}

// notify envía una notificación a todos los observers.
// Usa goroutines con WaitGroup y timeout para evitar leaks y bloqueos.
func (a *Aggregator) notify(ctx context.Context, event ports.Event) {
	for _, observer := range a.observers {
		a.notifyWg.Add(1)
		go func(notifier ports.Notifier) {
			defer a.notifyWg.Done()

			notifyCtx, cancel := context.WithTimeout(ctx, notificationTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- notifier.Notify(notifyCtx, event)
			}()

			select {
			case err := <-done:
				if err != nil {
					a.logger.Warn("notification failed", "error", err.Error())
				}
			case <-notifyCtx.Done():
				if notifyCtx.Err() == context.DeadlineExceeded {
					a.logger.Warn("notification timeout exceeded",
						"timeout", notificationTimeout,
						"event_type", string(event.Type),
					)
				}
			}
		}(observer)
	}
}

// labeled drops artworks whose identity does not match the source that
// produced them.
func labeled(src domain.Source, artworks []domain.Artwork, logger logx.Logger) []domain.Artwork {
	out := make([]domain.Artwork, 0, len(artworks))
	for _, art := range artworks {
		if art.Source != src {
			logger.Warn("artwork with foreign source dropped", "source", string(src), "id", art.ID)
			continue
		}
		if err := art.Validate(); err != nil {
			logger.Warn("invalid artwork dropped", "source", string(src), "error", err.Error())
			continue
		}
		out = append(out, art)
	}
	return out
}

// sourceResult encapsula el resultado de búsqueda de una fuente.
type sourceResult struct {
	source   domain.Source
	artworks []domain.Artwork
	err      error
	timedOut bool
	duration time.Duration
}

func sourceNames(sources []ports.ArtworkSource) []domain.Source {
	out := make([]domain.Source, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Name())
	}
	return out
}

func failedSources(results []sourceResult) []domain.Source {
	out := []domain.Source{}
	for _, r := range results {
		if r.err != nil && !r.timedOut {
			out = append(out, r.source)
		}
	}
	return out
}

func isAll(selector string) bool {
	s := strings.TrimSpace(selector)
	return s == "" || strings.EqualFold(s, domain.SelectorAll)
}
