// internal/platform/registry/source_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
	"curatorx/internal/platform/batch"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/resilience"
)

// Env agrupa las dependencias compartidas que una factory necesita además de su
// SourceConfig: logger y umbrales de resiliencia y de lotes.
type Env struct {
	Logger     logx.Logger
	Resilience resilience.Config
	Batch      batch.Config
}

// DefaultEnv retorna un Env con valores por defecto y logger silencioso.
func DefaultEnv() Env {
	return Env{
		Logger:     logx.Discard(),
		Resilience: resilience.DefaultConfig(),
		Batch:      batch.DefaultConfig(),
	}
}

// SourceFactory crea una instancia de ArtworkSource.
type SourceFactory func(cfg ports.SourceConfig, env Env) (ports.ArtworkSource, error)

// SourceRegistry gestiona el registro y construcción de sources.
// Implementa el patrón Registry + Factory para desacoplar la creación
// de sources del código de aplicación.
type SourceRegistry struct {
	mu        sync.RWMutex
	factories map[domain.Source]SourceFactory
	metadata  map[domain.Source]ports.SourceMetadata
	logger    logx.Logger
}

var (
	globalRegistry *SourceRegistry
	once           sync.Once
)

// Global retorna la instancia global del registry.
func Global() *SourceRegistry {
	once.Do(func() {
		globalRegistry = NewSourceRegistry(logx.New())
	})
	return globalRegistry
}

// NewSourceRegistry crea un nuevo registry de sources.
func NewSourceRegistry(logger logx.Logger) *SourceRegistry {
	return &SourceRegistry{
		factories: make(map[domain.Source]SourceFactory),
		metadata:  make(map[domain.Source]ports.SourceMetadata),
		logger:    logger.With("component", "source-registry"),
	}
}

// Register registra una source factory con su metadata.
// Típicamente llamado desde init() de cada source package.
func (r *SourceRegistry) Register(name domain.Source, factory SourceFactory, meta ports.SourceMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !name.IsValid() {
		return errors.Wrapf(errors.ErrUnknownSource, "register %q", name)
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for source %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %s is already registered", name)
	}

	meta.Name = name
	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("source registered", "name", name, "auth", meta.RequiresAuth)
	return nil
}

// Build construye las sources habilitadas, ordenadas por prioridad (mayor primero)
// y, a igual prioridad, por orden de despacho. Factory errors are logged and skipped;
// Build fails only when nothing could be built from a non-empty enabled set.
func (r *SourceRegistry) Build(configs map[domain.Source]ports.SourceConfig, env Env) ([]ports.ArtworkSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "source configs cannot be nil")
	}
	if env.Logger == nil {
		env.Logger = logx.Discard()
	}

	type prioritized struct {
		name  domain.Source
		order int
		cfg   ports.SourceConfig
	}

	order := make(map[domain.Source]int)
	for i, src := range domain.AllSources() {
		order[src] = i
	}

	enabled := make([]prioritized, 0, len(configs))
	var buildErrs []error
	for name, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		if _, ok := r.factories[name]; !ok {
			r.logger.Warn("source not registered, skipping", "source", name)
			buildErrs = append(buildErrs, fmt.Errorf("source %s not registered", name))
			continue
		}
		if cfg.Priority < 0 {
			cfg.Priority = 0
		}
		enabled = append(enabled, prioritized{name: name, order: order[name], cfg: cfg})
	}

	sort.Slice(enabled, func(i, j int) bool {
		if enabled[i].cfg.Priority != enabled[j].cfg.Priority {
			return enabled[i].cfg.Priority > enabled[j].cfg.Priority
		}
		return enabled[i].order < enabled[j].order
	})

	sources := make([]ports.ArtworkSource, 0, len(enabled))
	for _, p := range enabled {
		src, err := r.factories[p.name](p.cfg, env)
		if err != nil {
			r.logger.Warn("source build failed", "source", p.name, "error", err.Error())
			buildErrs = append(buildErrs, fmt.Errorf("build source %s: %w", p.name, err))
			continue
		}
		sources = append(sources, src)
		r.logger.Debug("source built", "name", p.name, "priority", p.cfg.Priority)
	}

	if len(sources) == 0 && len(enabled) > 0 {
		return nil, errors.Wrap(errors.Join(buildErrs...), "no sources could be built")
	}

	env.Logger.Debug("sources built", "count", len(sources), "requested", len(configs))
	return sources, nil
}

// List retorna las sources registradas en orden de despacho.
func (r *SourceRegistry) List() []domain.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]domain.Source, 0, len(r.factories))
	for _, src := range domain.AllSources() {
		if _, ok := r.factories[src]; ok {
			names = append(names, src)
		}
	}
	return names
}

// GetMetadata retorna el metadata de una source.
func (r *SourceRegistry) GetMetadata(name domain.Source) (ports.SourceMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.metadata[name]
	return meta, ok
}

// IsRegistered verifica si una source está registrada.
func (r *SourceRegistry) IsRegistered(name domain.Source) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Clear elimina todas las sources registradas (útil para testing).
func (r *SourceRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[domain.Source]SourceFactory)
	r.metadata = make(map[domain.Source]ports.SourceMetadata)
}
