// internal/sources/rijks/resolver.go
package rijks

import (
	"context"
	"regexp"
	"time"

	"curatorx/internal/platform/cache"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
)

const (
	// defaultMaxDepth limita los saltos de referencia desde el registro.
	defaultMaxDepth = 2

	defaultNodeTTL   = 30 * time.Minute
	defaultNodeCache = 2048
)

// imageServicePattern reconoce access points del servicio IIIF y captura el identificador.
var imageServicePattern = regexp.MustCompile(`^https?://iiif\.micr\.io/([A-Za-z0-9_-]+)`)

// dereferencer resuelve la URL de un nodo Linked Art.
type dereferencer func(ctx context.Context, nodeURL string) (node, error)

// resolver localiza el identificador de imagen de un objeto siguiendo
// shows -> digitally_shown_by -> access_point. Resolved nodes are cached for
// the lifetime of the source; nothing is persisted.
type resolver struct {
	fetch    dereferencer
	nodes    *cache.Memory[node]
	ttl      time.Duration
	maxDepth int
	logger   logx.Logger
}

func newResolver(fetch dereferencer, maxDepth int, logger logx.Logger) *resolver {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &resolver{
		fetch:    fetch,
		nodes:    cache.New[node](defaultNodeCache),
		ttl:      defaultNodeTTL,
		maxDepth: maxDepth,
		logger:   logger.With("component", "resolver"),
	}
}

// ImageID returns the image service identifier for rec, or "" when the graph
// holds none. Dereference failures are logged and skipped; resolution never
// fails the caller.
func (r *resolver) ImageID(ctx context.Context, rec node) string {
	for _, visual := range rec.Shows {
		if id := r.fromVisualItem(ctx, visual, 1); id != "" {
			return id
		}
		if ctx.Err() != nil {
			break
		}
	}

	r.logger.Debug("no image identifier",
		"object", rec.ID,
		"error", errors.ErrResolutionFailed.Error(),
	)
	return ""
}

func (r *resolver) fromVisualItem(ctx context.Context, visual node, depth int) string {
	visual, ok := r.resolve(ctx, visual, depth)
	if !ok {
		return ""
	}
	for _, digital := range visual.DigitallyShownBy {
		if id := r.fromDigitalObject(ctx, digital, depth+1); id != "" {
			return id
		}
	}
	return ""
}

func (r *resolver) fromDigitalObject(ctx context.Context, digital node, depth int) string {
	if id := matchAccessPoints(digital.AccessPoint); id != "" {
		return id
	}
	digital, ok := r.resolve(ctx, digital, depth)
	if !ok {
		return ""
	}
	return matchAccessPoints(digital.AccessPoint)
}

// resolve dereferences n when it is a bare reference and depth allows it.
func (r *resolver) resolve(ctx context.Context, n node, depth int) (node, bool) {
	if !n.isReference() {
		return n, true
	}
	if depth > r.maxDepth {
		return node{}, false
	}

	resolved, err := r.nodes.GetOrLoad(ctx, n.ID, r.ttl, func(ctx context.Context) (node, error) {
		return r.fetch(ctx, n.ID)
	})
	if err != nil {
		r.logger.Debug("dereference failed", "node", n.ID, "depth", depth, "error", err.Error())
		return node{}, false
	}
	return resolved, true
}

// Close vacía la caché de nodos.
func (r *resolver) Close() {
	r.nodes.Clear()
}

func matchAccessPoints(points []node) string {
	for _, ap := range points {
		if m := imageServicePattern.FindStringSubmatch(ap.ID); m != nil {
			return m[1]
		}
	}
	return ""
}
