// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
)

// mockSource es un mock de ports.ArtworkSource para tests del aggregator
type mockSource struct {
	mock.Mock
	name domain.Source
}

func newMockSource(name domain.Source) *mockSource {
	return &mockSource{name: name}
}

func (m *mockSource) Name() domain.Source {
	return m.name
}

func (m *mockSource) Search(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.Artwork, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Artwork), args.Error(1)
}

func (m *mockSource) FetchArtwork(ctx context.Context, nativeID string) (domain.Artwork, error) {
	args := m.Called(ctx, nativeID)
	return args.Get(0).(domain.Artwork), args.Error(1)
}

func (m *mockSource) Close() error {
	// Mock source no tiene recursos que liberar
	return nil
}

// mockFacetSource añade Facets y Departments al mock.
type mockFacetSource struct {
	*mockSource
}

func (m mockFacetSource) Facets(ctx context.Context, facetType, query string, size int) ([]domain.Facet, error) {
	args := m.Called(ctx, facetType, query, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Facet), args.Error(1)
}

func (m mockFacetSource) Departments(ctx context.Context) ([]domain.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Department), args.Error(1)
}

// artworks builds n valid artworks for src.
func artworks(src domain.Source, n int) []domain.Artwork {
	out := make([]domain.Artwork, 0, n)
	for i := 0; i < n; i++ {
		native := string(rune('a' + i))
		out = append(out, domain.Artwork{
			ID:     domain.FormatID(src, native),
			Source: src,
			Title:  "Work " + native,
		}.Normalize())
	}
	return out
}

// mockNotifier es un mock de ports.Notifier para tests
type mockNotifier struct {
	mu              sync.Mutex
	notifyFunc      func(ctx context.Context, event ports.Event) error
	notifyCallCount int
	events          []ports.Event
	closed          bool
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{events: []ports.Event{}}
}

func (m *mockNotifier) Notify(ctx context.Context, event ports.Event) error {
	m.mu.Lock()
	m.notifyCallCount++
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, event)
	}
	return nil
}

func (m *mockNotifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// getEventsByType returns events filtered by type
func (m *mockNotifier) getEventsByType(eventType ports.EventType) []ports.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var filtered []ports.Event
	for _, e := range m.events {
		if e.Type == eventType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// getNotifyCallCount returns the number of times Notify was called (thread-safe)
func (m *mockNotifier) getNotifyCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifyCallCount
}
