// internal/testutil/mocks.go
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Nota: los mocks de ports están en sus respectivos paquetes.
// Este archivo contiene solo utilidades genéricas sin dependencias circulares.

// UpstreamStub es un servidor httptest que cuenta llamadas por path.
type UpstreamStub struct {
	Server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  map[string]int
	total  int
}

// NewUpstreamStub crea un stub y lo cierra al terminar el test.
func NewUpstreamStub(t *testing.T) *UpstreamStub {
	t.Helper()

	s := &UpstreamStub{
		routes: make(map[string]http.HandlerFunc),
		calls:  make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Server.Close)
	return s
}

// Handle registra un handler para un path exacto.
func (s *UpstreamStub) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = h
}

// HandleJSON registra un handler que responde v como JSON con status 200.
func (s *UpstreamStub) HandleJSON(path string, v interface{}) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, v)
	})
}

// HandleStatus registra un handler que responde solo con un status.
func (s *UpstreamStub) HandleStatus(path string, status int) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// URL retorna la URL base del stub.
func (s *UpstreamStub) URL() string {
	return s.Server.URL
}

// Calls retorna el número de llamadas recibidas en path.
func (s *UpstreamStub) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// TotalCalls retorna el número total de llamadas recibidas.
func (s *UpstreamStub) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *UpstreamStub) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls[r.URL.Path]++
	s.total++
	h, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h(w, r)
}

// WriteJSON escribe v como JSON con el status indicado.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
