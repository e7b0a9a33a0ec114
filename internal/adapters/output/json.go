// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"curatorx/internal/core/domain"
)

// SearchResult es el documento JSON de una búsqueda paginada.
type SearchResult struct {
	Query       string    `json:"query"`
	Sources     string    `json:"sources"`
	GeneratedAt time.Time `json:"generatedAt"`
	domain.SearchPage
}

// NewSearchResult envuelve page con la consulta que la produjo.
func NewSearchResult(query, sources string, page domain.SearchPage) SearchResult {
	return SearchResult{
		Query:       query,
		Sources:     sources,
		GeneratedAt: time.Now().UTC(),
		SearchPage:  page,
	}
}

// sanitizeName convierte una consulta en un nombre de carpeta válido.
// Ejemplo: "blue vase" -> "blue_vase"
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "all"
	}
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(sanitized) > 64 {
		sanitized = sanitized[:64]
	}
	return sanitized
}

// SaveJSON guarda v en dir/<query>/curatorx_<query>_<timestamp>.json y
// devuelve la ruta del fichero.
func SaveJSON(dir, query string, v interface{}) (string, error) {
	if dir == "" {
		dir = "."
	}

	name := sanitizeName(query)
	fullDir := filepath.Join(dir, name)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(fullDir, fmt.Sprintf("curatorx_%s_%s.json", name, timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, v, true); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSON codifica v en w.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
