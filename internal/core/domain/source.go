// internal/core/domain/source.go
package domain

import (
	"strings"

	"curatorx/internal/platform/errors"
)

// Source identifica el museo de origen de un artwork.
type Source string

const (
	// SourceMet es la Collection API del Metropolitan Museum (REST paginado)
	SourceMet Source = "met"

	// SourceRijks es la API Linked Art del Rijksmuseum (grafo JSON-LD)
	SourceRijks Source = "rijks"

	// SourceVAM es la Collections API v2 del V&A (búsqueda facetada)
	SourceVAM Source = "vam"

	// SourceHarvard es la API de Harvard Art Museums (JSON anidado, bearer token)
	SourceHarvard Source = "harvard"
)

// SelectorAll selecciona todas las fuentes.
const SelectorAll = "all"

// AllSources retorna las fuentes en orden de despacho.
func AllSources() []Source {
	return []Source{SourceMet, SourceRijks, SourceVAM, SourceHarvard}
}

// IsValid verifica si la fuente es conocida.
func (s Source) IsValid() bool {
	switch s {
	case SourceMet, SourceRijks, SourceVAM, SourceHarvard:
		return true
	default:
		return false
	}
}

// String retorna la representación string de la fuente.
func (s Source) String() string {
	return string(s)
}

// DisplayName retorna el nombre del museo.
func (s Source) DisplayName() string {
	switch s {
	case SourceMet:
		return "The Metropolitan Museum of Art"
	case SourceRijks:
		return "Rijksmuseum"
	case SourceVAM:
		return "Victoria and Albert Museum"
	case SourceHarvard:
		return "Harvard Art Museums"
	default:
		return string(s)
	}
}

// ParseSource convierte un tag en Source.
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if !src.IsValid() {
		return "", errors.Wrapf(errors.ErrUnknownSource, "%q", s)
	}
	return src, nil
}

// ParseSelector resolves "all" (or empty) to every source in dispatch order, and
// a comma-separated list of tags to those sources, deduplicated, in dispatch order.
func ParseSelector(sel string) ([]Source, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" || strings.EqualFold(sel, SelectorAll) {
		return AllSources(), nil
	}

	want := make(map[Source]bool)
	for _, part := range strings.Split(sel, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		src, err := ParseSource(part)
		if err != nil {
			return nil, err
		}
		want[src] = true
	}
	if len(want) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "empty source selector %q", sel)
	}

	out := make([]Source, 0, len(want))
	for _, src := range AllSources() {
		if want[src] {
			out = append(out, src)
		}
	}
	return out, nil
}
