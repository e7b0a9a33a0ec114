// internal/sources/rijks/strategy.go
package rijks

import (
	"net/url"

	"curatorx/internal/core/domain"
)

// fallbackType es el tipo genérico usado cuando ningún campo produce resultados.
const fallbackType = "painting"

// strategy construye los filtros nativos de un intento de búsqueda.
// The Search API has no free-text parameter, so a query is tried against
// several filter fields in order until one returns results.
type strategy struct {
	name  string
	build func(q domain.SearchQuery) url.Values
}

// textStrategies se prueban en orden con el texto de la consulta.
var textStrategies = []strategy{
	{name: "title", build: textFilter("title")},
	{name: "creator", build: textFilter("creator")},
	{name: "description", build: textFilter("description")},
}

// fallbackStrategy se usa al final de la cadena, o directamente sin texto.
var fallbackStrategy = strategy{
	name: "fallback",
	build: func(q domain.SearchQuery) url.Values {
		v := structuredFilters(q)
		if v.Get("type") == "" {
			v.Set("type", fallbackType)
		}
		return v
	},
}

// strategiesFor returns the ordered chain for q.
func strategiesFor(q domain.SearchQuery) []strategy {
	if q.Text == "" {
		return []strategy{fallbackStrategy}
	}
	chain := make([]strategy, 0, len(textStrategies)+1)
	chain = append(chain, textStrategies...)
	return append(chain, fallbackStrategy)
}

func textFilter(field string) func(q domain.SearchQuery) url.Values {
	return func(q domain.SearchQuery) url.Values {
		v := structuredFilters(q)
		v.Set(field, q.Text)
		return v
	}
}

// structuredFilters maps the non-text filters every strategy carries.
func structuredFilters(q domain.SearchQuery) url.Values {
	v := url.Values{}
	if q.Maker != "" {
		v.Set("creator", q.Maker)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Technique != "" {
		v.Set("technique", q.Technique)
	}
	if q.Material != "" {
		v.Set("material", q.Material)
	}
	return v
}
