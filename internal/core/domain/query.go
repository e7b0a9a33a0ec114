// internal/core/domain/query.go
package domain

import (
	"strings"

	"curatorx/internal/platform/errors"
)

// SearchQuery es la consulta lógica que cada fuente traduce a sus parámetros nativos.
// Filters a source does not support are ignored by that source.
type SearchQuery struct {
	// Text búsqueda libre
	Text string

	// HasImages restringe a obras con imagen
	HasImages bool

	// DepartmentID filtro de departamento numérico (met)
	DepartmentID int

	// Department filtro de departamento por nombre (harvard)
	Department string

	// Maker filtro de autor (harvard maker, rijks creator)
	Maker string

	// Type tipo de objeto (rijks)
	Type string

	// Material y Technique (rijks material/technique, vam id_material)
	Material  string
	Technique string

	// DateBegin y DateEnd en años; nil = sin límite
	DateBegin *int
	DateEnd   *int

	// HighlightsOnly restringe a obras destacadas (met)
	HighlightsOnly bool
}

// Normalize recorta los campos de texto.
func (q SearchQuery) Normalize() SearchQuery {
	q.Text = strings.TrimSpace(q.Text)
	q.Department = strings.TrimSpace(q.Department)
	q.Maker = strings.TrimSpace(q.Maker)
	q.Type = strings.TrimSpace(q.Type)
	q.Material = strings.TrimSpace(q.Material)
	q.Technique = strings.TrimSpace(q.Technique)
	return q
}

// Validate rechaza rangos de fecha invertidos.
func (q SearchQuery) Validate() error {
	if q.DateBegin != nil && q.DateEnd != nil && *q.DateBegin > *q.DateEnd {
		return errors.Wrapf(errors.ErrInvalidInput, "date range %d..%d is inverted", *q.DateBegin, *q.DateEnd)
	}
	if q.DepartmentID < 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "department id %d", q.DepartmentID)
	}
	return nil
}

// Year returns a pointer to y, for building date filters.
func Year(y int) *int {
	return &y
}

// SearchParams es la entrada de la búsqueda estandarizada paginada.
type SearchParams struct {
	Query SearchQuery

	// Sources selector: "all", "" or a comma-separated list of tags
	Sources string

	// Page 1-based
	Page int

	// PageSize número de artworks por página
	PageSize int
}

// SearchPage es una ventana de resultados estandarizados.
type SearchPage struct {
	Artworks   []Artwork `json:"artworks"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// Facet es un valor de clustering (material, técnica, lugar) con su recuento.
type Facet struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Department es un departamento de colección.
type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
