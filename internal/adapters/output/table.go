// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pterm/pterm"

	"curatorx/internal/core/domain"
	"curatorx/internal/core/ports"
)

// maxCellWidth corta títulos y nombres largos en las tablas
const maxCellWidth = 48

// SourceInfo es una fila del listado de fuentes.
type SourceInfo struct {
	Metadata ports.SourceMetadata
	Enabled  bool
	Priority int
}

// TablePage imprime una página de resultados estandarizada.
func TablePage(w io.Writer, query string, page domain.SearchPage) error {
	fmt.Fprintf(w, "\n=== CuratorX Results ===\n")
	if query != "" {
		fmt.Fprintf(w, "Query:    %s\n", query)
	}
	fmt.Fprintf(w, "Page:     %d/%d\n", page.Page, max(page.TotalPages, 1))
	fmt.Fprintf(w, "Total:    %d\n\n", page.Total)
	return TableArtworks(w, page.Artworks)
}

// TableArtworks imprime una fila por artwork.
func TableArtworks(w io.Writer, artworks []domain.Artwork) error {
	if len(artworks) == 0 {
		fmt.Fprintln(w, "No artworks found.")
		return nil
	}

	data := pterm.TableData{{"ID", "TITLE", "ARTIST", "DATE", "IMAGE"}}
	for _, a := range artworks {
		image := ""
		if a.ImageURL != "" {
			image = "✓"
		}
		data = append(data, []string{
			a.ID,
			truncate(a.Title, maxCellWidth),
			truncate(a.Artist, maxCellWidth),
			a.Date,
			image,
		})
	}
	return renderTable(w, data)
}

// TableArtwork imprime el detalle de un artwork como pares clave/valor.
func TableArtwork(w io.Writer, a domain.Artwork) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== %s ===\n", a.Title)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}
	row("ID", a.ID)
	row("Museum", a.Source.DisplayName())
	row("Artist", a.Artist)
	row("Artist bio", a.ArtistBio)
	row("Date", a.Date)
	row("Culture", a.Culture)
	row("Medium", a.Medium)
	row("Dimensions", a.Dimensions)
	row("Department", a.Department)
	row("Image", a.ImageURL)
	row("Thumbnail", a.SmallImageURL)
	row("Museum page", a.MuseumURL)
	row("Highlight", yesNo(a.IsHighlight))
	row("Public domain", yesNo(a.IsPublicDomain))
	if len(a.Tags) > 0 {
		row("Tags", strings.Join(a.Tags, ", "))
	}
	if len(a.AdditionalImages) > 0 {
		row("More images", strconv.Itoa(len(a.AdditionalImages)))
	}

	keys := make([]string, 0, len(a.Extra))
	for k := range a.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row(k, a.Extra[k])
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}

	if a.Description != "" {
		fmt.Fprintf(w, "\n%s\n", a.Description)
	}
	fmt.Fprintln(w)
	return nil
}

// TableFacets imprime valores de faceta ordenados por recuento.
func TableFacets(w io.Writer, facetType string, facets []domain.Facet) error {
	if len(facets) == 0 {
		fmt.Fprintf(w, "No %s facets found.\n", facetType)
		return nil
	}

	data := pterm.TableData{{strings.ToUpper(facetType), "ID", "COUNT"}}
	for _, f := range facets {
		data = append(data, []string{f.Value, f.ID, strconv.Itoa(f.Count)})
	}
	return renderTable(w, data)
}

// TableDepartments imprime los departamentos de colección.
func TableDepartments(w io.Writer, departments []domain.Department) error {
	if len(departments) == 0 {
		fmt.Fprintln(w, "No departments found.")
		return nil
	}

	data := pterm.TableData{{"ID", "DEPARTMENT"}}
	for _, d := range departments {
		data = append(data, []string{strconv.Itoa(d.ID), d.Name})
	}
	return renderTable(w, data)
}

// TableSources imprime las fuentes registradas y su estado.
func TableSources(w io.Writer, sources []SourceInfo) error {
	data := pterm.TableData{{"SOURCE", "MUSEUM", "ENABLED", "PRIORITY", "AUTH", "CAPABILITIES"}}
	for _, s := range sources {
		data = append(data, []string{
			string(s.Metadata.Name),
			s.Metadata.DisplayName,
			yesNo(s.Enabled),
			strconv.Itoa(s.Priority),
			yesNo(s.Metadata.RequiresAuth),
			strings.Join(s.Metadata.Capabilities, ","),
		})
	}
	return renderTable(w, data)
}

func renderTable(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintln(w, out)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
