// internal/sources/rijks/converter.go
package rijks

import (
	"strings"

	"curatorx/internal/core/domain"
	"curatorx/internal/sources/common"
)

const (
	imageServiceBase = "https://iiif.micr.io"
	collectionURL    = "https://www.rijksmuseum.nl/en/collection/"
)

// Conceptos AAT usados para clasificar nombres y declaraciones.
const (
	aatPreferredTerm      = "300404670"
	aatDescription        = "300435452"
	aatMaterialStatement  = "300435429"
	aatDimensionStatement = "300435430"
	aatCreditLine         = "300435418"
	aatAccessionNumber    = "300312355"
)

// toArtwork convierte un objeto Linked Art. imageID is the identifier found by
// the resolver and may be empty, in which case the artwork has no images.
func toArtwork(nativeID, persistentURL string, rec node, imageID string) domain.Artwork {
	accession := accessionNumber(rec)

	art := domain.Artwork{
		ID:          domain.FormatID(domain.SourceRijks, nativeID),
		Source:      domain.SourceRijks,
		Title:       common.StripTags(title(rec)),
		Artist:      common.StripTags(artist(rec)),
		Date:        date(rec),
		Medium:      common.FirstNonEmpty(statement(rec, aatMaterialStatement), materials(rec)),
		Dimensions:  statement(rec, aatDimensionStatement),
		Description: common.CleanDescription(statement(rec, aatDescription)),

		ImageURL:         common.IIIFImageURL(imageServiceBase, imageID, common.IIIFSizeMax),
		SmallImageURL:    common.IIIFImageURL(imageServiceBase, imageID, common.IIIFSizeSmall),
		AdditionalImages: []string{},
		IsPublicDomain:   imageID != "",
		Tags:             classifications(rec),
		Extra: map[string]string{
			domain.ExtraAccessionNumber: accession,
			domain.ExtraCreditLine:      statement(rec, aatCreditLine),
			domain.ExtraPersistentURL:   persistentURL,
		},
	}
	if accession != "" {
		art.MuseumURL = collectionURL + accession
	}
	return art.Normalize()
}

// title: preferred Name, else first Name, else the node label.
func title(rec node) string {
	first := ""
	for _, n := range rec.IdentifiedBy {
		if n.Type != "Name" || strings.TrimSpace(n.Content) == "" {
			continue
		}
		if n.classifiedAs(aatPreferredTerm) {
			return n.Content
		}
		if first == "" {
			first = n.Content
		}
	}
	return common.FirstNonEmpty(first, rec.Label)
}

// artist: production-level carriers, else carriers of production parts.
func artist(rec node) string {
	if rec.ProducedBy == nil {
		return ""
	}
	if name := carrierName(rec.ProducedBy.CarriedOutBy); name != "" {
		return name
	}
	for _, part := range rec.ProducedBy.Part {
		if name := carrierName(part.CarriedOutBy); name != "" {
			return name
		}
	}
	return ""
}

func carrierName(carriers []node) string {
	for _, c := range carriers {
		if name := common.FirstNonEmpty(c.Label, nameContent(c)); name != "" {
			return name
		}
	}
	return ""
}

func nameContent(n node) string {
	for _, id := range n.IdentifiedBy {
		if id.Type == "Name" && strings.TrimSpace(id.Content) != "" {
			return id.Content
		}
	}
	return ""
}

// date: display name of the timespan, else its begin (and end) year.
func date(rec node) string {
	if rec.ProducedBy == nil || rec.ProducedBy.Timespan == nil {
		return ""
	}
	ts := rec.ProducedBy.Timespan
	for _, n := range ts.IdentifiedBy {
		if c := strings.TrimSpace(n.Content); c != "" {
			return c
		}
	}

	begin, end := yearOf(ts.BeginOfTheBegin), yearOf(ts.EndOfTheEnd)
	if begin != "" && end != "" && begin != end {
		return begin + "-" + end
	}
	return common.FirstNonEmpty(begin, end)
}

// yearOf extracts the year of an xsd:dateTime, keeping a leading minus for BCE.
func yearOf(ts string) string {
	ts = strings.TrimSpace(ts)
	neg := strings.HasPrefix(ts, "-")
	ts = strings.TrimPrefix(ts, "-")
	year, _, _ := strings.Cut(ts, "-")
	year = strings.TrimLeft(year, "0")
	if year == "" {
		return ""
	}
	if neg {
		return "-" + year
	}
	return year
}

// statement returns the first LinguisticObject classified as aat.
func statement(rec node, aat string) string {
	for _, n := range rec.ReferredToBy {
		if n.classifiedAs(aat) && strings.TrimSpace(n.Content) != "" {
			return n.Content
		}
	}
	return ""
}

func materials(rec node) string {
	labels := make([]string, 0, len(rec.MadeOf))
	for _, m := range rec.MadeOf {
		labels = append(labels, m.Label)
	}
	return common.JoinNonEmpty(", ", labels...)
}

func accessionNumber(rec node) string {
	first := ""
	for _, n := range rec.IdentifiedBy {
		if n.Type != "Identifier" || strings.TrimSpace(n.Content) == "" {
			continue
		}
		if n.classifiedAs(aatAccessionNumber) {
			return strings.TrimSpace(n.Content)
		}
		if first == "" {
			first = strings.TrimSpace(n.Content)
		}
	}
	return first
}

func classifications(rec node) []string {
	tags := make([]string, 0, len(rec.ClassifiedAs))
	for _, c := range rec.ClassifiedAs {
		tags = append(tags, c.Label)
	}
	return tags
}
