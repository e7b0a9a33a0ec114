// internal/sources/vam/converter.go
package vam

import (
	"strings"

	"curatorx/internal/core/domain"
	"curatorx/internal/sources/common"
)

const (
	imageServiceBase = "https://framemark.vam.ac.uk/collections"
	itemURL          = "https://collections.vam.ac.uk/item/"

	// thumbnailSize encaja la miniatura en 400x400.
	thumbnailSize = "!400,400"
)

// fromSummary convierte un registro de búsqueda.
func fromSummary(rec summaryRecord) domain.Artwork {
	art := domain.Artwork{
		ID:               domain.FormatID(domain.SourceVAM, rec.SystemNumber),
		Source:           domain.SourceVAM,
		Title:            common.StripTags(common.FirstNonEmpty(rec.PrimaryTitle, rec.ObjectType)),
		Artist:           common.StripTags(rec.PrimaryMaker.Name),
		ArtistBio:        rec.PrimaryMaker.Association,
		Culture:          rec.PrimaryPlace,
		Date:             rec.PrimaryDate,
		ImageURL:         image(rec.PrimaryImageID, common.IIIFSizeFull),
		SmallImageURL:    image(rec.PrimaryImageID, thumbnailSize),
		AdditionalImages: []string{},
		MuseumURL:        museumURL(rec.SystemNumber),
		Tags:             common.NonEmpty([]string{rec.ObjectType}),
		Extra: map[string]string{
			domain.ExtraAccessionNumber: rec.AccessionNumber,
			domain.ExtraSystemNumber:    rec.SystemNumber,
		},
	}
	if rec.CurrentLocation != nil {
		art.Department = rec.CurrentLocation.DisplayName
		art.IsHighlight = rec.CurrentLocation.OnDisplay
	}
	return art.Normalize()
}

// fromObject convierte un registro completo. The primary image comes from the
// record's image list, falling back to the meta block.
func fromObject(resp objectResponse) domain.Artwork {
	rec := resp.Record

	images := common.NonEmpty(rec.Images)
	primaryID := ""
	if len(images) > 0 {
		primaryID = images[0]
	}

	imageURL := image(primaryID, common.IIIFSizeFull)
	smallURL := image(primaryID, thumbnailSize)
	if imageURL == "" {
		if base := strings.TrimSpace(resp.Meta.Images.IIIFImage); base != "" {
			imageURL = common.IIIFFromServiceURL(base, common.IIIFSizeFull)
			smallURL = common.IIIFFromServiceURL(base, thumbnailSize)
		}
	}
	if smallURL == "" {
		smallURL = resp.Meta.Images.PrimaryThumbnail
	}

	additional := []string{}
	if len(images) > 1 {
		for _, id := range images[1:] {
			additional = append(additional, image(id, common.IIIFSizeFull))
		}
	}

	maker := firstMaker(rec.ArtistMakerPerson, rec.ArtistMakerOrg)

	art := domain.Artwork{
		ID:               domain.FormatID(domain.SourceVAM, rec.SystemNumber),
		Source:           domain.SourceVAM,
		Title:            common.StripTags(common.FirstNonEmpty(firstTitle(rec.Titles), rec.ObjectType)),
		Artist:           common.StripTags(maker.Name.Text),
		ArtistBio:        maker.Association.Text,
		Culture:          firstPlace(rec.PlacesOfOrigin),
		Date:             firstDate(rec.ProductionDates),
		Medium:           rec.MaterialsAndTechniques,
		Dimensions:       formatDimensions(rec.Dimensions),
		Department:       firstGallery(rec.GalleryLocations),
		Description:      common.CleanDescription(common.FirstNonEmpty(rec.SummaryDescription, rec.BriefDescription, rec.PhysicalDescription)),
		ImageURL:         imageURL,
		SmallImageURL:    smallURL,
		AdditionalImages: additional,
		MuseumURL:        museumURL(rec.SystemNumber),
		Tags:             tags(rec),
		Extra: map[string]string{
			domain.ExtraAccessionNumber: rec.AccessionNumber,
			domain.ExtraSystemNumber:    rec.SystemNumber,
			domain.ExtraCreditLine:      rec.CreditLine,
			domain.ExtraObjectName:      rec.ObjectType,
		},
	}
	return art.Normalize()
}

func toFacets(entries []clusterEntry) []domain.Facet {
	out := make([]domain.Facet, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Value) == "" {
			continue
		}
		out = append(out, domain.Facet{ID: e.ID, Value: strings.TrimSpace(e.Value), Count: e.Count.Int()})
	}
	return out
}

func image(id, size string) string {
	return common.IIIFImageURL(imageServiceBase, id, size)
}

func museumURL(systemNumber string) string {
	if strings.TrimSpace(systemNumber) == "" {
		return ""
	}
	return itemURL + strings.TrimSpace(systemNumber)
}

func firstTitle(titles []titleEntry) string {
	for _, t := range titles {
		if strings.TrimSpace(t.Title) != "" {
			return t.Title
		}
	}
	return ""
}

func firstMaker(groups ...[]makerEntry) makerEntry {
	for _, g := range groups {
		for _, m := range g {
			if strings.TrimSpace(m.Name.Text) != "" {
				return m
			}
		}
	}
	return makerEntry{}
}

func firstPlace(places []placeEntry) string {
	for _, p := range places {
		if v := strings.TrimSpace(p.Place.Text); v != "" {
			return v
		}
	}
	return ""
}

func firstDate(dates []dateEntry) string {
	for _, d := range dates {
		if v := strings.TrimSpace(d.Date.Text); v != "" {
			return v
		}
	}
	return ""
}

func firstGallery(locations []galleryEntry) string {
	for _, g := range locations {
		if v := strings.TrimSpace(g.Current.Text); v != "" {
			return v
		}
	}
	return ""
}

// formatDimensions renders "Height: 52.5 cm; Width: 38 cm".
func formatDimensions(dims []dimension) string {
	parts := make([]string, 0, len(dims))
	for _, d := range dims {
		value := d.Value.String()
		if value == "" {
			continue
		}
		part := common.JoinNonEmpty(" ", value, d.Unit)
		if d.Dimension != "" {
			part = d.Dimension + ": " + part
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

func tags(rec objectRecord) []string {
	out := make([]string, 0, len(rec.Categories)+len(rec.Styles)+1)
	out = append(out, rec.ObjectType)
	for _, c := range rec.Categories {
		out = append(out, c.Text)
	}
	for _, s := range rec.Styles {
		out = append(out, s.Text)
	}
	return out
}
