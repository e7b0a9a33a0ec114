// internal/sources/met/converter.go
package met

import (
	"curatorx/internal/core/domain"
	"curatorx/internal/sources/common"
)

// toArtwork convierte un objectRecord al modelo estandarizado. nativeID is the
// identifier used for the fetch; when empty the record's objectID is used.
// Missing fields degrade to empty values, never to an error.
func toArtwork(nativeID string, rec objectRecord) domain.Artwork {
	if nativeID == "" {
		nativeID = rec.ObjectID.String()
	}

	tags := make([]string, 0, len(rec.Tags))
	for _, t := range rec.Tags {
		tags = append(tags, t.Term)
	}

	art := domain.Artwork{
		ID:               domain.FormatID(domain.SourceMet, nativeID),
		Source:           domain.SourceMet,
		Title:            common.StripTags(common.FirstNonEmpty(rec.Title, rec.ObjectName)),
		Artist:           common.StripTags(rec.ArtistDisplayName),
		ArtistBio:        rec.ArtistDisplayBio,
		Culture:          common.FirstNonEmpty(rec.Culture, rec.Period),
		Date:             rec.ObjectDate,
		Medium:           rec.Medium,
		Dimensions:       rec.Dimensions,
		Department:       rec.Department,
		ImageURL:         rec.PrimaryImage,
		SmallImageURL:    common.FirstNonEmpty(rec.PrimaryImageSmall, rec.PrimaryImage),
		AdditionalImages: rec.AdditionalImages,
		MuseumURL:        rec.ObjectURL,
		IsHighlight:      rec.IsHighlight,
		IsPublicDomain:   rec.IsPublicDomain,
		Tags:             tags,
		Extra: map[string]string{
			domain.ExtraAccessionNumber: rec.AccessionNumber,
			domain.ExtraGalleryNumber:   rec.GalleryNumber.String(),
			domain.ExtraClassification:  rec.Classification,
			domain.ExtraCreditLine:      rec.CreditLine,
			domain.ExtraObjectName:      rec.ObjectName,
		},
	}
	return art.Normalize()
}

func toDepartments(recs []departmentRecord) []domain.Department {
	out := make([]domain.Department, 0, len(recs))
	for _, r := range recs {
		if r.DepartmentID == 0 {
			continue
		}
		out = append(out, domain.Department{ID: r.DepartmentID, Name: r.DisplayName})
	}
	return out
}
