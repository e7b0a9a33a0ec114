// internal/sources/harvard/converter.go
package harvard

import (
	"sort"
	"strconv"
	"strings"

	"curatorx/internal/core/domain"
	"curatorx/internal/sources/common"
)

const artistRole = "artist"

// toArtwork convierte un registro anidado al modelo estandarizado.
func toArtwork(rec objectRecord) domain.Artwork {
	nativeID := rec.ObjectID.String()
	artist := pickArtist(rec.People)
	images := sortedImages(rec.Images)

	imageURL := strings.TrimSpace(rec.PrimaryImageURL)
	if imageURL == "" && len(images) > 0 {
		imageURL = images[0].BaseImageURL
	}

	smallURL := ""
	if len(images) > 0 {
		smallURL = common.IIIFFromServiceURL(images[0].IIIFBaseURI, common.IIIFSizeSmall)
	}

	additional := []string{}
	if len(images) > 1 {
		for _, img := range images[1:] {
			additional = append(additional, img.BaseImageURL)
		}
	}

	extra := map[string]string{
		domain.ExtraAccessionNumber: rec.ObjectNumber,
		domain.ExtraClassification:  rec.Classification,
		domain.ExtraCreditLine:      rec.CreditLine,
	}
	if rec.Gallery != nil {
		extra[domain.ExtraGalleryNumber] = rec.Gallery.GalleryNumber.String()
	}

	art := domain.Artwork{
		ID:               domain.FormatID(domain.SourceHarvard, nativeID),
		Source:           domain.SourceHarvard,
		Title:            common.StripTags(common.FirstNonEmpty(rec.Title, firstTitle(rec.Titles))),
		Artist:           common.StripTags(common.FirstNonEmpty(artist.DisplayName, artist.Name)),
		ArtistBio:        common.JoinNonEmpty(", ", artist.Culture, artist.DisplayDate),
		Culture:          rec.Culture,
		Date:             date(rec),
		Medium:           rec.Medium,
		Dimensions:       rec.Dimensions,
		Department:       common.FirstNonEmpty(rec.Division, rec.Department),
		Description:      common.CleanDescription(common.FirstNonEmpty(rec.Description, rec.LabelText)),
		ImageURL:         imageURL,
		SmallImageURL:    smallURL,
		AdditionalImages: additional,
		MuseumURL:        rec.URL,
		IsPublicDomain:   rec.ImagePermissionLevel.IsSet() && rec.ImagePermissionLevel.Int() == 0,
		Tags:             []string{rec.Classification, rec.Technique, rec.Period},
		Extra:            extra,
	}
	return art.Normalize()
}

// pickArtist prefers the lowest-displayorder person with role Artist, then the
// first person listed.
func pickArtist(people []person) person {
	var best *person
	for i := range people {
		p := &people[i]
		if !strings.EqualFold(strings.TrimSpace(p.Role), artistRole) {
			continue
		}
		if best == nil || p.DisplayOrder < best.DisplayOrder {
			best = p
		}
	}
	if best != nil {
		return *best
	}
	if len(people) > 0 {
		return people[0]
	}
	return person{}
}

func firstTitle(titles []titleEntry) string {
	sorted := make([]titleEntry, 0, len(titles))
	for _, t := range titles {
		if strings.TrimSpace(t.Title) != "" {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DisplayOrder < sorted[j].DisplayOrder })
	if len(sorted) == 0 {
		return ""
	}
	return sorted[0].Title
}

// sortedImages drops entries without a base URL and orders by displayorder.
func sortedImages(images []imageEntry) []imageEntry {
	out := make([]imageEntry, 0, len(images))
	for _, img := range images {
		img.BaseImageURL = strings.TrimSpace(img.BaseImageURL)
		if img.BaseImageURL == "" {
			continue
		}
		out = append(out, img)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// date uses the display string, else the begin/end years.
func date(rec objectRecord) string {
	if d := strings.TrimSpace(rec.Dated); d != "" {
		return d
	}
	begin, end := rec.DateBegin, rec.DateEnd
	switch {
	case begin.IsSet() && end.IsSet() && begin.Int() != end.Int() && begin.Int() != 0:
		return strconv.Itoa(begin.Int()) + "-" + strconv.Itoa(end.Int())
	case begin.IsSet() && begin.Int() != 0:
		return strconv.Itoa(begin.Int())
	case end.IsSet() && end.Int() != 0:
		return strconv.Itoa(end.Int())
	}
	return ""
}
