// internal/core/domain/artwork.go
package domain

import (
	"strings"

	"curatorx/internal/platform/errors"
)

// Artwork es el registro normalizado al que convergen todas las fuentes.
// Es un value object: su única identidad es ID.
type Artwork struct {
	// ID compuesto "<source>:<nativeId>", nunca vacío
	ID string `json:"id"`

	// Source museo de origen
	Source Source `json:"source"`

	Title      string `json:"title"`
	Artist     string `json:"artist"`
	ArtistBio  string `json:"artistBio,omitempty"`
	Culture    string `json:"culture,omitempty"`
	Date       string `json:"date,omitempty"` // texto libre, no se parsea
	Medium     string `json:"medium,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
	Department string `json:"department,omitempty"`

	Description      string   `json:"description,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	SmallImageURL    string   `json:"smallImageUrl,omitempty"`
	AdditionalImages []string `json:"additionalImages"`
	MuseumURL        string   `json:"museumUrl,omitempty"`

	IsHighlight    bool     `json:"isHighlight"`
	IsPublicDomain bool     `json:"isPublicDomain"`
	Tags           []string `json:"tags"`

	// Extra campos nativos sin significado entre fuentes (accessionNumber, galleryNumber...)
	Extra map[string]string `json:"extra,omitempty"`
}

// Claves habituales de Extra.
const (
	ExtraAccessionNumber = "accessionNumber"
	ExtraGalleryNumber   = "galleryNumber"
	ExtraClassification  = "classification"
	ExtraCreditLine      = "creditLine"
	ExtraObjectName      = "objectName"
	ExtraSystemNumber    = "systemNumber"
	ExtraPersistentURL   = "persistentUrl"
)

// Placeholders when an upstream record carries no title or artist.
const (
	UntitledTitle = "Untitled"
	UnknownArtist = "Unknown artist"
)

// NativeID returns the native identifier encoded in ID.
func (a Artwork) NativeID() string {
	_, native, err := ParseID(a.ID)
	if err != nil {
		return ""
	}
	return native
}

// Normalize returns a copy with trimmed text, placeholder title and artist,
// non-nil AdditionalImages and Tags, deduplicated tags and no empty Extra values.
func (a Artwork) Normalize() Artwork {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		a.Title = UntitledTitle
	}
	a.Artist = strings.TrimSpace(a.Artist)
	if a.Artist == "" {
		a.Artist = UnknownArtist
	}
	a.ArtistBio = strings.TrimSpace(a.ArtistBio)
	a.Culture = strings.TrimSpace(a.Culture)
	a.Date = strings.TrimSpace(a.Date)
	a.Medium = strings.TrimSpace(a.Medium)
	a.Dimensions = strings.TrimSpace(a.Dimensions)
	a.Department = strings.TrimSpace(a.Department)
	a.Description = strings.TrimSpace(a.Description)

	a.AdditionalImages = compact(a.AdditionalImages, a.ImageURL)
	a.Tags = compact(a.Tags, "")

	if len(a.Extra) > 0 {
		extra := make(map[string]string, len(a.Extra))
		for k, v := range a.Extra {
			if v = strings.TrimSpace(v); v != "" {
				extra[k] = v
			}
		}
		a.Extra = extra
	}
	if len(a.Extra) == 0 {
		a.Extra = nil
	}
	return a
}

// Validate checks the identity invariants: ID present and prefixed with Source.
func (a Artwork) Validate() error {
	if !a.Source.IsValid() {
		return errors.Wrapf(errors.ErrUnknownSource, "artwork %q", a.ID)
	}
	src, _, err := ParseID(a.ID)
	if err != nil {
		return err
	}
	if src != a.Source {
		return errors.Wrapf(errors.ErrInvalidInput, "artwork id %q does not match source %s", a.ID, a.Source)
	}
	return nil
}

// compact trims, drops empties, drops skip and removes duplicates keeping order.
// The result is never nil.
func compact(values []string, skip string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || v == skip || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
