// internal/sources/met/responses.go
package met

import "curatorx/internal/sources/common"

// searchResponse es la respuesta de GET /search. ObjectIDs is null when
// nothing matches.
type searchResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// objectRecord es la respuesta de GET /objects/{id}.
type objectRecord struct {
	ObjectID          common.FlexibleInt    `json:"objectID"`
	IsHighlight       bool                  `json:"isHighlight"`
	IsPublicDomain    bool                  `json:"isPublicDomain"`
	AccessionNumber   string                `json:"accessionNumber"`
	PrimaryImage      string                `json:"primaryImage"`
	PrimaryImageSmall string                `json:"primaryImageSmall"`
	AdditionalImages  []string              `json:"additionalImages"`
	Department        string                `json:"department"`
	ObjectName        string                `json:"objectName"`
	Title             string                `json:"title"`
	Culture           string                `json:"culture"`
	Period            string                `json:"period"`
	ArtistDisplayName string                `json:"artistDisplayName"`
	ArtistDisplayBio  string                `json:"artistDisplayBio"`
	ObjectDate        string                `json:"objectDate"`
	Medium            string                `json:"medium"`
	Dimensions        string                `json:"dimensions"`
	CreditLine        string                `json:"creditLine"`
	Classification    string                `json:"classification"`
	ObjectURL         string                `json:"objectURL"`
	GalleryNumber     common.FlexibleString `json:"GalleryNumber"`
	Tags              []tagRecord           `json:"tags"`
}

type tagRecord struct {
	Term string `json:"term"`
}

type departmentsResponse struct {
	Departments []departmentRecord `json:"departments"`
}

type departmentRecord struct {
	DepartmentID int    `json:"departmentId"`
	DisplayName  string `json:"displayName"`
}
