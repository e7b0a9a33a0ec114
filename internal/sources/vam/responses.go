// internal/sources/vam/responses.go
package vam

import "curatorx/internal/sources/common"

// searchResponse es la respuesta de GET /objects/search.
type searchResponse struct {
	Info    searchInfo      `json:"info"`
	Records []summaryRecord `json:"records"`
}

type searchInfo struct {
	RecordCount int `json:"record_count"`
	Pages       int `json:"pages"`
	Page        int `json:"page"`
	PageSize    int `json:"page_size"`
}

// summaryRecord es un registro de búsqueda: campos "_primary*" ya resumidos.
type summaryRecord struct {
	SystemNumber    string        `json:"systemNumber"`
	AccessionNumber string        `json:"accessionNumber"`
	ObjectType      string        `json:"objectType"`
	PrimaryTitle    string        `json:"_primaryTitle"`
	PrimaryMaker    primaryMaker  `json:"_primaryMaker"`
	PrimaryImageID  string        `json:"_primaryImageId"`
	PrimaryDate     string        `json:"_primaryDate"`
	PrimaryPlace    string        `json:"_primaryPlace"`
	CurrentLocation *locationInfo `json:"_currentLocation"`
}

type primaryMaker struct {
	Name        string `json:"name"`
	Association string `json:"association"`
}

type locationInfo struct {
	DisplayName string `json:"displayName"`
	OnDisplay   bool   `json:"onDisplay"`
}

// objectResponse es la respuesta de GET /museumobject/{systemNumber}.
type objectResponse struct {
	Meta   objectMeta   `json:"meta"`
	Record objectRecord `json:"record"`
}

type objectMeta struct {
	Images struct {
		PrimaryThumbnail string   `json:"_primary_thumbnail"`
		IIIFImage        string   `json:"_iiif_image"`
		AltIIIFImages    []string `json:"_alt_iiif_image"`
	} `json:"images"`
}

// objectRecord es el registro completo de un objeto.
type objectRecord struct {
	SystemNumber           string         `json:"systemNumber"`
	AccessionNumber        string         `json:"accessionNumber"`
	ObjectType             string         `json:"objectType"`
	Titles                 []titleEntry   `json:"titles"`
	BriefDescription       string         `json:"briefDescription"`
	SummaryDescription     string         `json:"summaryDescription"`
	PhysicalDescription    string         `json:"physicalDescription"`
	MaterialsAndTechniques string         `json:"materialsAndTechniques"`
	ArtistMakerPerson      []makerEntry   `json:"artistMakerPerson"`
	ArtistMakerOrg         []makerEntry   `json:"artistMakerOrganisations"`
	ProductionDates        []dateEntry    `json:"productionDates"`
	Dimensions             []dimension    `json:"dimensions"`
	PlacesOfOrigin         []placeEntry   `json:"placesOfOrigin"`
	Categories             []textEntry    `json:"categories"`
	Styles                 []textEntry    `json:"styles"`
	GalleryLocations       []galleryEntry `json:"galleryLocations"`
	CreditLine             string         `json:"creditLine"`
	Images                 []string       `json:"images"`
}

type titleEntry struct {
	Title string `json:"title"`
}

type textEntry struct {
	Text string `json:"text"`
	ID   string `json:"id"`
}

type makerEntry struct {
	Name        textEntry `json:"name"`
	Association textEntry `json:"association"`
}

type dateEntry struct {
	Date textEntry `json:"date"`
}

type placeEntry struct {
	Place textEntry `json:"place"`
}

type galleryEntry struct {
	Current textEntry `json:"current"`
}

type dimension struct {
	Dimension string                `json:"dimension"`
	Value     common.FlexibleString `json:"value"`
	Unit      string                `json:"unit"`
}

// clusterEntry es un término de GET /objects/clusters/{type}/search.
type clusterEntry struct {
	ID    string             `json:"id"`
	Value string             `json:"value"`
	Count common.FlexibleInt `json:"count"`
}
