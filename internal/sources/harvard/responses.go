// internal/sources/harvard/responses.go
package harvard

import "curatorx/internal/sources/common"

// searchResponse es la respuesta de GET /object.
type searchResponse struct {
	Info    searchInfo     `json:"info"`
	Records []objectRecord `json:"records"`
}

type searchInfo struct {
	TotalRecords int `json:"totalrecords"`
	Pages        int `json:"pages"`
	Page         int `json:"page"`
}

// loginResponse es la respuesta de POST /login.
type loginResponse struct {
	Token string `json:"token"`
}

// objectRecord es el registro anidado de un objeto.
type objectRecord struct {
	ObjectID             common.FlexibleString `json:"objectid"`
	ObjectNumber         string                `json:"objectnumber"`
	Title                string                `json:"title"`
	Titles               []titleEntry          `json:"titles"`
	People               []person              `json:"people"`
	Culture              string                `json:"culture"`
	Dated                string                `json:"dated"`
	DateBegin            common.FlexibleInt    `json:"datebegin"`
	DateEnd              common.FlexibleInt    `json:"dateend"`
	Medium               string                `json:"medium"`
	Technique            string                `json:"technique"`
	Period               string                `json:"period"`
	Classification       string                `json:"classification"`
	Dimensions           string                `json:"dimensions"`
	Division             string                `json:"division"`
	Department           string                `json:"department"`
	Description          string                `json:"description"`
	LabelText            string                `json:"labeltext"`
	CreditLine           string                `json:"creditline"`
	URL                  string                `json:"url"`
	PrimaryImageURL      string                `json:"primaryimageurl"`
	Images               []imageEntry          `json:"images"`
	ImagePermissionLevel common.FlexibleInt    `json:"imagepermissionlevel"`
	Gallery              *gallery              `json:"gallery"`
}

type titleEntry struct {
	Title        string `json:"title"`
	DisplayOrder int    `json:"displayorder"`
}

type person struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayname"`
	Role         string `json:"role"`
	Culture      string `json:"culture"`
	DisplayDate  string `json:"displaydate"`
	DisplayOrder int    `json:"displayorder"`
}

type imageEntry struct {
	BaseImageURL string `json:"baseimageurl"`
	IIIFBaseURI  string `json:"iiifbaseuri"`
	DisplayOrder int    `json:"displayorder"`
}

type gallery struct {
	Name          string                `json:"name"`
	GalleryNumber common.FlexibleString `json:"gallerynumber"`
}
