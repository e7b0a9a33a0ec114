// internal/sources/rijks/responses.go
package rijks

import "strings"

// searchResponse es una página de GET /search/collection (ActivityStreams OrderedCollectionPage).
type searchResponse struct {
	OrderedItems []reference `json:"orderedItems"`
	Next         *reference  `json:"next"`
	PartOf       *struct {
		TotalItems int `json:"totalItems"`
	} `json:"partOf"`
}

func (r searchResponse) total() int {
	if r.PartOf == nil {
		return len(r.OrderedItems)
	}
	return r.PartOf.TotalItems
}

func (r searchResponse) nextURL() string {
	if r.Next == nil {
		return ""
	}
	return strings.TrimSpace(r.Next.ID)
}

type reference struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// node es un nodo Linked Art genérico. Only the relations the converter and the
// resolver read are declared; everything else in the graph is ignored.
type node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"_label"`

	Content string `json:"content"`

	ClassifiedAs []node `json:"classified_as"`
	IdentifiedBy []node `json:"identified_by"`
	ReferredToBy []node `json:"referred_to_by"`
	MadeOf       []node `json:"made_of"`

	ProducedBy   *production `json:"produced_by"`
	CarriedOutBy []node      `json:"carried_out_by"`

	Shows            []node `json:"shows"`
	DigitallyShownBy []node `json:"digitally_shown_by"`
	AccessPoint      []node `json:"access_point"`

	SubjectOf []node `json:"subject_of"`
}

// isReference reports whether n only points somewhere else: it has an
// http(s) id and none of the inline relations the resolver looks for.
func (n node) isReference() bool {
	if !strings.HasPrefix(n.ID, "http://") && !strings.HasPrefix(n.ID, "https://") {
		return false
	}
	return len(n.DigitallyShownBy) == 0 && len(n.AccessPoint) == 0
}

func (n node) classifiedAs(aat string) bool {
	for _, c := range n.ClassifiedAs {
		if strings.HasSuffix(strings.TrimRight(c.ID, "/"), aat) {
			return true
		}
	}
	return false
}

type production struct {
	CarriedOutBy []node    `json:"carried_out_by"`
	Part         []node    `json:"part"`
	Timespan     *timespan `json:"timespan"`
}

type timespan struct {
	IdentifiedBy    []node `json:"identified_by"`
	BeginOfTheBegin string `json:"begin_of_the_begin"`
	EndOfTheEnd     string `json:"end_of_the_end"`
}
