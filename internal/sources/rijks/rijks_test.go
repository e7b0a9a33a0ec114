// internal/sources/rijks/rijks_test.go
package rijks

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"curatorx/internal/core/domain"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
	"curatorx/internal/testutil"
)

func testOptions(baseURL string) Options {
	opts := DefaultOptions()
	opts.BaseURL = baseURL
	opts.IDBaseURL = baseURL
	return opts
}

func page(base string, ids ...string) map[string]interface{} {
	items := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]string{"id": base + "/" + id, "type": "HumanMadeObject"})
	}
	return map[string]interface{}{
		"orderedItems": items,
		"partOf":       map[string]int{"totalItems": len(ids)},
	}
}

func nightWatch(base, id string) map[string]interface{} {
	return map[string]interface{}{
		"id":     base + "/" + id,
		"type":   "HumanMadeObject",
		"_label": "Night Watch",
		"identified_by": []map[string]interface{}{
			{"type": "Name", "content": "De Nachtwacht"},
			{
				"type":          "Name",
				"content":       "The Night Watch",
				"classified_as": []map[string]string{{"id": "http://vocab.getty.edu/aat/" + aatPreferredTerm}},
			},
			{
				"type":          "Identifier",
				"content":       "SK-C-5",
				"classified_as": []map[string]string{{"id": "http://vocab.getty.edu/aat/" + aatAccessionNumber}},
			},
		},
		"classified_as": []map[string]string{{"id": "http://vocab.getty.edu/aat/300033618", "_label": "painting"}},
		"referred_to_by": []map[string]interface{}{
			{
				"type":          "LinguisticObject",
				"content":       "h 379.5cm × w 453.5cm",
				"classified_as": []map[string]string{{"id": "http://vocab.getty.edu/aat/" + aatDimensionStatement}},
			},
			{
				"type":          "LinguisticObject",
				"content":       "<p>Rembrandt's largest painting.</p>",
				"classified_as": []map[string]string{{"id": "http://vocab.getty.edu/aat/" + aatDescription}},
			},
		},
		"made_of": []map[string]string{{"_label": "oil paint"}, {"_label": "canvas"}},
		"produced_by": map[string]interface{}{
			"carried_out_by": []map[string]string{{"id": base + "/agent/1", "_label": "Rembrandt van Rijn"}},
			"timespan": map[string]interface{}{
				"begin_of_the_begin": "1642-01-01T00:00:00",
				"end_of_the_end":     "1642-12-31T23:59:59",
			},
		},
		"shows": []map[string]string{{"id": base + "/visual/" + id, "type": "VisualItem"}},
	}
}

// serveGraph registra el objeto id con su VisualItem y DigitalObject referenciados.
func serveGraph(stub *testutil.UpstreamStub, id, iiifID string) {
	base := stub.URL()
	stub.HandleJSON("/"+id, nightWatch(base, id))
	stub.HandleJSON("/visual/"+id, map[string]interface{}{
		"id":                 base + "/visual/" + id,
		"type":               "VisualItem",
		"digitally_shown_by": []map[string]string{{"id": base + "/digital/" + id, "type": "DigitalObject"}},
	})
	stub.HandleJSON("/digital/"+id, map[string]interface{}{
		"id":           base + "/digital/" + id,
		"type":         "DigitalObject",
		"access_point": []map[string]string{{"id": "https://iiif.micr.io/" + iiifID + "/full/max/0/default.jpg"}},
	})
}

type recordedQueries struct {
	mu     sync.Mutex
	fields []string
}

func (r *recordedQueries) add(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields = append(r.fields, field)
}

func (r *recordedQueries) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fields...)
}

func TestRijks_StrategyChain(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	seen := &recordedQueries{}
	stub.Handle(searchEndpoint, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		testutil.AssertEqual(t, q.Get("imageAvailable"), "true", "images only")
		switch {
		case q.Get("title") != "":
			seen.add("title")
			testutil.WriteJSON(w, http.StatusOK, page(stub.URL()))
		case q.Get("creator") != "":
			seen.add("creator")
			testutil.WriteJSON(w, http.StatusOK, page(stub.URL(), "200107928"))
		default:
			seen.add("other")
			testutil.WriteJSON(w, http.StatusOK, page(stub.URL()))
		}
	})
	serveGraph(stub, "200107928", "PJEZO")

	r := New(testOptions(stub.URL()), logx.Discard())
	got, err := r.Search(context.Background(), domain.SearchQuery{Text: "rembrandt"}, 5)

	testutil.AssertNoError(t, err, "should succeed")
	testutil.AssertEqual(t, len(got), 1, "one artwork")
	testutil.AssertEqual(t, strings.Join(seen.list(), ","), "title,creator", "stops at first non-empty strategy")

	a := got[0]
	testutil.AssertEqual(t, a.ID, "rijks:200107928", "compound id")
	testutil.AssertEqual(t, a.Title, "The Night Watch", "preferred title wins")
	testutil.AssertEqual(t, a.Artist, "Rembrandt van Rijn", "artist")
	testutil.AssertEqual(t, a.Date, "1642", "same begin and end year")
	testutil.AssertEqual(t, a.Medium, "oil paint, canvas", "materials from made_of")
	testutil.AssertEqual(t, a.ImageURL, "https://iiif.micr.io/PJEZO/full/max/0/default.jpg", "full image")
	testutil.AssertEqual(t, a.SmallImageURL, "https://iiif.micr.io/PJEZO/full/400,/0/default.jpg", "thumbnail")
	testutil.AssertEqual(t, a.MuseumURL, "https://www.rijksmuseum.nl/en/collection/SK-C-5", "museum url")
	testutil.AssertContains(t, a.Description, "largest painting", "description cleaned")
}

func TestRijks_FallbackStrategy(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	var fallbackType string
	stub.Handle(searchEndpoint, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("title") == "" && q.Get("creator") == "" && q.Get("description") == "" {
			fallbackType = q.Get("type")
			testutil.WriteJSON(w, http.StatusOK, page(stub.URL(), "1"))
			return
		}
		testutil.WriteJSON(w, http.StatusOK, page(stub.URL()))
	})
	serveGraph(stub, "1", "AAAA")

	r := New(testOptions(stub.URL()), logx.Discard())
	got, err := r.Search(context.Background(), domain.SearchQuery{Text: "qwertyuiop"}, 5)

	testutil.AssertNoError(t, err, "should succeed")
	testutil.AssertEqual(t, len(got), 1, "fallback produced results")
	testutil.AssertEqual(t, fallbackType, "painting", "generic type filter")
	testutil.AssertEqual(t, stub.Calls(searchEndpoint), 4, "title, creator, description, fallback")
}

func TestRijks_EmptyQueryGoesStraightToFallback(t *testing.T) {
	chain := strategiesFor(domain.SearchQuery{})
	testutil.AssertEqual(t, len(chain), 1, "only fallback")
	testutil.AssertEqual(t, chain[0].name, "fallback", "fallback strategy")

	chain = strategiesFor(domain.SearchQuery{Text: "x"})
	testutil.AssertEqual(t, len(chain), 4, "three text fields plus fallback")
}

func TestStrategies_BuildFilters(t *testing.T) {
	q := domain.SearchQuery{Text: "sunflowers", Maker: "Vincent van Gogh", Material: "canvas"}

	v := textStrategies[0].build(q)
	testutil.AssertEqual(t, v.Get("title"), "sunflowers", "title field")
	testutil.AssertEqual(t, v.Get("creator"), "Vincent van Gogh", "maker carried along")
	testutil.AssertEqual(t, v.Get("material"), "canvas", "material carried along")

	v = fallbackStrategy.build(domain.SearchQuery{Type: "print"})
	testutil.AssertEqual(t, v.Get("type"), "print", "explicit type beats the generic one")
}

func TestRijks_PartialFailure(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleJSON(searchEndpoint, page(stub.URL(), "1", "2", "3"))
	serveGraph(stub, "1", "AAAA")
	serveGraph(stub, "3", "CCCC")
	stub.HandleStatus("/2", http.StatusInternalServerError)

	r := New(testOptions(stub.URL()), logx.Discard())
	got, err := r.Search(context.Background(), domain.SearchQuery{Text: "x"}, 3)

	testutil.AssertNoError(t, err, "failed object is dropped, not propagated")
	testutil.AssertEqual(t, len(got), 2, "two artworks")
	for _, a := range got {
		testutil.AssertEqual(t, a.Source, domain.SourceRijks, "tagged with source")
	}
}

func TestRijks_AllStrategiesFail(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleStatus(searchEndpoint, http.StatusServiceUnavailable)

	r := New(testOptions(stub.URL()), logx.Discard())
	_, err := r.Search(context.Background(), domain.SearchQuery{Text: "x"}, 3)

	testutil.AssertTrue(t, errors.IsUnavailable(err), "unavailable surfaces when every strategy failed")
}

func TestRijks_Pagination(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.Handle(searchEndpoint, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			p := page(stub.URL(), "1", "2")
			p["next"] = map[string]string{"id": stub.URL() + searchEndpoint + "?type=painting&pageToken=abc"}
			testutil.WriteJSON(w, http.StatusOK, p)
			return
		}
		testutil.WriteJSON(w, http.StatusOK, page(stub.URL(), "3", "4"))
	})

	c := newAPIClient(stub.URL(), stub.URL(), testOptions(stub.URL()).httpConfig(), logx.Discard())
	ids, total, err := c.search(context.Background(), fallbackStrategy.build(domain.SearchQuery{}), 3, 5)

	testutil.AssertNoError(t, err, "should page")
	testutil.AssertEqual(t, strings.Join(ids, ","), "1,2,3", "capped to max across pages")
	testutil.AssertEqual(t, total, 2, "total from first page")
	testutil.AssertEqual(t, stub.Calls(searchEndpoint), 2, "two pages read")
}

func TestRijks_FetchArtwork(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	serveGraph(stub, "200107928", "PJEZO")

	r := New(testOptions(stub.URL()), logx.Discard())

	a, err := r.FetchArtwork(context.Background(), "200107928")
	testutil.AssertNoError(t, err, "should fetch")
	testutil.AssertEqual(t, a.Extra[domain.ExtraPersistentURL], stub.URL()+"/200107928", "persistent url kept")

	_, err = r.FetchArtwork(context.Background(), "999")
	testutil.AssertTrue(t, errors.IsNotFound(err), "404 maps to not found")

	_, err = r.FetchArtwork(context.Background(), "a/b")
	testutil.AssertTrue(t, errors.Is(err, errors.ErrInvalidInput), "path-like id rejected")
}

func TestResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("inline access point needs no request", func(t *testing.T) {
		calls := 0
		res := newResolver(func(ctx context.Context, u string) (node, error) {
			calls++
			return node{}, nil
		}, 2, logx.Discard())

		rec := node{Shows: []node{{
			Type: "VisualItem",
			DigitallyShownBy: []node{{
				AccessPoint: []node{{ID: "https://iiif.micr.io/XyZ12"}},
			}},
		}}}
		testutil.AssertEqual(t, res.ImageID(ctx, rec), "XyZ12", "identifier extracted")
		testutil.AssertEqual(t, calls, 0, "no dereference")
	})

	t.Run("no matching access point at any depth", func(t *testing.T) {
		graph := map[string]node{
			"https://x/visual": {ID: "https://x/visual", DigitallyShownBy: []node{{ID: "https://x/digital"}}},
			"https://x/digital": {ID: "https://x/digital", AccessPoint: []node{
				{ID: "https://example.org/images/1.jpg"},
			}},
		}
		res := newResolver(func(ctx context.Context, u string) (node, error) {
			return graph[u], nil
		}, 2, logx.Discard())

		rec := node{Shows: []node{{ID: "https://x/visual"}}}
		testutil.AssertEqual(t, res.ImageID(ctx, rec), "", "empty, not an error")
	})

	t.Run("dereference failures fail soft", func(t *testing.T) {
		res := newResolver(func(ctx context.Context, u string) (node, error) {
			return node{}, errors.ErrUpstreamUnavailable
		}, 2, logx.Discard())

		rec := node{Shows: []node{{ID: "https://x/visual"}}}
		testutil.AssertEqual(t, res.ImageID(ctx, rec), "", "empty, not an error")
	})

	t.Run("depth limit stops the walk", func(t *testing.T) {
		calls := 0
		res := newResolver(func(ctx context.Context, u string) (node, error) {
			calls++
			return node{ID: u, DigitallyShownBy: []node{{ID: "https://x/digital"}}}, nil
		}, 1, logx.Discard())

		rec := node{Shows: []node{{ID: "https://x/visual"}}}
		testutil.AssertEqual(t, res.ImageID(ctx, rec), "", "digital object beyond depth")
		testutil.AssertEqual(t, calls, 1, "only the first hop dereferenced")
	})

	t.Run("resolved nodes are cached", func(t *testing.T) {
		calls := 0
		res := newResolver(func(ctx context.Context, u string) (node, error) {
			calls++
			return node{ID: u, DigitallyShownBy: []node{{AccessPoint: []node{{ID: "https://iiif.micr.io/Q1"}}}}}, nil
		}, 2, logx.Discard())

		rec := node{Shows: []node{{ID: "https://x/visual"}}}
		res.ImageID(ctx, rec)
		res.ImageID(ctx, rec)
		testutil.AssertEqual(t, calls, 1, "second resolution served from cache")
	})
}

func TestToArtwork_MissingFields(t *testing.T) {
	a := toArtwork("1", "", node{}, "")

	testutil.AssertEqual(t, a.ID, "rijks:1", "id")
	testutil.AssertEqual(t, a.Title, domain.UntitledTitle, "placeholder title")
	testutil.AssertEqual(t, a.Artist, domain.UnknownArtist, "placeholder artist")
	testutil.AssertEqual(t, a.ImageURL, "", "no image without identifier")
	testutil.AssertEqual(t, a.MuseumURL, "", "no museum url without accession")
	testutil.AssertFalse(t, a.IsPublicDomain, "no image, no public domain claim")
	testutil.AssertNotNilSlice(t, a.Tags, "tags never nil")
	testutil.AssertNotNilSlice(t, a.AdditionalImages, "images never nil")
}

func TestYearOf(t *testing.T) {
	tests := map[string]string{
		"1642-01-01T00:00:00": "1642",
		"-0500-01-01":         "-500",
		"0800-01-01":          "800",
		"":                    "",
	}
	for in, want := range tests {
		testutil.AssertEqual(t, yearOf(in), want, in)
	}
}
