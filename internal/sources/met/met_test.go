// internal/sources/met/met_test.go
package met

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"curatorx/internal/core/domain"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
	"curatorx/internal/platform/resilience"
	"curatorx/internal/testutil"
)

func testOptions(baseURL string) Options {
	opts := DefaultOptions()
	opts.BaseURL = baseURL

	opts.Resilience.RateLimitDelayStep = 0
	opts.Resilience.RateLimitDelayCap = 0
	opts.Resilience.ServerErrorDelayStep = 0
	opts.Resilience.ServerErrorDelayCap = 0

	opts.Batch.BaseDelay = 0
	opts.Batch.StaggerDelay = 0
	return opts
}

func object(id int, title string) map[string]interface{} {
	return map[string]interface{}{
		"objectID":          id,
		"title":             title,
		"artistDisplayName": "Claude Monet",
		"artistDisplayBio":  "French, Paris 1840–1926 Giverny",
		"objectDate":        "1899",
		"medium":            "Oil on canvas",
		"department":        "European Paintings",
		"primaryImage":      "https://images.metmuseum.org/full.jpg",
		"primaryImageSmall": "https://images.metmuseum.org/small.jpg",
		"additionalImages":  []string{"https://images.metmuseum.org/2.jpg"},
		"objectURL":         "https://www.metmuseum.org/art/collection/search/1",
		"isPublicDomain":    true,
		"accessionNumber":   "29.100.113",
		"GalleryNumber":     822,
		"tags":              []map[string]string{{"term": "Landscapes"}, {"term": "Bridges"}},
	}
}

func TestMet_SearchSkipsFailedItems(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleJSON("/search", map[string]interface{}{
		"total":     5,
		"objectIDs": []int{1, 2, 3, 4, 5},
	})
	for _, id := range []int{1, 3, 5} {
		stub.HandleJSON("/objects/"+itoa(id), object(id, "Water Lilies"))
	}
	stub.HandleStatus("/objects/2", http.StatusInternalServerError)
	stub.HandleStatus("/objects/4", http.StatusInternalServerError)

	opts := testOptions(stub.URL())
	opts.Resilience.MaxConsecutiveFailures = 100
	m := New(opts, logx.Discard())

	got, err := m.Search(context.Background(), domain.SearchQuery{Text: "monet"}, 5)
	testutil.AssertNoError(t, err, "partial failure is not an error")
	testutil.AssertEqual(t, len(got), 3, "items 2 and 4 are skipped")

	seen := map[string]bool{}
	for _, a := range got {
		testutil.AssertEqual(t, a.Source, domain.SourceMet, "tagged with source")
		testutil.AssertNoError(t, a.Validate(), "artwork valid")
		seen[a.NativeID()] = true
	}
	testutil.AssertTrue(t, seen["1"] && seen["3"] && seen["5"], "successful items kept")
	testutil.AssertEqual(t, stub.Calls("/objects/2"), 3, "server errors are retried")
}

func TestMet_SearchSkipsFailedItemsWithDefaultBreaker(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleJSON("/search", map[string]interface{}{
		"total":     5,
		"objectIDs": []int{1, 2, 3, 4, 5},
	})
	for _, id := range []int{1, 3, 5} {
		stub.HandleJSON("/objects/"+itoa(id), object(id, "Water Lilies"))
	}
	stub.HandleStatus("/objects/2", http.StatusInternalServerError)
	stub.HandleStatus("/objects/4", http.StatusInternalServerError)

	opts := testOptions(stub.URL())
	testutil.AssertEqual(t, opts.Resilience.MaxConsecutiveFailures, resilience.DefaultMaxConsecutiveFailures, "default threshold")
	m := New(opts, logx.Discard())

	got, err := m.Search(context.Background(), domain.SearchQuery{Text: "monet"}, 5)
	testutil.AssertNoError(t, err, "partial failure is not an error")
	testutil.AssertEqual(t, len(got), 3, "items 2 and 4 are skipped")

	// Seis intentos fallidos pueden abrir el breaker antes del último, que falla sin red
	failedCalls := stub.Calls("/objects/2") + stub.Calls("/objects/4")
	testutil.AssertTrue(t, failedCalls >= 5 && failedCalls <= 6, "failed items are retried until the breaker opens")
	testutil.AssertEqual(t, stub.Calls("/objects/1"), 1, "successful items are fetched once")
}

func TestMet_SearchEmpty(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleJSON("/search", map[string]interface{}{"total": 0, "objectIDs": nil})

	m := New(testOptions(stub.URL()), logx.Discard())
	got, err := m.Search(context.Background(), domain.SearchQuery{Text: "zzzz"}, 10)

	testutil.AssertNoError(t, err, "no matches is not an error")
	testutil.AssertTrue(t, got != nil, "empty slice, not nil")
	testutil.AssertEqual(t, len(got), 0, "nothing found")
	testutil.AssertEqual(t, stub.TotalCalls(), 1, "no object fetches")
}

func TestMet_SearchFailurePropagates(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleStatus("/search", http.StatusServiceUnavailable)

	m := New(testOptions(stub.URL()), logx.Discard())
	_, err := m.Search(context.Background(), domain.SearchQuery{Text: "monet"}, 5)

	testutil.AssertTrue(t, errors.IsUnavailable(err), "search failure surfaces as unavailable")
}

func TestMet_SearchEarlyExit(t *testing.T) {
	ids := make([]int, 100)
	for i := range ids {
		ids[i] = i + 1
	}

	stub := testutil.NewUpstreamStub(t)
	stub.HandleJSON("/search", map[string]interface{}{"total": len(ids), "objectIDs": ids})
	for _, id := range ids {
		stub.HandleJSON("/objects/"+itoa(id), object(id, "Study"))
	}

	m := New(testOptions(stub.URL()), logx.Discard())
	got, err := m.Search(context.Background(), domain.SearchQuery{Text: "study"}, 20)

	testutil.AssertNoError(t, err, "should succeed")
	testutil.AssertEqual(t, len(got), 10, "stops at max(10, 25% of 20)")
	testutil.AssertEqual(t, stub.TotalCalls(), 11, "one search plus two batches of five")
}

func TestMet_SearchParams(t *testing.T) {
	var query map[string][]string
	stub := testutil.NewUpstreamStub(t)
	stub.Handle("/search", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		testutil.WriteJSON(w, http.StatusOK, map[string]interface{}{"total": 0})
	})

	m := New(testOptions(stub.URL()), logx.Discard())
	_, err := m.Search(context.Background(), domain.SearchQuery{
		Text:           "armor",
		HasImages:      true,
		DepartmentID:   4,
		DateEnd:        domain.Year(1600),
		HighlightsOnly: true,
	}, 5)

	testutil.AssertNoError(t, err, "should succeed")
	testutil.AssertEqual(t, query["q"][0], "armor", "q")
	testutil.AssertEqual(t, query["hasImages"][0], "true", "hasImages")
	testutil.AssertEqual(t, query["departmentId"][0], "4", "departmentId")
	testutil.AssertEqual(t, query["dateBegin"][0], itoa(earliestYear), "open begin gets the earliest year")
	testutil.AssertEqual(t, query["dateEnd"][0], "1600", "dateEnd")
	testutil.AssertEqual(t, query["isHighlight"][0], "true", "isHighlight")
}

func TestMet_FetchArtwork(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleJSON("/objects/436535", object(436535, "Bridge over a Pond of Water Lilies"))
	stub.Handle("/objects/404", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Not a valid object"})
	})

	m := New(testOptions(stub.URL()), logx.Discard())

	t.Run("found", func(t *testing.T) {
		a, err := m.FetchArtwork(context.Background(), "436535")
		testutil.AssertNoError(t, err, "should fetch")
		testutil.AssertEqual(t, a.ID, "met:436535", "compound id")
		testutil.AssertEqual(t, a.Extra[domain.ExtraGalleryNumber], "822", "numeric gallery number")
		testutil.AssertEqual(t, len(a.Tags), 2, "tags")
	})

	t.Run("not found is not retried", func(t *testing.T) {
		_, err := m.FetchArtwork(context.Background(), "404")
		testutil.AssertTrue(t, errors.IsNotFound(err), "404 maps to not found")
		testutil.AssertEqual(t, stub.Calls("/objects/404"), 1, "single attempt")
		testutil.AssertEqual(t, m.Breaker().ConsecutiveFailures(), 0, "breaker untouched")
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := m.FetchArtwork(context.Background(), "abc")
		testutil.AssertTrue(t, errors.Is(err, errors.ErrInvalidInput), "non numeric id rejected")
	})
}

func TestMet_BreakerFailsFast(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleStatus("/objects/7", http.StatusServiceUnavailable)

	m := New(testOptions(stub.URL()), logx.Discard())
	ctx := context.Background()

	_, err := m.FetchArtwork(ctx, "7")
	testutil.AssertTrue(t, errors.Is(err, errors.ErrUpstreamFetchFailed), "retries exhausted")
	testutil.AssertEqual(t, stub.Calls("/objects/7"), 3, "three attempts")

	_, err = m.FetchArtwork(ctx, "7")
	testutil.AssertTrue(t, errors.IsUnavailable(err), "breaker opens mid-retry")
	testutil.AssertEqual(t, stub.Calls("/objects/7"), 5, "gated after the fifth failure")
	testutil.AssertEqual(t, m.Breaker().State(), resilience.StateOpen, "breaker open")

	_, err = m.FetchArtwork(ctx, "7")
	testutil.AssertTrue(t, errors.IsUnavailable(err), "fails fast while open")
	testutil.AssertEqual(t, stub.Calls("/objects/7"), 5, "no network attempt while open")
}

func TestMet_Departments(t *testing.T) {
	stub := testutil.NewUpstreamStub(t)
	stub.HandleJSON("/departments", map[string]interface{}{
		"departments": []map[string]interface{}{
			{"departmentId": 11, "displayName": "European Paintings"},
			{"departmentId": 0, "displayName": "bogus"},
		},
	})

	m := New(testOptions(stub.URL()), logx.Discard())
	for i := 0; i < 3; i++ {
		deps, err := m.Departments(context.Background())
		testutil.AssertNoError(t, err, "should list departments")
		testutil.AssertEqual(t, len(deps), 1, "zero ids dropped")
		testutil.AssertEqual(t, deps[0].Name, "European Paintings", "name")
	}
	testutil.AssertEqual(t, stub.Calls("/departments"), 1, "cached after first call")
}

func TestToArtwork_MissingFields(t *testing.T) {
	a := toArtwork("12", objectRecord{})

	testutil.AssertEqual(t, a.ID, "met:12", "id from fetch id")
	testutil.AssertEqual(t, a.Title, domain.UntitledTitle, "placeholder title")
	testutil.AssertEqual(t, a.Artist, domain.UnknownArtist, "placeholder artist")
	testutil.AssertEqual(t, a.ImageURL, "", "no image")
	testutil.AssertNotNilSlice(t, a.Tags, "tags never nil")
	testutil.AssertNotNilSlice(t, a.AdditionalImages, "images never nil")
	testutil.AssertTrue(t, a.Extra == nil, "empty extra dropped")
}

func TestToArtwork_TitleFallsBackToObjectName(t *testing.T) {
	a := toArtwork("", objectRecord{ObjectName: "Helmet", ArtistDisplayName: "<i>Anon</i>"})
	testutil.AssertEqual(t, a.Title, "Helmet", "object name used")
	testutil.AssertEqual(t, a.Artist, "Anon", "markup stripped")
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
