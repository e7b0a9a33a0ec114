// internal/sources/rijks/client.go
package rijks

import (
	"context"
	"net/url"
	"strings"

	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/httpclient"
	"curatorx/internal/platform/logx"
	"curatorx/internal/sources/common"
)

const (
	defaultBaseURL   = "https://data.rijksmuseum.nl"
	defaultIDBaseURL = "https://id.rijksmuseum.nl"

	searchEndpoint = "/search/collection"

	// linkedDataAccept pide la serialización JSON-LD del grafo.
	linkedDataAccept = "application/ld+json"
)

// apiClient habla con la Search API y con el resolver de IDs persistentes.
type apiClient struct {
	baseURL   string
	idBaseURL string
	http      *httpclient.Client
	logger    logx.Logger
}

func newAPIClient(baseURL, idBaseURL string, cfg httpclient.Config, logger logx.Logger) *apiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if idBaseURL == "" {
		idBaseURL = defaultIDBaseURL
	}
	return &apiClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		idBaseURL: strings.TrimRight(idBaseURL, "/"),
		http:      httpclient.New(cfg, logger),
		logger:    logger,
	}
}

// search walks result pages for one filter set, following "next" links until
// max native IDs are collected or maxPages pages were read.
func (c *apiClient) search(ctx context.Context, filters url.Values, max, maxPages int) ([]string, int, error) {
	params := url.Values{}
	for k, v := range filters {
		params[k] = v
	}
	params.Set("imageAvailable", "true")

	next := c.baseURL + searchEndpoint + "?" + params.Encode()
	ids := make([]string, 0, max)
	total := 0

	for page := 0; page < maxPages && next != "" && len(ids) < max; page++ {
		var resp searchResponse
		if err := c.http.GetJSON(ctx, next, nil, &resp); err != nil {
			if page > 0 {
				// Keep what earlier pages produced.
				c.logger.Debug("rijks pagination stopped", "page", page, "error", err.Error())
				break
			}
			return nil, 0, err
		}
		if page == 0 {
			total = resp.total()
		}

		for _, item := range resp.OrderedItems {
			if id := common.LastPathSegment(item.ID); id != "" && len(ids) < max {
				ids = append(ids, id)
			}
		}
		next = resp.nextURL()
	}

	return ids, total, nil
}

// object dereferences the persistent URL of nativeID.
func (c *apiClient) object(ctx context.Context, nativeID string) (node, error) {
	nativeID = strings.TrimSpace(nativeID)
	if nativeID == "" || strings.Contains(nativeID, "/") {
		return node{}, errors.Wrapf(errors.ErrInvalidInput, "rijks object id %q", nativeID)
	}
	return c.dereference(ctx, c.idBaseURL+"/"+url.PathEscape(nativeID))
}

// dereference resolves any Linked Art node URL.
func (c *apiClient) dereference(ctx context.Context, nodeURL string) (node, error) {
	var n node
	headers := map[string]string{"Accept": linkedDataAccept}
	if err := c.http.GetJSON(ctx, nodeURL, headers, &n); err != nil {
		return node{}, err
	}
	return n, nil
}

// persistentURL retorna la URL persistente de un ID nativo.
func (c *apiClient) persistentURL(nativeID string) string {
	return c.idBaseURL + "/" + nativeID
}
