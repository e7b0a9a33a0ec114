// internal/sources/met/client.go
package met

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"curatorx/internal/core/domain"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/httpclient"
	"curatorx/internal/platform/logx"
	"curatorx/internal/sources/common"
)

const (
	defaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

	searchEndpoint      = "/search"
	objectEndpoint      = "/objects/%s"
	departmentsEndpoint = "/departments"

	// earliestYear acota dateBegin cuando solo se pide dateEnd; la API exige ambos.
	earliestYear = -8000
)

// apiClient habla con la Collection API del Met.
type apiClient struct {
	baseURL string
	http    *httpclient.Client
	logger  logx.Logger
}

func newAPIClient(baseURL string, cfg httpclient.Config, logger logx.Logger) *apiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.New(cfg, logger),
		logger:  logger,
	}
}

// search returns the object IDs matching q, capped to max (max <= 0 = no cap),
// and the total reported by the upstream.
func (c *apiClient) search(ctx context.Context, q domain.SearchQuery, max int) ([]int, int, error) {
	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.buildURL(searchEndpoint, searchParams(q)), nil, &resp); err != nil {
		return nil, 0, err
	}

	ids := resp.ObjectIDs
	if ids == nil {
		ids = []int{}
	}
	if max > 0 && len(ids) > max {
		ids = ids[:max]
	}

	c.logger.Debug("met search", "q", q.Text, "total", resp.Total, "returned", len(ids))
	return ids, resp.Total, nil
}

// object fetches one object record by native ID.
func (c *apiClient) object(ctx context.Context, nativeID string) (objectRecord, error) {
	var rec objectRecord
	endpoint := fmt.Sprintf(objectEndpoint, url.PathEscape(nativeID))
	if err := c.http.GetJSON(ctx, c.buildURL(endpoint, nil), nil, &rec); err != nil {
		return objectRecord{}, err
	}
	if !rec.ObjectID.IsSet() || rec.ObjectID.Int() == 0 {
		return objectRecord{}, errors.Wrapf(errors.ErrUpstreamNotFound, "met object %s", nativeID)
	}
	return rec, nil
}

// departments lists the collection departments.
func (c *apiClient) departments(ctx context.Context) ([]departmentRecord, error) {
	var resp departmentsResponse
	if err := c.http.GetJSON(ctx, c.buildURL(departmentsEndpoint, nil), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Departments, nil
}

func (c *apiClient) buildURL(endpoint string, params url.Values) string {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// searchParams traduce la consulta lógica a los parámetros nativos.
func searchParams(q domain.SearchQuery) url.Values {
	params := url.Values{}
	params.Set("q", common.FirstNonEmpty(q.Text, "*"))
	if q.HasImages {
		params.Set("hasImages", "true")
	}
	if q.HighlightsOnly {
		params.Set("isHighlight", "true")
	}
	if q.DepartmentID > 0 {
		params.Set("departmentId", strconv.Itoa(q.DepartmentID))
	}
	if q.DateBegin != nil || q.DateEnd != nil {
		begin, end := earliestYear, time.Now().Year()
		if q.DateBegin != nil {
			begin = *q.DateBegin
		}
		if q.DateEnd != nil {
			end = *q.DateEnd
		}
		params.Set("dateBegin", strconv.Itoa(begin))
		params.Set("dateEnd", strconv.Itoa(end))
	}
	return params
}
