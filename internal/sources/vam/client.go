// internal/sources/vam/client.go
package vam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"curatorx/internal/core/domain"
	"curatorx/internal/platform/httpclient"
	"curatorx/internal/platform/logx"
)

const (
	defaultBaseURL = "https://api.vam.ac.uk/v2"

	searchEndpoint  = "/objects/search"
	objectEndpoint  = "/museumobject/%s"
	clusterEndpoint = "/objects/clusters/%s/search"

	// maxPageSize es el page_size máximo aceptado por la API.
	maxPageSize = 100
)

// apiClient habla con la Collections API v2 del V&A.
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

// search returns one page of full records. pageSize is capped to maxPageSize.
func (c *apiClient) search(ctx context.Context, q domain.SearchQuery, page, pageSize int) (searchResponse, error) {
	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.buildURL(searchEndpoint, searchParams(q, page, pageSize)), nil, &resp); err != nil {
		return searchResponse{}, err
	}
	if resp.Records == nil {
		resp.Records = []summaryRecord{}
	}
	if len(resp.Records) > pageSize {
		resp.Records = resp.Records[:pageSize]
	}
	c.logger.Debug("vam search", "q", q.Text, "total", resp.Info.RecordCount, "returned", len(resp.Records))
	return resp, nil
}

// object fetches one full record by system number.
func (c *apiClient) object(ctx context.Context, systemNumber string) (objectResponse, error) {
	var resp objectResponse
	endpoint := fmt.Sprintf(objectEndpoint, url.PathEscape(systemNumber))
	if err := c.http.GetJSON(ctx, c.buildURL(endpoint, nil), nil, &resp); err != nil {
		return objectResponse{}, err
	}
	return resp, nil
}

// clusters returns the facet terms of clusterType for q.
func (c *apiClient) clusters(ctx context.Context, clusterType, q string, size int) ([]clusterEntry, error) {
	params := url.Values{}
	if q != "" {
		params.Set("q", q)
	}
	if size > 0 {
		params.Set("cluster_size", strconv.Itoa(size))
	}

	var resp []clusterEntry
	endpoint := fmt.Sprintf(clusterEndpoint, url.PathEscape(clusterType))
	if err := c.http.GetJSON(ctx, c.buildURL(endpoint, params), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *apiClient) buildURL(endpoint string, params url.Values) string {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// searchParams traduce la consulta lógica a los parámetros nativos.
func searchParams(q domain.SearchQuery, page, pageSize int) url.Values {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("response_format", "json")
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if q.HasImages {
		params.Set("images_exist", "1")
	}
	if q.Maker != "" {
		params.Set("q_actor", q.Maker)
	}
	if q.Material != "" {
		params.Set("id_material", q.Material)
	}
	if q.Technique != "" {
		params.Set("id_technique", q.Technique)
	}
	if q.DateBegin != nil {
		params.Set("made_after_year", strconv.Itoa(*q.DateBegin))
	}
	if q.DateEnd != nil {
		params.Set("made_before_year", strconv.Itoa(*q.DateEnd))
	}
	return params
}
