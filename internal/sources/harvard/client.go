// internal/sources/harvard/client.go
package harvard

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"curatorx/internal/core/domain"
	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/httpclient"
	"curatorx/internal/platform/logx"
)

const (
	defaultBaseURL = "https://api.harvardartmuseums.org"

	searchEndpoint = "/object"
	objectEndpoint = "/object/%s"
	loginEndpoint  = "/login"

	// maxPageSize es el size máximo aceptado por la API.
	maxPageSize = 100
)

// Credentials agrupa las dos formas de obtener el bearer token.
type Credentials struct {
	APIKey   string
	Username string
	Password string
}

func (c Credentials) empty() bool {
	return c.APIKey == "" && (c.Username == "" || c.Password == "")
}

// apiClient habla con la API de Harvard Art Museums. The bearer token is
// obtained once and reused until the client is discarded; concurrent first
// requests share one login call.
type apiClient struct {
	baseURL string
	http    *httpclient.Client
	creds   Credentials
	logger  logx.Logger

	mu     sync.RWMutex
	token  string
	logins singleflight.Group
}

func newAPIClient(baseURL string, creds Credentials, cfg httpclient.Config, logger logx.Logger) *apiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	creds.APIKey = strings.TrimSpace(creds.APIKey)
	creds.Username = strings.TrimSpace(creds.Username)

	c := &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.New(cfg, logger),
		creds:   creds,
		logger:  logger,
	}
	if creds.APIKey != "" {
		c.token = creds.APIKey
	}
	return c
}

// bearer returns the cached token, logging in on first use.
func (c *apiClient) bearer(ctx context.Context) (string, error) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		return token, nil
	}
	if c.creds.empty() {
		return "", errors.Wrap(errors.ErrUpstreamAuthFailed, "harvard: no api key or login credentials configured")
	}

	v, err, shared := c.logins.Do("login", func() (interface{}, error) {
		c.mu.RLock()
		cached := c.token
		c.mu.RUnlock()
		if cached != "" {
			return cached, nil
		}

		var resp loginResponse
		payload := map[string]string{"username": c.creds.Username, "password": c.creds.Password}
		if err := c.http.PostJSON(ctx, c.baseURL+loginEndpoint, payload, nil, &resp); err != nil {
			return "", errors.Wrap(err, "harvard login")
		}
		if strings.TrimSpace(resp.Token) == "" {
			return "", errors.Wrap(errors.ErrUpstreamAuthFailed, "harvard login returned no token")
		}

		c.mu.Lock()
		c.token = strings.TrimSpace(resp.Token)
		c.mu.Unlock()
		c.logger.Debug("harvard login succeeded", "user", c.creds.Username)
		return strings.TrimSpace(resp.Token), nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug("harvard login shared with concurrent request")
	}
	return v.(string), nil
}

func (c *apiClient) getJSON(ctx context.Context, u string, target interface{}) error {
	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}
	return c.http.GetJSON(ctx, u, map[string]string{"Authorization": "Bearer " + token}, target)
}

// search returns one page of records. pageSize is capped to maxPageSize.
func (c *apiClient) search(ctx context.Context, q domain.SearchQuery, page, pageSize int) (searchResponse, error) {
	var resp searchResponse
	if err := c.getJSON(ctx, c.buildURL(searchEndpoint, searchParams(q, page, pageSize)), &resp); err != nil {
		return searchResponse{}, err
	}
	if resp.Records == nil {
		resp.Records = []objectRecord{}
	}
	if pageSize > 0 && len(resp.Records) > pageSize {
		resp.Records = resp.Records[:pageSize]
	}
	c.logger.Debug("harvard search", "q", q.Text, "total", resp.Info.TotalRecords, "returned", len(resp.Records))
	return resp, nil
}

// object fetches one record by object id.
func (c *apiClient) object(ctx context.Context, objectID string) (objectRecord, error) {
	var rec objectRecord
	endpoint := fmt.Sprintf(objectEndpoint, url.PathEscape(objectID))
	if err := c.getJSON(ctx, c.buildURL(endpoint, nil), &rec); err != nil {
		return objectRecord{}, err
	}
	return rec, nil
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
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(pageSize))
	if q.Text != "" {
		params.Set("query", q.Text)
	}
	if q.Department != "" {
		params.Set("department", q.Department)
	}
	if q.Maker != "" {
		params.Set("maker", q.Maker)
	}
	if q.Type != "" {
		params.Set("classification", q.Type)
	}
	if q.HasImages {
		params.Set("hasimage", "1")
	}
	if q.DateBegin != nil {
		params.Set("dateFrom", strconv.Itoa(*q.DateBegin))
	}
	if q.DateEnd != nil {
		params.Set("dateTo", strconv.Itoa(*q.DateEnd))
	}
	return params
}
