// HTTP plumbing shared by the lyrics providers
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/rhymx/internal/shared"
)

const maxResponseSize = 4 << 20

// APIService performs GET requests against one upstream API.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	headers    *shared.RequestHeaders
}

// NewAPIService creates a new API service for baseURL. A nil client uses [http.DefaultClient].
//
// An empty baseURL means request paths are absolute URLs.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// WithUserAgent sets the User-Agent sent with every request.
func (a *APIService) WithUserAgent(ua string) *APIService {
	a.userAgent = ua
	return a
}

// WithHeaders replays captured headers on every request.
func (a *APIService) WithHeaders(h *shared.RequestHeaders) *APIService {
	a.headers = h
	return a
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return nil
}

// Get performs a GET request to the specified path with query and returns the raw response.
//
// Only transport failures are errors; any status code is returned to the caller.
func (a *APIService) Get(ctx context.Context, path string, query url.Values) (*APIResponse, error) {
	fullURL := a.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", shared.ErrAPIRequest, err)
	}

	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}
	a.headers.Apply(req.Header)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}
