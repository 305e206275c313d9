// Package cortex is a minimal REST client for the hosted search backend.
// It discovers the configured search services once per session and issues
// retrieval queries against them. Results are passed through in backend
// order; no re-ranking, no retries.
package cortex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"intellibot/internal/domain"
)

// Config contains connection details for the search backend.
type Config struct {
	BaseURL  string
	Token    string
	Database string
	Schema   string
	Timeout  time.Duration
}

// Client talks to the search backend over HTTP.
type Client struct {
	baseURL  string
	token    string
	database string
	schema   string
	client   *http.Client
}

// NewClient creates a search client using the provided configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		database: cfg.Database,
		schema:   cfg.Schema,
		client:   &http.Client{Timeout: timeout},
	}
}

type listResponse struct {
	Services []struct {
		Name string `json:"name"`
	} `json:"services"`
}

type describeResponse struct {
	Name         string `json:"name"`
	SearchColumn string `json:"search_column"`
}

// Services lists the search services configured on the backend and resolves
// each service's text-bearing column. Column names are lowercased to match
// the casing of result record keys.
func (c *Client) Services(ctx context.Context) ([]domain.ServiceDescriptor, error) {
	var list listResponse
	if err := c.getJSON(ctx, c.servicesURL(), &list); err != nil {
		return nil, err
	}
	descriptors := make([]domain.ServiceDescriptor, 0, len(list.Services))
	for _, svc := range list.Services {
		var desc describeResponse
		if err := c.getJSON(ctx, c.servicesURL()+"/"+svc.Name, &desc); err != nil {
			return nil, err
		}
		descriptors = append(descriptors, domain.ServiceDescriptor{
			Name:         svc.Name,
			SearchColumn: strings.ToLower(desc.SearchColumn),
		})
	}
	return descriptors, nil
}

type queryRequest struct {
	Query   string         `json:"query"`
	Columns []string       `json:"columns,omitempty"`
	Filter  map[string]any `json:"filter,omitempty"`
	Limit   int            `json:"limit"`
}

type queryResponse struct {
	Results []map[string]any `json:"results"`
}

// Search runs one retrieval query. It returns at most req.Limit records in
// the order the backend ranked them. An unknown service yields a
// *domain.NotFoundError; any other backend failure an *domain.UpstreamError.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Record, error) {
	body := queryRequest{
		Query:   req.Query,
		Columns: req.Columns,
		Filter:  req.Filter,
		Limit:   req.Limit,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "search", Err: err}
	}
	url := c.servicesURL() + "/" + req.Service + ":query"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, &domain.UpstreamError{Op: "search", Err: err}
	}
	c.setHeaders(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &domain.UpstreamError{Op: "search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &domain.NotFoundError{Service: req.Service}
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return nil, &domain.UpstreamError{
			Op:     "search",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(payload))),
		}
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &domain.UpstreamError{Op: "search", Err: err}
	}
	records := make([]domain.Record, 0, len(out.Results))
	for _, raw := range out.Results {
		rec := make(domain.Record, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				rec[k] = s
			} else {
				rec[k] = fmt.Sprint(v)
			}
		}
		records = append(records, rec)
	}
	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}
	return records, nil
}

func (c *Client) servicesURL() string {
	return fmt.Sprintf("%s/api/v2/databases/%s/schemas/%s/cortex-search-services",
		c.baseURL, c.database, c.schema)
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.UpstreamError{Op: "discover", Err: err}
	}
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.UpstreamError{Op: "discover", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return &domain.UpstreamError{
			Op:     "discover",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(payload))),
		}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}
