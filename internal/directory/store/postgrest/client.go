// Package postgrest implements the remote store contract against a
// PostgREST-style HTTP service (the hosted database exposes its tables this
// way: one route per table, filters and ordering as query parameters).
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"helpy/internal/directory/models"
	"helpy/internal/directory/store"
	dErrors "helpy/pkg/domain-errors"
)

// Client implements store.RemoteStore by calling a PostgREST-style service.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Ensure Client implements RemoteStore.
var _ store.RemoteStore = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a new PostgREST-backed remote store client.
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select fetches rows from a collection with an optional equality filter and order.
func (c *Client) Select(ctx context.Context, collection models.Collection, q store.Query) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("select", "*")
	if q.FilterField != "" {
		params.Set(q.FilterField, "eq."+q.FilterValue)
	}
	if q.OrderField != "" {
		direction := "asc"
		if q.OrderDesc {
			direction = "desc"
		}
		params.Set("order", q.OrderField+"."+direction)
	}

	body, err := c.do(ctx, http.MethodGet, c.collectionURL(collection, params), nil, "")
	if err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "malformed response from remote store")
	}
	return rows, nil
}

// SelectOne fetches a single row by identifier.
// Returns CodeNotFound when no row matches.
func (c *Client) SelectOne(ctx context.Context, collection models.Collection, id string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("id", "eq."+id)

	// PostgREST returns a bare object (or 406) under the single-object
	// representation; asking for a plain array and inspecting length is the
	// more forgiving contract.
	body, err := c.do(ctx, http.MethodGet, c.collectionURL(collection, params), nil, "")
	if err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "malformed response from remote store")
	}
	if len(rows) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no row with id %s in %s", id, collection))
	}
	return rows[0], nil
}

// Insert writes one row into a collection.
func (c *Client) Insert(ctx context.Context, collection models.Collection, row any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal row")
	}
	_, err = c.do(ctx, http.MethodPost, c.collectionURL(collection, nil), payload, "return=minimal")
	return err
}

// Update patches the row with the given identifier.
func (c *Client) Update(ctx context.Context, collection models.Collection, id string, row any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal row")
	}
	params := url.Values{}
	params.Set("id", "eq."+id)
	_, err = c.do(ctx, http.MethodPatch, c.collectionURL(collection, params), payload, "return=minimal")
	return err
}

func (c *Client) collectionURL(collection models.Collection, params url.Values) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, collection)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// do executes one HTTP exchange and maps failures to domain errors.
func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte, prefer string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "remote store request timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "failed to reach remote store")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "failed to read remote store response")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, dErrors.New(dErrors.CodeNotFound, "row not found")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, dErrors.New(dErrors.CodeRemoteUnavailable, "remote store rejected credentials")
	default:
		return nil, dErrors.New(dErrors.CodeRemoteUnavailable,
			fmt.Sprintf("unexpected status %d from remote store", resp.StatusCode))
	}
}
