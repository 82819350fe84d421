// Package geocoder implements the outbound HTTP client for the geocoding
// collaborator. It speaks the Google-style geocode JSON API and maps wire
// failures to domain error codes for the resolver's logging.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"helpy/internal/geo"
	dErrors "helpy/pkg/domain-errors"
)

const defaultTimeout = 5 * time.Second

// Client is the geocoding API client. It implements geo.Geocoder.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Default is 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a geocoder client for the given API base URL and key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address into coordinate candidates, best match first.
// An address the provider does not know yields an empty slice and nil error.
func (c *Client) Geocode(ctx context.Context, address string) ([]geo.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/maps/api/geocode/json?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create geocode request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "geocoder timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeGeocodeUnavailable, "failed to call geocoder")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.New(dErrors.CodeGeocodeUnavailable,
			fmt.Sprintf("geocoder returned status %d", resp.StatusCode))
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeGeocodeUnavailable, "malformed geocoder response")
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, dErrors.New(dErrors.CodeGeocodeUnavailable,
			"geocoder rejected the request: "+body.Status)
	}

	candidates := make([]geo.Candidate, 0, len(body.Results))
	for _, res := range body.Results {
		candidates = append(candidates, geo.Candidate{
			Latitude:         res.Geometry.Location.Lat,
			Longitude:        res.Geometry.Location.Lng,
			FormattedAddress: res.FormattedAddress,
		})
	}
	return candidates, nil
}

var _ geo.Geocoder = (*Client)(nil)
