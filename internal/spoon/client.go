// Package spoon is a client for the spoonacular food API.
package spoon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const redacted = "REDACTED"

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingredients_spoon_requests_total",
			Help: "Total number of requests sent to the spoonacular API",
		},
		[]string{"operation", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingredients_spoon_request_duration_seconds",
			Help:    "spoonacular API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// APIError is returned when spoonacular answers with a non-2xx status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spoonacular API error %d: %s", e.StatusCode, e.Body)
}

// Candidate is one text-search match
type Candidate struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type searchResponse struct {
	Results      []Candidate `json:"results"`
	Offset       int         `json:"offset"`
	Number       int         `json:"number"`
	TotalResults int         `json:"totalResults"`
}

// Nutrient is one entry of the nutrition facts list
type Nutrient struct {
	Name                string   `json:"name"`
	Amount              float64  `json:"amount"`
	Unit                string   `json:"unit"`
	PercentOfDailyNeeds *float64 `json:"percentOfDailyNeeds,omitempty"`
}

// Information is the ingredient detail payload
type Information struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Original  string  `json:"original,omitempty"`
	Image     string  `json:"image"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	Aisle     string  `json:"aisle,omitempty"`
	Nutrition *struct {
		Nutrients []Nutrient `json:"nutrients"`
	} `json:"nutrition,omitempty"`
}

// Client talks to the spoonacular API. The API key is only ever placed on
// outbound request URLs; errors and logs carry a redacted URL.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for baseURL (e.g. https://api.spoonacular.com)
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Search runs a free-text ingredient search. The result is never nil.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("query", query)

	var sr searchResponse
	if err := c.get(ctx, "search", "/food/ingredients/search", params, &sr); err != nil {
		return nil, err
	}
	if sr.Results == nil {
		return []Candidate{}, nil
	}
	return sr.Results, nil
}

// Information fetches the detail record of one ingredient for the given
// amount and unit.
func (c *Client) Information(ctx context.Context, id int, amount int, unit string) (*Information, error) {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	params.Set("unit", unit)

	var info Information
	path := "/food/ingredients/" + strconv.Itoa(id) + "/information"
	if err := c.get(ctx, "information", path, params, &info); err != nil {
		return nil, err
	}
	if info.ID == 0 {
		return nil, fmt.Errorf("failed to parse spoonacular information JSON: missing id")
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	start := time.Now()
	status := "error"
	defer func() {
		upstreamRequestsTotal.WithLabelValues(op, status).Inc()
		upstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	params.Set("apiKey", c.apiKey)
	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create spoonacular request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(urlErr.URL)
		}
		return fmt.Errorf("failed to call spoonacular %s: %s", op, redactError(err, c.apiKey))
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read spoonacular response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: redactString(string(body), c.apiKey)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse spoonacular %s JSON: %w", op, err)
	}
	return nil
}

// redactURL hides the apiKey query parameter of raw
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("apiKey") {
		q.Set("apiKey", redacted)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// redactError renders err with any occurrence of key removed. Transport errors
// from net/http embed the full request URL.
func redactError(err error, key string) string {
	return redactString(err.Error(), key)
}

// redactString removes key from s, both as given and in its query-escaped form
func redactString(s, key string) string {
	if key == "" {
		return s
	}
	s = strings.ReplaceAll(s, key, redacted)
	if escaped := url.QueryEscape(key); escaped != key {
		s = strings.ReplaceAll(s, escaped, redacted)
	}
	return s
}
