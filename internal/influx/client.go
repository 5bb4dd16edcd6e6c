package influx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultBucketLimit is the page size used when listing buckets
	DefaultBucketLimit = 100

	// maxErrorBody caps how much of an error response is read
	maxErrorBody = 64 << 10
)

// Client talks to the InfluxDB 2.x HTTP API with a single set of credentials
type Client struct {
	// BaseURL is the InfluxDB URL (e.g., "https://us-east-1-1.aws.cloud2.influxdata.com")
	BaseURL string

	// Org is the organization name used for bucket listing
	Org string

	// Token is the API token sent as "Authorization: Token <token>"
	Token string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the given credentials. URL and org are
// normalized; a trailing slash on the URL is dropped.
func NewClient(creds Credentials) *Client {
	creds = creds.Normalized()
	return &Client{
		BaseURL:    strings.TrimRight(creds.URL, "/"),
		Org:        creds.Org,
		Token:      creds.Token,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Ping checks that the instance is reachable and healthy.
// InfluxDB answers GET /ping with 204 No Content.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/ping", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return c.responseError(resp, "InfluxDB ping failed")
	}
	return nil
}

// bucketsResponse is the envelope returned by GET /api/v2/buckets
type bucketsResponse struct {
	Buckets []Bucket `json:"buckets"`
}

// ListBuckets returns the organization's buckets in the order InfluxDB returns them
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	q := url.Values{}
	q.Set("org", c.Org)
	q.Set("limit", strconv.Itoa(DefaultBucketLimit))

	resp, err := c.do(ctx, http.MethodGet, "/api/v2/buckets?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError(resp, "Failed to list buckets")
	}

	var payload bucketsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewServiceError(resp.StatusCode, fmt.Sprintf("Failed to parse bucket list: %v", err))
	}
	if payload.Buckets == nil {
		return []Bucket{}, nil
	}
	return payload.Buckets, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.BaseURL == "" {
		return nil, NewValidationError("InfluxDB URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("Invalid InfluxDB URL %q", c.BaseURL), err)
	}
	req.Header.Set("Authorization", "Token "+c.Token)
	req.Header.Set("Accept", "application/json")

	logging.Debug("InfluxDB request",
		zap.String("method", method),
		zap.String("url", c.BaseURL+path),
		logging.TokenField(c.Token),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewTransportError("", err)
	}
	return resp, nil
}

// influxErrorBody is the error envelope used by InfluxDB 2.x
type influxErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// responseError converts a non-success response into an *Error, preferring
// the message InfluxDB sent back.
func (c *Client) responseError(resp *http.Response, fallback string) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload influxErrorBody
	detail := ""
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		detail = payload.Message
	}
	if detail == "" {
		detail = fmt.Sprintf("%s (HTTP %d)", fallback, resp.StatusCode)
	}
	return NewServiceError(resp.StatusCode, detail)
}
