// Package api is the HTTP client for fluxvision-server.
//
// A Client satisfies the credential store, connectivity checker and bucket
// lister contracts, so the TUI and CLI can run against a remote backend
// exactly as they run against the local configuration directory.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fluxvision/internal/influx"
	"github.com/muurk/fluxvision/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout. The backend's own
	// InfluxDB probe may take up to influx.DefaultTimeout, so this is longer.
	DefaultTimeout = 15 * time.Second

	maxBody = 1 << 20

	credentialsPath = "/api/credentials"
)

// Client talks to a fluxvision-server instance.
type Client struct {
	// BaseURL is the server root (e.g., "http://localhost:8000")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil)
}

// Load returns the credentials saved on the server. A 404 becomes an error
// matching influx.ErrNotFound.
func (c *Client) Load(ctx context.Context) (influx.Credentials, error) {
	var creds influx.Credentials
	if err := c.doJSON(ctx, http.MethodGet, credentialsPath, nil, &creds); err != nil {
		return influx.Credentials{}, err
	}
	return creds, nil
}

// Save stores creds on the server.
func (c *Client) Save(ctx context.Context, creds influx.Credentials) error {
	return c.doJSON(ctx, http.MethodPost, credentialsPath, creds, nil)
}

// Probe asks the server to check connectivity with its saved credentials.
func (c *Client) Probe(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/influx/check", nil, nil)
}

// Buckets lists buckets through the server.
func (c *Client) Buckets(ctx context.Context) ([]influx.Bucket, error) {
	var buckets []influx.Bucket
	if err := c.doJSON(ctx, http.MethodGet, "/api/buckets", nil, &buckets); err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []influx.Bucket{}
	}
	return buckets, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return influx.NewTransportError(fmt.Sprintf("Invalid server URL %q", c.BaseURL), err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.Debug("Backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return influx.NewTransportError("", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.Debug("Backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.String("request_id", resp.Header.Get(RequestIDHeader)),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, path == credentialsPath)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return influx.NewServiceError(resp.StatusCode, fmt.Sprintf("Malformed response from server: %v", err))
	}
	return nil
}

// RequestIDHeader carries the id the server assigns to every request
const RequestIDHeader = "X-Request-ID"

// ErrorBody is the error envelope used by fluxvision-server
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// decodeError turns a non-2xx response into an *influx.Error. Only string
// details are surfaced; structured validation payloads fall back to the
// caller's own message. A 404 means "nothing saved" only on the credentials
// resource.
func decodeError(resp *http.Response, notFoundMeansEmpty bool) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	detail := ""
	var payload ErrorBody
	if err := json.Unmarshal(data, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			detail = s
		}
	}

	if resp.StatusCode == http.StatusNotFound && notFoundMeansEmpty {
		if detail == "" {
			return influx.ErrNotFound
		}
		return influx.NewNotFoundError(detail)
	}
	return influx.NewServiceError(resp.StatusCode, detail)
}
