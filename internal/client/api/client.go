// Package api is the transport layer of the personnel client. Every request
// resolves to either a JSON payload or a single *APIError whose message is
// ready to be shown to the user.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client talks to a personnel REST backend rooted at a base URL such as
// http://127.0.0.1:8000/personnel.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the diagnostic logger. Failure details that are never shown
// to the user are written here.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a client for the collection at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the collection URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Perform sends one request to baseURL+path. A non-nil body is sent as JSON.
//
// On a 2xx response Perform returns the raw JSON payload, or nil when the
// response carries no content. A 2xx body that is not valid JSON is returned
// as a plain decode error. Every other outcome is an *APIError.
func (c *Client) Perform(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(method, url, failure{shape: shapeTransport, cause: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(method, url, failure{shape: shapeTransport, status: resp.StatusCode, cause: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(method, url, classify(resp.StatusCode, raw))
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 || len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var payload json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode response of %s %s: %w", method, url, err)
	}
	return payload, nil
}

func (c *Client) fail(method, url string, f failure) *APIError {
	apiErr := f.apiError()
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.Stringer("kind", apiErr.kind),
		zap.String("message", apiErr.Message),
	}
	if f.status != 0 {
		fields = append(fields, zap.Int("status", f.status))
	}
	if f.cause != nil {
		fields = append(fields, zap.Error(f.cause))
	}
	c.logger.Warn("api request failed", fields...)
	if f.shape == shapeDetailObject {
		c.logger.Debug("raw error detail", zap.ByteString("detail", f.rawDetail))
	}
	return apiErr
}
