package clients

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Logger interface for client logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// HTTPClient wraps http.Client with context-aware helpers. Every outgoing
// request carries an X-Request-ID so a fetch and its follow-up link or chunk
// fetches can be correlated in logs.
type HTTPClient struct {
	client *http.Client
	logger Logger
}

// NewHTTPClient creates a new HTTP client wrapper
func NewHTTPClient(client *http.Client, logger Logger) *HTTPClient {
	return &HTTPClient{
		client: client,
		logger: logger,
	}
}

// DoRequest creates and executes an HTTP request
func (c *HTTPClient) DoRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	c.logger.Debug("issuing request", "method", method, "url", url)

	return c.client.Do(req)
}

// Get issues a GET with the given query parameters attached
func (c *HTTPClient) Get(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	if len(params) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for key, values := range params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	return c.DoRequest(ctx, http.MethodGet, rawURL, nil)
}
