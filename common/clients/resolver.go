package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Resolve turns an endpoint plus query parameters into a fully dereferenced
// JSON document. When the service answers with a one-time download link the
// linked payload is fetched and returned; callers never see the envelope.
//
// If the session has lapsed (the fetch comes back 401) the session is
// invalidated and the whole cycle is retried after a fresh login, at most
// once. A second consecutive 401 fails fast so sustained credential
// rejection cannot loop.
//
// Transport-level connection failures degrade to an absent (nil, nil)
// result: they are logged but deliberately not fatal, unlike protocol-level
// rejections which surface as *ResolveError.
func (c *RacingClient) Resolve(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	requestURL := c.baseURL + endpoint

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := c.session.EnsureAuthenticated(ctx); err != nil {
			return nil, err
		}

		doc, err := c.resolveOnce(ctx, requestURL, params)
		if err == nil {
			return doc, nil
		}

		var re *ResolveError
		if errors.As(err, &re) && re.StatusCode == http.StatusUnauthorized {
			// resolveOnce already invalidated the session; go around for
			// the single permitted re-auth cycle.
			lastErr = err
			continue
		}

		if isConnectionError(err) {
			c.logger.Warn("resource fetch failed", "endpoint", endpoint, "error", err)
			return nil, nil
		}

		return nil, err
	}

	return nil, lastErr
}

// resolveOnce performs one GET of the resource and dereferences a link
// envelope if present.
func (c *RacingClient) resolveOnce(ctx context.Context, requestURL string, params url.Values) (json.RawMessage, error) {
	resp, err := c.http.Get(ctx, requestURL, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Unauthorized, most likely a lapsed session cookie.
		c.session.Invalidate()
		return nil, &ResolveError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ResolveError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON from %s", requestURL)
	}

	if link, ok := redirectLink(body); ok {
		return c.fetchLink(ctx, link)
	}

	return json.RawMessage(body), nil
}

// fetchLink retrieves the externally hosted payload a link envelope points at
func (c *RacingClient) fetchLink(ctx context.Context, link string) (json.RawMessage, error) {
	resp, err := c.http.Get(ctx, link, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ResolveError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON from link %s", link)
	}

	return json.RawMessage(body), nil
}

// redirectLink reports whether the body is an object envelope carrying a
// download link. Arrays are always inline payloads, never envelopes.
func redirectLink(body []byte) (string, bool) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}

	var envelope struct {
		Link *string `json:"link"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Link == nil {
		return "", false
	}
	return *envelope.Link, true
}

// isConnectionError distinguishes transport failures (connection refused,
// resets, DNS) from protocol-level errors. http.Client wraps all of these in
// *url.Error.
func isConnectionError(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue)
}
