// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across provider clients.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes caps how much of a response body Fetch will read.
var MaxBodyBytes int64 = 8 << 20

// snippetLen is the number of body bytes kept on a StatusError.
const snippetLen = 200

// StatusError reports a non-2xx response from an upstream API.
type StatusError struct {
	StatusCode int
	URL        string
	// Snippet holds the start of the response body, for diagnostics.
	Snippet string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s returned HTTP %d", e.URL, e.StatusCode)
	if e.Snippet != "" {
		msg += ": " + e.Snippet
	}
	return msg
}

// RateLimited reports whether the upstream answered 429 Too Many Requests.
// Callers get the classification only; nothing here retries.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimited reports whether err wraps a 429 StatusError.
func IsRateLimited(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.RateLimited()
	}
	return false
}

// Fetch executes req with ctx and returns the body of a 2xx response.
// Any other status yields a *StatusError; the body is always closed.
func Fetch(ctx context.Context, client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req.Clone(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        redactQuery(req.URL.String()),
			Snippet:    snippet(body),
		}
	}
	return body, nil
}

// redactQuery drops the query string; provider tokens travel there.
func redactQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

func snippet(body []byte) string {
	r := []rune(strings.Join(strings.Fields(string(body)), " "))
	if len(r) > snippetLen {
		return string(r[:snippetLen]) + "..."
	}
	return string(r)
}
