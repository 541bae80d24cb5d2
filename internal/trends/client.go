// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trends is a client for the Google Trends web API: trending
// searches, related queries, related topics, and autocomplete suggestions.
//
// The provider answers most API calls with an XSSI guard prefix and expects
// the NID session cookie it hands out on its explore page. Client handles
// both; callers see plain Go values.
package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/pdiddy/search-trends/internal/httputil"
	"github.com/pdiddy/search-trends/pkg/types"
)

const (
	DefaultBaseURL   = "https://trends.google.com/trends"
	DefaultHL        = "ko-KR"
	DefaultTZ        = 540
	DefaultRegion    = "south_korea"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

const (
	trendingPath     = "/hottrends/visualize/internal/data"
	explorePath      = "/api/explore"
	relatedPath      = "/api/widgetdata/relatedsearches"
	autocompletePath = "/api/autocomplete/"
	sessionPath      = "/explore/"

	sessionCookie = "NID"
)

// xssiPrefix guards JSON responses against inclusion as script.
var xssiPrefix = []byte(")]}'")

// Client talks to the trends provider. It is not safe for concurrent use;
// build one per invocation.
type Client struct {
	HTTP *http.Client

	baseURL   string
	hl        string
	tz        int
	geo       string
	userAgent string
	log       zerolog.Logger

	sessionOpen bool
}

// New builds a Client from cfg, filling zero fields with the package
// defaults. The session geo is the region subtag of cfg.HL ("ko-KR" -> "KR").
func New(cfg types.TrendsConfig, log zerolog.Logger) (*Client, error) {
	if cfg.HL == "" {
		cfg.HL = DefaultHL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	tag, err := language.Parse(cfg.HL)
	if err != nil {
		return nil, fmt.Errorf("invalid hl %q: %w", cfg.HL, err)
	}
	geo := ""
	if region, conf := tag.Region(); conf != language.No {
		geo = region.String()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout, Jar: jar},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		hl:        cfg.HL,
		tz:        cfg.TZ,
		geo:       geo,
		userAgent: cfg.UserAgent,
		log:       log.With().Str("component", "trends").Logger(),
	}, nil
}

// Geo returns the region code used when opening the provider session.
func (c *Client) Geo() string { return c.geo }

// openSession visits the explore page once so the cookie jar holds the
// provider's session cookie for every later call.
func (c *Client) openSession(ctx context.Context) error {
	if c.sessionOpen {
		return nil
	}

	req, err := c.newRequest(ctx, http.MethodGet, sessionPath, url.Values{"geo": {c.geo}})
	if err != nil {
		return err
	}
	if _, err := httputil.Fetch(ctx, c.HTTP, req); err != nil {
		return fmt.Errorf("opening trends session: %w", err)
	}
	c.sessionOpen = true

	hasCookie := false
	for _, ck := range c.HTTP.Jar.Cookies(req.URL) {
		if ck.Name == sessionCookie {
			hasCookie = true
			break
		}
	}
	c.log.Debug().Str("geo", c.geo).Bool("session_cookie", hasCookie).Msg("trends session opened")
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values) (*http.Request, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.hl)
	return req, nil
}

// fetchJSON opens the session if needed, performs the call, strips the XSSI
// guard, and decodes the body into v. Numbers decode as json.Number so
// provider values pass through without float rounding.
func (c *Client) fetchJSON(ctx context.Context, method, path string, params url.Values, v any) error {
	if err := c.openSession(ctx); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, path, params)
	if err != nil {
		return err
	}

	start := time.Now()
	body, err := httputil.Fetch(ctx, c.HTTP, req)
	if err != nil {
		return fmt.Errorf("trends API request: %w", err)
	}
	c.log.Debug().
		Str("path", path).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("trends response")

	if err := decodeJSON(stripXSSI(body), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

func (c *Client) tzParam() string { return strconv.Itoa(c.tz) }

// stripXSSI removes the ")]}'" guard and the optional comma that follows it.
func stripXSSI(body []byte) []byte {
	b := bytes.TrimLeft(body, " \t\r\n")
	if !bytes.HasPrefix(b, xssiPrefix) {
		return b
	}
	b = bytes.TrimLeft(b[len(xssiPrefix):], " \t\r\n")
	return bytes.TrimPrefix(b, []byte(","))
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
