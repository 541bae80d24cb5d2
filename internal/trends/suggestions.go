// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/search-trends/pkg/types"
)

type autocompleteResponse struct {
	Default struct {
		Topics []types.Suggestion `json:"topics"`
	} `json:"default"`
}

// Suggestions returns autocomplete records for keyword exactly as the
// provider sent them (typically mid, title, and type).
func (c *Client) Suggestions(ctx context.Context, keyword string) ([]types.Suggestion, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}

	var resp autocompleteResponse
	path := autocompletePath + url.PathEscape(keyword)
	if err := c.fetchJSON(ctx, http.MethodGet, path, url.Values{"hl": {c.hl}}, &resp); err != nil {
		return nil, err
	}
	return resp.Default.Topics, nil
}
