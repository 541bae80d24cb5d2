// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/search-trends/pkg/types"
)

// Widget ids as they appear in explore responses. Multi-keyword explores
// suffix them ("RELATED_QUERIES_0"), so lookups match by substring.
const (
	WidgetTimeseries     = "TIMESERIES"
	WidgetRelatedQueries = "RELATED_QUERIES"
	WidgetRelatedTopics  = "RELATED_TOPICS"
)

// Widget is one explore widget: the token and request the provider expects
// back when fetching that widget's data.
type Widget struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Time    string `json:"time"`
	Geo     string `json:"geo"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type exploreResponse struct {
	Widgets []Widget `json:"widgets"`
}

// Explore builds the explore payload for keywords and returns the widgets
// the provider issued for it.
func (c *Client) Explore(ctx context.Context, keywords []string, p types.ExplorePayload) ([]Widget, error) {
	if p.Timeframe == "" {
		p.Timeframe = types.DefaultExplorePayload().Timeframe
	}

	items := make([]comparisonItem, 0, len(keywords))
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			return nil, ErrEmptyKeyword
		}
		items = append(items, comparisonItem{Keyword: kw, Time: p.Timeframe, Geo: p.Geo})
	}
	if len(items) == 0 {
		return nil, ErrEmptyKeyword
	}

	reqJSON, err := json.Marshal(exploreRequest{
		ComparisonItem: items,
		Category:       p.Category,
		Property:       p.Property,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding explore request: %w", err)
	}

	params := url.Values{
		"hl":  {c.hl},
		"tz":  {c.tzParam()},
		"req": {string(reqJSON)},
	}

	var resp exploreResponse
	if err := c.fetchJSON(ctx, http.MethodPost, explorePath, params, &resp); err != nil {
		return nil, err
	}
	return resp.Widgets, nil
}

// findWidget returns the first widget whose id contains id.
func findWidget(widgets []Widget, id string) (Widget, error) {
	for _, w := range widgets {
		if strings.Contains(w.ID, id) {
			return w, nil
		}
	}
	return Widget{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
}
