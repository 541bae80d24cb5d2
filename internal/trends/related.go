// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pdiddy/search-trends/pkg/types"
)

type rankedList struct {
	RankedKeyword []map[string]any `json:"rankedKeyword"`
}

type relatedResponse struct {
	Default struct {
		RankedList []rankedList `json:"rankedList"`
	} `json:"default"`
}

// RelatedQueries returns the top and rising related queries for keyword.
// Rows carry the "query" and "value" columns.
func (c *Client) RelatedQueries(ctx context.Context, keyword string, p types.ExplorePayload) (types.RelatedTables, error) {
	lists, err := c.related(ctx, keyword, p, WidgetRelatedQueries)
	if err != nil {
		return types.RelatedTables{}, err
	}
	return types.RelatedTables{
		Top:    queryTable(keywordsAt(lists, 0)),
		Rising: queryTable(keywordsAt(lists, 1)),
	}, nil
}

// RelatedTopics returns the top and rising related topics for keyword. Nested
// topic fields are flattened with "_" (topic.title becomes topic_title).
func (c *Client) RelatedTopics(ctx context.Context, keyword string, p types.ExplorePayload) (types.RelatedTables, error) {
	lists, err := c.related(ctx, keyword, p, WidgetRelatedTopics)
	if err != nil {
		return types.RelatedTables{}, err
	}
	return types.RelatedTables{
		Top:    topicTable(keywordsAt(lists, 0)),
		Rising: topicTable(keywordsAt(lists, 1)),
	}, nil
}

// related runs explore for keyword, then fetches the ranked lists of the
// widget named id. Index 0 is "top", index 1 is "rising".
func (c *Client) related(ctx context.Context, keyword string, p types.ExplorePayload, id string) ([]rankedList, error) {
	widgets, err := c.Explore(ctx, []string{keyword}, p)
	if err != nil {
		return nil, err
	}
	w, err := findWidget(widgets, id)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"req":   {string(w.Request)},
		"token": {w.Token},
		"tz":    {c.tzParam()},
	}

	var resp relatedResponse
	if err := c.fetchJSON(ctx, http.MethodGet, relatedPath, params, &resp); err != nil {
		return nil, err
	}
	return resp.Default.RankedList, nil
}

func keywordsAt(lists []rankedList, i int) []map[string]any {
	if i >= len(lists) {
		return nil
	}
	return lists[i].RankedKeyword
}

// queryTable keeps the query and value columns. An empty list means the
// provider has no data for the slice, reported as a nil table.
func queryTable(keywords []map[string]any) types.Table {
	if len(keywords) == 0 {
		return nil
	}
	table := make(types.Table, 0, len(keywords))
	for _, kw := range keywords {
		table = append(table, map[string]any{
			"query": kw["query"],
			"value": kw["value"],
		})
	}
	return table
}

func topicTable(keywords []map[string]any) types.Table {
	if len(keywords) == 0 {
		return nil
	}
	table := make(types.Table, 0, len(keywords))
	for _, kw := range keywords {
		row := make(map[string]any, len(kw))
		flatten("", kw, row)
		table = append(table, row)
	}
	return table
}

// flatten copies src into dst, joining nested object keys with "_".
func flatten(prefix string, src map[string]any, dst map[string]any) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, dst)
			continue
		}
		dst[key] = v
	}
}
