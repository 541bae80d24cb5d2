// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"context"
	"fmt"
	"net/http"
)

// TrendingSearches returns the provider's current trending terms for region
// (e.g. "south_korea") as a one-column table, one row per term, in provider
// rank order.
func (c *Client) TrendingSearches(ctx context.Context, region string) ([][]string, error) {
	if region == "" {
		region = DefaultRegion
	}

	var byRegion map[string][]string
	if err := c.fetchJSON(ctx, http.MethodGet, trendingPath, nil, &byRegion); err != nil {
		return nil, err
	}

	terms, ok := byRegion[region]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRegionNotFound, region)
	}

	rows := make([][]string, 0, len(terms))
	for _, term := range terms {
		rows = append(rows, []string{term})
	}
	return rows, nil
}
