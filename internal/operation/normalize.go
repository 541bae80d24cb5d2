// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package operation

import "github.com/pdiddy/search-trends/pkg/types"

// FlattenTrending flattens trending rows in row order and keeps at most
// MaxTrending terms. The result is never nil.
func FlattenTrending(rows [][]string) []string {
	terms := make([]string, 0, MaxTrending)
	for _, row := range rows {
		for _, cell := range row {
			if len(terms) == MaxTrending {
				return terms
			}
			terms = append(terms, cell)
		}
	}
	return terms
}

// NormalizeTable turns a provider table into a RowMap. A nil table (no
// data) becomes an empty RowMap, never nil.
func NormalizeTable(t types.Table) types.RowMap {
	rows := make(types.RowMap, len(t))
	copy(rows, t)
	return rows
}

// NormalizeRelated normalizes both slices of a related result.
func NormalizeRelated(t types.RelatedTables) types.RelatedResult {
	return types.RelatedResult{
		Top:    NormalizeTable(t.Top),
		Rising: NormalizeTable(t.Rising),
	}
}
