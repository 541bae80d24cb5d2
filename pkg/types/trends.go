// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for search-trends: raw provider
// tables, normalized results, and configuration.
package types

import (
	"bytes"
	"encoding/json"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// Table is a provider result table, one map per row keyed by column name.
// A nil Table means the provider reported no data at all, which is distinct
// from a table with zero rows.
type Table []map[string]any

// RelatedTables holds the two slices the provider returns for related
// queries and related topics.
type RelatedTables struct {
	Top    Table
	Rising Table
}

// Suggestion is one autocomplete record exactly as the provider sent it.
type Suggestion map[string]any

// MarshalYAML emits provider numbers as YAML numbers.
func (s Suggestion) MarshalYAML() (any, error) {
	if s == nil {
		return nil, nil
	}
	return yamlValue(map[string]any(s)), nil
}

// RowMap is a normalized table: it serializes as an object from row index
// ("0", "1", ...) to the row's column mapping, in row order. Nil and empty
// RowMaps both serialize as an empty object.
type RowMap []map[string]any

// MarshalJSON writes the rows as an index-keyed object, preserving row order.
func (m RowMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var out bytes.Buffer
	out.WriteByte('{')
	for i, row := range m {
		if i > 0 {
			out.WriteByte(',')
		}
		out.WriteString(strconv.Quote(strconv.Itoa(i)))
		out.WriteByte(':')

		buf.Reset()
		if row == nil {
			row = map[string]any{}
		}
		if err := enc.Encode(row); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// MarshalYAML builds an ordered mapping node so YAML output keeps row order.
func (m RowMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, row := range m {
		if row == nil {
			row = map[string]any{}
		}
		var value yaml.Node
		if err := value.Encode(yamlValue(row)); err != nil {
			return nil, err
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: strconv.Itoa(i)}
		node.Content = append(node.Content, key, &value)
	}
	return node, nil
}

// yamlValue converts json.Number values, at any depth, to int64 or float64.
// The yaml encoder would otherwise write them as quoted strings.
func yamlValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = yamlValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlValue(e)
		}
		return out
	default:
		return v
	}
}

// RelatedResult is the normalized form of related queries or related topics.
// Both keys are always present.
type RelatedResult struct {
	Top    RowMap `json:"top" yaml:"top"`
	Rising RowMap `json:"rising" yaml:"rising"`
}

// ExplorePayload holds the explore parameters that scope related queries and
// related topics for a keyword.
type ExplorePayload struct {
	// Timeframe is the provider time window, e.g. "today 5-y" or "now 7-d".
	Timeframe string `json:"timeframe" yaml:"timeframe"`

	// Geo restricts results to a region code ("" for worldwide, "KR", "US-CA").
	Geo string `json:"geo" yaml:"geo"`

	// Category is the provider category id (0 for all categories).
	Category int `json:"category" yaml:"category"`

	// Property narrows the search property: "", "images", "news", "youtube", "froogle".
	Property string `json:"property" yaml:"property"`
}

// DefaultExplorePayload returns the provider's default explore scope.
func DefaultExplorePayload() ExplorePayload {
	return ExplorePayload{Timeframe: "today 5-y"}
}
