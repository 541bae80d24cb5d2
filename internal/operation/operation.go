// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package operation maps the closed set of trends operations to handlers,
// runs one of them against a Provider, normalizes the result, and applies the
// shared failure policy: a provider failure becomes a diagnostic on stderr
// plus the operation's empty value on stdout, so stdout always parses.
package operation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/search-trends/pkg/types"
)

// Operation names one supported trends call.
type Operation string

const (
	TrendingSearches Operation = "trending_searches"
	RelatedQueries   Operation = "related_queries"
	RelatedTopics    Operation = "related_topics"
	Suggestions      Operation = "suggestions"
)

// MaxTrending caps the number of trending terms in a result.
const MaxTrending = 20

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMissingKeyword   = errors.New("keyword argument is required")
)

// UsageError reports an invocation the adapter refuses to run. It wraps
// ErrUnknownOperation or ErrMissingKeyword.
type UsageError struct {
	Op  string
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UsageError) Unwrap() error { return e.Err }

// IsUsage reports whether err is a UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// Provider is the trends data source. *trends.Client implements it.
type Provider interface {
	TrendingSearches(ctx context.Context, region string) ([][]string, error)
	RelatedQueries(ctx context.Context, keyword string, p types.ExplorePayload) (types.RelatedTables, error)
	RelatedTopics(ctx context.Context, keyword string, p types.ExplorePayload) (types.RelatedTables, error)
	Suggestions(ctx context.Context, keyword string) ([]types.Suggestion, error)
}

// Request is one parsed invocation.
type Request struct {
	Op      Operation
	Keyword string
	// Region applies to TrendingSearches.
	Region string
	// Payload applies to RelatedQueries and RelatedTopics.
	Payload types.ExplorePayload
}

// Handler describes an operation for the CLI and for dispatch.
type Handler struct {
	Op           Operation
	Short        string
	NeedsKeyword bool

	run   func(ctx context.Context, p Provider, req Request) (any, error)
	empty func() any
}

// Empty returns the value written to stdout when the operation fails.
func (s Handler) Empty() any { return s.empty() }

var table = map[Operation]Handler{
	TrendingSearches: {
		Op:    TrendingSearches,
		Short: "Print the current trending search terms for the configured region",
		run: func(ctx context.Context, p Provider, req Request) (any, error) {
			rows, err := p.TrendingSearches(ctx, req.Region)
			if err != nil {
				return nil, err
			}
			return FlattenTrending(rows), nil
		},
		empty: func() any { return []string{} },
	},
	RelatedQueries: {
		Op:           RelatedQueries,
		Short:        "Print top and rising queries related to a keyword",
		NeedsKeyword: true,
		run: func(ctx context.Context, p Provider, req Request) (any, error) {
			tables, err := p.RelatedQueries(ctx, req.Keyword, req.Payload)
			if err != nil {
				return nil, err
			}
			return NormalizeRelated(tables), nil
		},
		empty: emptyRelated,
	},
	RelatedTopics: {
		Op:           RelatedTopics,
		Short:        "Print top and rising topics related to a keyword",
		NeedsKeyword: true,
		run: func(ctx context.Context, p Provider, req Request) (any, error) {
			tables, err := p.RelatedTopics(ctx, req.Keyword, req.Payload)
			if err != nil {
				return nil, err
			}
			return NormalizeRelated(tables), nil
		},
		empty: emptyRelated,
	},
	Suggestions: {
		Op:           Suggestions,
		Short:        "Print autocomplete suggestions for a keyword",
		NeedsKeyword: true,
		run: func(ctx context.Context, p Provider, req Request) (any, error) {
			s, err := p.Suggestions(ctx, req.Keyword)
			if err != nil {
				return nil, err
			}
			if s == nil {
				s = []types.Suggestion{}
			}
			return s, nil
		},
		empty: func() any { return []types.Suggestion{} },
	},
}

func emptyRelated() any { return types.RelatedResult{Top: types.RowMap{}, Rising: types.RowMap{}} }

func init() {
	for op, h := range table {
		if h.Op != op || h.run == nil || h.empty == nil {
			panic(fmt.Sprintf("operation: incomplete handler for %q", op))
		}
	}
}

// Operations returns every supported operation in name order.
func Operations() []Handler {
	handlers := make([]Handler, 0, len(table))
	for _, s := range table {
		handlers = append(handlers, s)
	}
	sort.Slice(handlers, func(i, j int) bool { return handlers[i].Op < handlers[j].Op })
	return handlers
}

// Lookup matches name exactly (case-sensitive) against the supported set.
func Lookup(name string) (Handler, error) {
	s, ok := table[Operation(name)]
	if !ok {
		return Handler{}, &UsageError{Op: name, Err: ErrUnknownOperation}
	}
	return s, nil
}

// Validate checks req against its operation's argument rules.
func Validate(req Request) (Handler, error) {
	h, err := Lookup(string(req.Op))
	if err != nil {
		return Handler{}, err
	}
	if h.NeedsKeyword && strings.TrimSpace(req.Keyword) == "" {
		return Handler{}, &UsageError{Op: string(req.Op), Err: ErrMissingKeyword}
	}
	return h, nil
}
