// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package operation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/search-trends/internal/httputil"
	"github.com/pdiddy/search-trends/pkg/types"
)

// --- mock provider ---

type mockProvider struct {
	trending    [][]string
	queries     types.RelatedTables
	topics      types.RelatedTables
	suggestions []types.Suggestion
	err         error

	calls       []string
	lastKeyword string
	lastRegion  string
	lastPayload types.ExplorePayload
}

func (m *mockProvider) TrendingSearches(_ context.Context, region string) ([][]string, error) {
	m.calls = append(m.calls, "trending")
	m.lastRegion = region
	return m.trending, m.err
}

func (m *mockProvider) RelatedQueries(_ context.Context, keyword string, p types.ExplorePayload) (types.RelatedTables, error) {
	m.calls = append(m.calls, "queries")
	m.lastKeyword, m.lastPayload = keyword, p
	return m.queries, m.err
}

func (m *mockProvider) RelatedTopics(_ context.Context, keyword string, p types.ExplorePayload) (types.RelatedTables, error) {
	m.calls = append(m.calls, "topics")
	m.lastKeyword, m.lastPayload = keyword, p
	return m.topics, m.err
}

func (m *mockProvider) Suggestions(_ context.Context, keyword string) ([]types.Suggestion, error) {
	m.calls = append(m.calls, "suggestions")
	m.lastKeyword = keyword
	return m.suggestions, m.err
}

func run(t *testing.T, p Provider, req Request) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	r := &Runner{Provider: p, Stdout: &out, Stderr: &errOut, Format: types.OutputJSON, Log: zerolog.Nop()}
	err = r.Run(context.Background(), req)
	return out.String(), errOut.String(), err
}

func terms(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("term-%02d", i)}
	}
	return rows
}

// --- dispatch table ---

func TestOperations_AllHandled(t *testing.T) {
	handlers := Operations()
	names := make([]Operation, 0, len(handlers))
	for _, s := range handlers {
		names = append(names, s.Op)
		assert.NotNil(t, s.run, s.Op)
		assert.NotNil(t, s.Empty(), s.Op)
		assert.NotEmpty(t, s.Short, s.Op)
	}
	assert.Equal(t, []Operation{RelatedQueries, RelatedTopics, Suggestions, TrendingSearches}, names)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    Operation
		wantErr bool
	}{
		{"trending_searches", TrendingSearches, false},
		{"related_queries", RelatedQueries, false},
		{"related_topics", RelatedTopics, false},
		{"suggestions", Suggestions, false},
		{"Trending_Searches", "", true},
		{"related-queries", "", true},
		{"interest_over_time", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Lookup(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownOperation)
				assert.True(t, IsUsage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Op)
		})
	}
}

func TestValidate_KeywordRules(t *testing.T) {
	tests := []struct {
		req     Request
		wantErr error
	}{
		{Request{Op: TrendingSearches}, nil},
		{Request{Op: RelatedQueries, Keyword: "abc"}, nil},
		{Request{Op: RelatedQueries}, ErrMissingKeyword},
		{Request{Op: RelatedTopics, Keyword: "   "}, ErrMissingKeyword},
		{Request{Op: Suggestions}, ErrMissingKeyword},
		{Request{Op: "bogus", Keyword: "abc"}, ErrUnknownOperation},
	}
	for _, tt := range tests {
		t.Run(string(tt.req.Op)+"/"+tt.req.Keyword, func(t *testing.T) {
			_, err := Validate(tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// --- trending_searches ---

func TestRun_TrendingEmpty(t *testing.T) {
	p := &mockProvider{trending: [][]string{}}
	stdout, stderr, err := run(t, p, Request{Op: TrendingSearches, Region: "south_korea"})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
	assert.Empty(t, stderr)
	assert.Equal(t, "south_korea", p.lastRegion)
}

func TestRun_TrendingTruncatesToTwenty(t *testing.T) {
	p := &mockProvider{trending: terms(25)}
	stdout, stderr, err := run(t, p, Request{Op: TrendingSearches})
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var got []string
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, MaxTrending)
	for i, term := range got {
		assert.Equal(t, fmt.Sprintf("term-%02d", i), term)
	}
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
}

func TestRun_TrendingProviderError(t *testing.T) {
	p := &mockProvider{err: errors.New("connection reset by peer")}
	stdout, stderr, err := run(t, p, Request{Op: TrendingSearches})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)

	var diag []string
	require.NoError(t, json.Unmarshal([]byte(stderr), &diag))
	require.Len(t, diag, 1)
	assert.True(t, strings.HasPrefix(diag[0], "Error: "))
	assert.Contains(t, diag[0], "connection reset by peer")
}

func TestRun_TrendingRateLimited(t *testing.T) {
	p := &mockProvider{err: fmt.Errorf("trends API request: %w", &httputil.StatusError{StatusCode: 429, URL: "https://example.test/x"})}
	stdout, stderr, err := run(t, p, Request{Op: TrendingSearches})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
	assert.Contains(t, stderr, "HTTP 429")
}

// --- related_queries / related_topics ---

func TestRun_RelatedQueriesTopPopulatedRisingAbsent(t *testing.T) {
	p := &mockProvider{queries: types.RelatedTables{
		Top: types.Table{
			{"query": "abc news", "value": json.Number("100")},
			{"query": "abc 2026", "value": json.Number("42")},
		},
	}}
	payload := types.ExplorePayload{Timeframe: "now 7-d", Geo: "KR"}
	stdout, stderr, err := run(t, p, Request{Op: RelatedQueries, Keyword: "abc", Payload: payload})
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t,
		`{"top":{"0":{"query":"abc news","value":100},"1":{"query":"abc 2026","value":42}},"rising":{}}`+"\n",
		stdout)
	assert.Equal(t, "abc", p.lastKeyword)
	assert.Equal(t, payload, p.lastPayload)
	assert.Equal(t, []string{"queries"}, p.calls)
}

func TestRun_RelatedTopicsIndependentContract(t *testing.T) {
	p := &mockProvider{
		queries: types.RelatedTables{Top: types.Table{{"query": "wrong call"}}},
		topics: types.RelatedTables{
			Rising: types.Table{{"topic_title": "ABC", "value": json.Number("250")}},
		},
	}
	stdout, _, err := run(t, p, Request{Op: RelatedTopics, Keyword: "abc"})
	require.NoError(t, err)
	assert.Equal(t, `{"top":{},"rising":{"0":{"topic_title":"ABC","value":250}}}`+"\n", stdout)
	assert.Equal(t, []string{"topics"}, p.calls)
}

func TestRun_RelatedBothAbsent(t *testing.T) {
	p := &mockProvider{}
	stdout, _, err := run(t, p, Request{Op: RelatedQueries, Keyword: "abc"})
	require.NoError(t, err)
	assert.Equal(t, `{"top":{},"rising":{}}`+"\n", stdout)
}

func TestRun_RelatedProviderErrorKeepsShape(t *testing.T) {
	for _, op := range []Operation{RelatedQueries, RelatedTopics} {
		t.Run(string(op), func(t *testing.T) {
			p := &mockProvider{err: errors.New("widget not found")}
			stdout, stderr, err := run(t, p, Request{Op: op, Keyword: "abc"})
			require.NoError(t, err)
			assert.Equal(t, `{"top":{},"rising":{}}`+"\n", stdout)
			assert.Equal(t, `["Error: widget not found"]`+"\n", stderr)
		})
	}
}

// --- suggestions ---

func TestRun_SuggestionsPassThrough(t *testing.T) {
	p := &mockProvider{suggestions: []types.Suggestion{
		{"mid": "/m/0abc", "title": "ABC", "type": "Broadcaster"},
		{"mid": "/g/11x", "title": "abc def", "type": "Topic", "extra": map[string]any{"n": json.Number("1")}},
	}}
	stdout, stderr, err := run(t, p, Request{Op: Suggestions, Keyword: "abc"})
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.JSONEq(t, `[
		{"mid":"/m/0abc","title":"ABC","type":"Broadcaster"},
		{"mid":"/g/11x","title":"abc def","type":"Topic","extra":{"n":1}}
	]`, stdout)
}

func TestRun_SuggestionsNilIsEmptyList(t *testing.T) {
	stdout, _, err := run(t, &mockProvider{}, Request{Op: Suggestions, Keyword: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
}

func TestRun_SuggestionsProviderError(t *testing.T) {
	stdout, stderr, err := run(t, &mockProvider{err: errors.New("boom")}, Request{Op: Suggestions, Keyword: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
	assert.Equal(t, `["Error: boom"]`+"\n", stderr)
}

// --- usage errors ---

func TestRun_UnknownOperation(t *testing.T) {
	p := &mockProvider{}
	stdout, stderr, err := run(t, p, Request{Op: "interest_over_time", Keyword: "abc"})
	assert.ErrorIs(t, err, ErrUnknownOperation)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
	assert.Empty(t, p.calls)
}

func TestRun_MissingKeyword(t *testing.T) {
	for _, op := range []Operation{RelatedQueries, RelatedTopics, Suggestions} {
		t.Run(string(op), func(t *testing.T) {
			p := &mockProvider{}
			stdout, _, err := run(t, p, Request{Op: op})
			assert.ErrorIs(t, err, ErrMissingKeyword)
			assert.Empty(t, stdout)
			assert.Empty(t, p.calls)
		})
	}
}

// --- cancellation ---

// cancelingProvider cancels the invocation while its call is in flight.
type cancelingProvider struct {
	mockProvider
	cancel context.CancelFunc
}

func (c *cancelingProvider) TrendingSearches(ctx context.Context, _ string) ([][]string, error) {
	c.cancel()
	<-ctx.Done()
	return nil, fmt.Errorf("opening trends session: %w", ctx.Err())
}

func TestRun_CancelledWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out, errOut bytes.Buffer
	r := &Runner{
		Provider: &cancelingProvider{cancel: cancel},
		Stdout:   &out,
		Stderr:   &errOut,
		Log:      zerolog.Nop(),
	}
	err := r.Run(ctx, Request{Op: TrendingSearches})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsUsage(err))
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

// --- output failures ---

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRun_StdoutWriteFailure(t *testing.T) {
	r := &Runner{
		Provider: &mockProvider{trending: terms(1)},
		Stdout:   failWriter{},
		Stderr:   &bytes.Buffer{},
		Log:      zerolog.Nop(),
	}
	err := r.Run(context.Background(), Request{Op: TrendingSearches})
	require.Error(t, err)
	assert.False(t, IsUsage(err))
	assert.Contains(t, err.Error(), "closed pipe")
}

// --- normalization ---

func TestFlattenTrending(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []string
	}{
		{"nil", nil, []string{}},
		{"single column", [][]string{{"a"}, {"b"}}, []string{"a", "b"}},
		{"row major", [][]string{{"a", "b"}, {"c"}}, []string{"a", "b", "c"}},
		{"cap applies across columns", append(terms(19), []string{"x", "y", "z"}), append(flat(terms(19)), "x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenTrending(tt.rows)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func flat(rows [][]string) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

func TestNormalizeTable(t *testing.T) {
	assert.Equal(t, types.RowMap{}, NormalizeTable(nil))
	assert.Equal(t, types.RowMap{}, NormalizeTable(types.Table{}))

	in := types.Table{{"query": "a"}, {"query": "b"}}
	got := NormalizeTable(in)
	assert.Equal(t, types.RowMap{{"query": "a"}, {"query": "b"}}, got)
}
