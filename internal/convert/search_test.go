package convert

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRequest(t *testing.T) {
	req, err := SearchRequest([]string{"books", "authors"}, map[string]any{
		"query":            map[string]any{"match": map[string]any{"title": "dune"}},
		"size":             float64(5),
		"sort":             []any{map[string]any{"year": "desc"}},
		"aggs":             map[string]any{"by_year": map[string]any{"terms": map[string]any{"field": "year"}}},
		"routing":          "u1,u2",
		"preference":       "_local",
		"scroll":           "1m",
		"timeout":          "500ms",
		"request_cache":    "true",
		"search_type":      "dfs_query_then_fetch",
		"typed_keys":       true,
		"expand_wildcards": "open",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"books", "authors"}, req.Index)
	assert.Equal(t, []string{"u1", "u2"}, req.Routing)
	assert.Equal(t, "_local", req.Preference)
	assert.Equal(t, time.Minute, req.Scroll)
	assert.Equal(t, 500*time.Millisecond, req.Timeout)
	assert.Equal(t, "dfs_query_then_fetch", req.SearchType)
	assert.Equal(t, "open", req.ExpandWildcards)
	require.NotNil(t, req.RequestCache)
	assert.True(t, *req.RequestCache)
	require.NotNil(t, req.TypedKeys)
	assert.True(t, *req.TypedKeys)

	body := readBody(t, req.Body)
	assert.Len(t, body, 4)
	assert.Equal(t, float64(5), body["size"])
	assert.Contains(t, body, "query")
	assert.Contains(t, body, "sort")
	assert.Contains(t, body, "aggs")
	assert.NotContains(t, body, "scroll")
}

func TestSearchRequest_NoBody(t *testing.T) {
	req, err := SearchRequest(nil, map[string]any{"q": "title:dune"})
	require.NoError(t, err)
	assert.Equal(t, "title:dune", req.Query)
	assert.Nil(t, req.Body)
	assert.Empty(t, req.Index)
}

func TestSearchRequest_BadOption(t *testing.T) {
	_, err := SearchRequest([]string{"books"}, map[string]any{"scroll": "forever"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestScrollRequest(t *testing.T) {
	req, err := ScrollRequest("abc==", "2m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, req.Scroll)
	assert.Equal(t, map[string]any{"scroll_id": "abc=="}, readBody(t, req.Body))

	req, err = ScrollRequest("abc==", float64(30000))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, req.Scroll)

	_, err = ScrollRequest("abc==", "later")
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestClearScrollRequest(t *testing.T) {
	req, err := ClearScrollRequest("a", "b")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scroll_id": []any{"a", "b"}}, readBody(t, req.Body))

	req, err = ClearScrollRequest()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scroll_id": []any{}}, readBody(t, req.Body))
}

func TestCountRequest(t *testing.T) {
	req, err := CountRequest([]string{"books"}, map[string]any{
		"query":           map[string]any{"term": map[string]any{"year": 1965}},
		"terminate_after": "100",
		"min_score":       float64(1),
		"routing":         []any{"u1"},
	})
	require.NoError(t, err)
	require.NotNil(t, req.TerminateAfter)
	assert.Equal(t, 100, *req.TerminateAfter)
	require.NotNil(t, req.MinScore)
	assert.Equal(t, 1, *req.MinScore)
	assert.Equal(t, []string{"u1"}, req.Routing)
	assert.Equal(t, []string{"query"}, keys(readBody(t, req.Body)))

	empty, err := CountRequest([]string{"books"}, nil)
	require.NoError(t, err)
	assert.Nil(t, empty.Body)
}

func TestDeleteByQueryRequest(t *testing.T) {
	req, err := DeleteByQueryRequest([]string{"books"}, map[string]any{
		"query":               map[string]any{"match_all": map[string]any{}},
		"max_docs":            float64(10),
		"conflicts":           "proceed",
		"refresh":             "true",
		"wait_for_completion": false,
		"scroll_size":         500,
	})
	require.NoError(t, err)
	assert.Equal(t, "proceed", req.Conflicts)
	require.NotNil(t, req.Refresh)
	assert.True(t, *req.Refresh)
	require.NotNil(t, req.WaitForCompletion)
	assert.False(t, *req.WaitForCompletion)
	require.NotNil(t, req.ScrollSize)
	assert.Equal(t, 500, *req.ScrollSize)
	assert.ElementsMatch(t, []string{"query", "max_docs"}, keys(readBody(t, req.Body)))

	// The body is required by the engine even without a query.
	req, err = DeleteByQueryRequest([]string{"books"}, nil)
	require.NoError(t, err)
	assert.Empty(t, readBody(t, req.Body))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
