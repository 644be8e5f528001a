package convert

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRequest(t *testing.T) {
	req, err := IndexRequest("books", map[string]any{"title": "Dune"}, map[string]any{
		"_id":             "42",
		"routing":         "u1",
		"refresh":         "wait_for",
		"op_type":         "create",
		"version":         float64(3),
		"version_type":    "external",
		"timeout":         "1m",
		"if_seq_no":       "7",
		"require_alias":   "true",
		"pipeline":        "enrich",
		"if_primary_term": 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "books", req.Index)
	assert.Equal(t, "42", req.DocumentID)
	assert.Equal(t, "u1", req.Routing)
	assert.Equal(t, "wait_for", req.Refresh)
	assert.Equal(t, "create", req.OpType)
	assert.Equal(t, "external", req.VersionType)
	assert.Equal(t, "enrich", req.Pipeline)
	assert.Equal(t, time.Minute, req.Timeout)
	require.NotNil(t, req.Version)
	assert.Equal(t, 3, *req.Version)
	require.NotNil(t, req.IfSeqNo)
	assert.Equal(t, 7, *req.IfSeqNo)
	require.NotNil(t, req.IfPrimaryTerm)
	assert.Equal(t, 2, *req.IfPrimaryTerm)
	require.NotNil(t, req.RequireAlias)
	assert.True(t, *req.RequireAlias)
	assert.Equal(t, map[string]any{"title": "Dune"}, readBody(t, req.Body))
}

func TestIndexRequest_Variants(t *testing.T) {
	t.Run("id alias", func(t *testing.T) {
		req, err := IndexRequest("books", nil, map[string]any{"id": "9"})
		require.NoError(t, err)
		assert.Equal(t, "9", req.DocumentID)
		assert.Empty(t, readBody(t, req.Body))
	})

	t.Run("engine assigned id", func(t *testing.T) {
		req, err := IndexRequest("books", map[string]any{"a": 1}, nil)
		require.NoError(t, err)
		assert.Empty(t, req.DocumentID)
		assert.Nil(t, req.Version)
	})

	t.Run("refresh as bool", func(t *testing.T) {
		req, err := IndexRequest("books", nil, map[string]any{"refresh": true})
		require.NoError(t, err)
		assert.Equal(t, "true", req.Refresh)
	})

	t.Run("unknown option", func(t *testing.T) {
		_, err := IndexRequest("books", nil, map[string]any{"query": "x"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidOption))
	})
}

func TestGetAndExistsRequest(t *testing.T) {
	opts := map[string]any{
		"routing":          "u1",
		"realtime":         false,
		"_source_includes": "title,author",
		"_source_excludes": []any{"body"},
		"stored_fields":    "tags",
		"preference":       "_local",
	}

	get, err := GetRequest("books", "42", opts)
	require.NoError(t, err)
	assert.Equal(t, "books", get.Index)
	assert.Equal(t, "42", get.DocumentID)
	assert.Equal(t, "u1", get.Routing)
	assert.Equal(t, "_local", get.Preference)
	require.NotNil(t, get.Realtime)
	assert.False(t, *get.Realtime)
	assert.Equal(t, []string{"title", "author"}, get.SourceIncludes)
	assert.Equal(t, []string{"body"}, get.SourceExcludes)
	assert.Equal(t, []string{"tags"}, get.StoredFields)

	exists, err := ExistsRequest("books", "42", opts)
	require.NoError(t, err)
	assert.Equal(t, get.SourceIncludes, exists.SourceIncludes)
	assert.Equal(t, "42", exists.DocumentID)

	_, err = GetRequest("books", "42", map[string]any{"size": 1})
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestGetRequest_CoercionFailures(t *testing.T) {
	tests := []struct {
		name string
		opts map[string]any
		key  string
	}{
		{name: "bool", opts: map[string]any{"realtime": "yes"}, key: "realtime"},
		{name: "fraction", opts: map[string]any{"version": 1.7}, key: "version"},
		{name: "case", opts: map[string]any{"ROUTING": "u1"}, key: "ROUTING"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetRequest("books", "1", tt.opts)
			var oe *OptionError
			require.True(t, errors.As(err, &oe))
			assert.Equal(t, "get", oe.Op)
			assert.Equal(t, tt.key, oe.Key)
		})
	}
}

func TestGetRequest_SourceFlag(t *testing.T) {
	req, err := GetRequest("books", "1", map[string]any{"_source": false})
	require.NoError(t, err)
	assert.Equal(t, []string{"false"}, req.Source)
}

func TestDeleteRequest(t *testing.T) {
	req, err := DeleteRequest("books", "42", map[string]any{
		"refresh":         true,
		"if_seq_no":       float64(5),
		"if_primary_term": float64(1),
		"timeout":         float64(2000),
	})
	require.NoError(t, err)
	assert.Equal(t, "42", req.DocumentID)
	assert.Equal(t, "true", req.Refresh)
	assert.Equal(t, 5, *req.IfSeqNo)
	assert.Equal(t, 1, *req.IfPrimaryTerm)
	assert.Equal(t, 2*time.Second, req.Timeout)

	_, err = DeleteRequest("books", "42", map[string]any{"doc": map[string]any{}})
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestUpdateRequest(t *testing.T) {
	req, err := UpdateRequest("books", "42", map[string]any{
		"doc":               map[string]any{"title": "Dune Messiah"},
		"doc_as_upsert":     true,
		"retry_on_conflict": "3",
		"refresh":           "wait_for",
		"lang":              "painless",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", req.DocumentID)
	assert.Equal(t, "wait_for", req.Refresh)
	assert.Equal(t, "painless", req.Lang)
	require.NotNil(t, req.RetryOnConflict)
	assert.Equal(t, 3, *req.RetryOnConflict)
	assert.Equal(t, map[string]any{
		"doc":           map[string]any{"title": "Dune Messiah"},
		"doc_as_upsert": true,
	}, readBody(t, req.Body))
}

func TestUpdateRequest_Script(t *testing.T) {
	req, err := UpdateRequest("books", "42", map[string]any{
		"script": map[string]any{
			"source": "ctx._source.count += params.n",
			"params": map[string]any{"n": 1},
		},
		"upsert": map[string]any{"count": 0},
	})
	require.NoError(t, err)
	body := readBody(t, req.Body)
	assert.Contains(t, body, "script")
	assert.Contains(t, body, "upsert")
	assert.Nil(t, req.RetryOnConflict)
}

func TestMultiGetRequest(t *testing.T) {
	req, err := MultiGetRequest("books", []map[string]any{
		{"_id": "1"},
		{"_index": "authors", "_id": "7", "_source": []any{"name"}},
	}, map[string]any{"realtime": "true"})
	require.NoError(t, err)
	assert.Equal(t, "books", req.Index)
	require.NotNil(t, req.Realtime)
	assert.True(t, *req.Realtime)

	body := readBody(t, req.Body)
	docs, ok := body["docs"].([]any)
	require.True(t, ok)
	assert.Len(t, docs, 2)
	assert.Equal(t, "authors", docs[1].(map[string]any)["_index"])

	empty, err := MultiGetRequest("books", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"docs": []any{}}, readBody(t, empty.Body))
}
