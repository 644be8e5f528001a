package indexdef

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	svcMocks "searchbridge/internal/service/mocks"
)

const sample = `
templates:
  - name: logs
    index_patterns: ["logs-*"]
    priority: 100
    template:
      settings:
        number_of_shards: 1
      mappings:
        properties:
          "@timestamp": {type: date}
indices:
  - name: books
    settings:
      number_of_replicas: 0
    mappings:
      properties:
        title: {type: text}
        year: {type: integer}
    aliases:
      library: {}
  - name: authors
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, d.Templates, 1)
	require.Len(t, d.Indices, 2)

	assert.Equal(t, map[string]any{
		"settings": map[string]any{"number_of_replicas": 0},
		"mappings": map[string]any{"properties": map[string]any{
			"title": map[string]any{"type": "text"},
			"year":  map[string]any{"type": "integer"},
		}},
		"aliases": map[string]any{"library": map[string]any{}},
	}, d.Indices[0].Body())
	assert.Equal(t, map[string]any{}, d.Indices[1].Body())

	tpl := d.Templates[0].Body()
	assert.Equal(t, []any{"logs-*"}, tpl["index_patterns"])
	assert.Equal(t, 100, tpl["priority"])
	assert.Contains(t, tpl["template"], "mappings")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "indices:\n  - name: a\n    shards: 1\n", "field shards not found"},
		{"missing name", "indices:\n  - settings: {}\n", "index name is required"},
		{"uppercase name", "indices:\n  - name: Books\n", "must be lowercase"},
		{"duplicate", "indices:\n  - name: a\n  - name: a\n", `index "a" is defined twice`},
		{"template without patterns", "templates:\n  - name: t\n", "index_patterns is required"},
		{"not yaml", "indices: [", "parse index definitions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	d, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Indices)
	assert.Empty(t, d.Templates)
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"a": map[any]any{1: "one", "two": []any{map[any]any{true: "yes"}}},
	}
	assert.Equal(t, map[string]any{
		"a": map[string]any{"1": "one", "two": []any{map[string]any{"true": "yes"}}},
	}, normalizeMap(in))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, d.Indices, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	d, err := Parse([]byte(sample))
	require.NoError(t, err)

	svc := new(svcMocks.MockSearchService)
	svc.On("PutIndexTemplate", ctx, "logs", mock.Anything, map[string]any(nil)).
		Return(map[string]any{"acknowledged": true}, nil)
	svc.On("IndexExists", ctx, []string{"books"}, map[string]any(nil)).Return(false, nil)
	svc.On("IndexExists", ctx, []string{"authors"}, map[string]any(nil)).Return(true, nil)
	svc.On("CreateIndex", ctx, "books", mock.MatchedBy(func(body map[string]any) bool {
		_, ok := body["mappings"]
		return ok
	})).Return(map[string]any{"acknowledged": true}, nil)

	res, err := d.Apply(ctx, svc, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"logs"}, res.Templates)
	assert.Equal(t, []string{"books"}, res.Created)
	assert.Equal(t, []string{"authors"}, res.Existing)
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "CreateIndex", ctx, "authors", mock.Anything)
}

func TestApply_StopsOnError(t *testing.T) {
	ctx := context.Background()
	d, err := Parse([]byte(sample))
	require.NoError(t, err)

	svc := new(svcMocks.MockSearchService)
	svc.On("PutIndexTemplate", ctx, "logs", mock.Anything, mock.Anything).
		Return(nil, errors.New("forbidden"))

	res, err := d.Apply(ctx, svc, nil)

	assert.EqualError(t, err, "put template logs: forbidden")
	assert.Empty(t, res.Templates)
	svc.AssertNotCalled(t, "IndexExists", mock.Anything, mock.Anything, mock.Anything)
}
