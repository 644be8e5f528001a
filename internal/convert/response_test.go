package convert

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchbridge/internal/model"
)

func ptr[T any](v T) *T { return &v }

func roundTrip[T any](t *testing.T, in *T, toMap func(*T) map[string]any) {
	t.Helper()
	var out T
	require.NoError(t, Decode(toMap(in), &out))
	if diff := cmp.Diff(*in, out, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func sampleShards() *model.ShardStats {
	return &model.ShardStats{
		Total:      2,
		Successful: 1,
		Failed:     1,
		Failures: []model.ShardFailure{{
			Index:  "books",
			Shard:  1,
			Node:   "n1",
			Status: "INTERNAL_SERVER_ERROR",
			Reason: &model.ErrorCause{Type: "illegal_state_exception", Reason: "boom"},
		}},
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("write", func(t *testing.T) {
		roundTrip(t, &model.WriteResponse{
			Index:         "books",
			ID:            "1",
			Version:       2,
			Result:        "updated",
			Shards:        &model.ShardStats{Total: 2, Successful: 2},
			SeqNo:         ptr(int64(11)),
			PrimaryTerm:   ptr(int64(1)),
			ForcedRefresh: true,
			Get: &model.GetResponse{
				Index:  "books",
				ID:     "1",
				Found:  true,
				Source: map[string]any{"title": "Dune"},
			},
		}, WriteResponseToMap)
	})

	t.Run("get", func(t *testing.T) {
		roundTrip(t, &model.GetResponse{
			Index:       "books",
			ID:          "1",
			Version:     ptr(int64(3)),
			SeqNo:       ptr(int64(4)),
			PrimaryTerm: ptr(int64(1)),
			Found:       true,
			Routing:     "u1",
			Source:      map[string]any{"title": "Dune", "tags": []any{"scifi"}},
			Fields:      map[string]any{"year": []any{1965}},
		}, GetResponseToMap)
	})

	t.Run("multi get", func(t *testing.T) {
		roundTrip(t, &model.MultiGetResponse{Docs: []model.GetResponse{
			{Index: "books", ID: "1", Found: true, Source: map[string]any{"a": "b"}},
			{Index: "books", ID: "2", Found: false},
			{Index: "gone", ID: "3", Error: &model.ErrorCause{Type: "index_not_found_exception", Reason: "no such index", Index: "gone"}},
		}}, MultiGetResponseToMap)
	})

	t.Run("search", func(t *testing.T) {
		roundTrip(t, &model.SearchResponse{
			Took:            7,
			TimedOut:        false,
			TerminatedEarly: ptr(true),
			Shards:          sampleShards(),
			Hits: model.HitsMetadata{
				Total:    &model.TotalHits{Value: 120, Relation: "gte"},
				MaxScore: ptr(1.5),
				Hits: []model.Hit{
					{
						Index:          "books",
						ID:             "1",
						Score:          ptr(1.5),
						Source:         map[string]any{"title": "Dune"},
						Highlight:      map[string][]string{"title": {"<em>Dune</em>"}},
						MatchedQueries: []string{"q1"},
						Version:        ptr(int64(2)),
						InnerHits: map[string]model.InnerHits{
							"comments": {Hits: model.HitsMetadata{
								Total: &model.TotalHits{Value: 1, Relation: "eq"},
								Hits:  []model.Hit{{Index: "books", ID: "1", Score: ptr(0.5)}},
							}},
						},
					},
					{Index: "books", ID: "2", Sort: []any{int64(1965), "b"}},
				},
			},
			Aggregations: map[string]any{"by_year": map[string]any{"buckets": []any{}}},
			ScrollID:     "scroll==",
		}, SearchResponseToMap)
	})

	t.Run("count", func(t *testing.T) {
		roundTrip(t, &model.CountResponse{Count: 42, Shards: &model.ShardStats{Total: 1, Successful: 1}}, CountResponseToMap)
	})

	t.Run("delete by query", func(t *testing.T) {
		roundTrip(t, &model.DeleteByQueryResponse{
			Took:             30,
			Total:            10,
			Deleted:          9,
			Batches:          1,
			VersionConflicts: 1,
			Retries:          &model.Retries{Bulk: 1},
			Failures:         []map[string]any{{"id": "3", "cause": map[string]any{"type": "version_conflict_engine_exception"}}},
		}, DeleteByQueryResponseToMap)
	})

	t.Run("bulk", func(t *testing.T) {
		roundTrip(t, &model.BulkResponse{
			Took:   3,
			Errors: true,
			Items: []map[string]model.BulkItem{
				{"index": {Index: "books", ID: "1", Version: 1, Result: "created", Status: 201, SeqNo: ptr(int64(0))}},
				{"delete": {Index: "books", ID: "2", Status: 404, Result: "not_found"}},
				{"update": {Index: "books", ID: "3", Status: 409, Error: &model.ErrorCause{
					Type:   "version_conflict_engine_exception",
					Reason: "conflict",
					CausedBy: &model.ErrorCause{
						Type: "inner",
					},
				}}},
			},
		}, BulkResponseToMap)
	})

	t.Run("acknowledged", func(t *testing.T) {
		roundTrip(t, &model.AcknowledgedResponse{Acknowledged: true, ShardsAcknowledged: ptr(true), Index: "books"}, AcknowledgedResponseToMap)
	})

	t.Run("broadcast", func(t *testing.T) {
		roundTrip(t, &model.BroadcastResponse{Shards: &model.ShardStats{Total: 3, Successful: 3}}, BroadcastResponseToMap)
	})

	t.Run("clear scroll", func(t *testing.T) {
		roundTrip(t, &model.ClearScrollResponse{Succeeded: true, NumFreed: 2}, ClearScrollResponseToMap)
	})

	t.Run("cluster health", func(t *testing.T) {
		roundTrip(t, &model.ClusterHealthResponse{
			ClusterName:                 "docker-cluster",
			Status:                      "yellow",
			NumberOfNodes:               1,
			NumberOfDataNodes:           1,
			ActivePrimaryShards:         5,
			ActiveShards:                5,
			UnassignedShards:            5,
			TaskMaxWaitingInQueueMillis: 0,
			ActiveShardsPercentAsNumber: 50,
		}, ClusterHealthToMap)
	})

	t.Run("error", func(t *testing.T) {
		roundTrip(t, &model.ErrorResponse{
			Status: 400,
			Error: model.ErrorCause{
				Type:      "parsing_exception",
				Reason:    "unknown query [mtch]",
				RootCause: []model.ErrorCause{{Type: "parsing_exception", Reason: "unknown query [mtch]"}},
			},
		}, ErrorResponseToMap)
	})
}

func TestSearchResponseToMap_Shape(t *testing.T) {
	m := SearchResponseToMap(&model.SearchResponse{Took: 1})

	hits, ok := m["hits"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{}, hits["hits"])
	assert.Contains(t, hits, "max_score")
	assert.Nil(t, hits["max_score"])
	assert.NotContains(t, hits, "total")
	assert.NotContains(t, m, "_shards")
	assert.NotContains(t, m, "aggregations")
	assert.NotContains(t, m, "_scroll_id")
}

func TestHitToMap_Unscored(t *testing.T) {
	m := HitToMap(&model.Hit{Index: "books", ID: "1"})
	assert.Contains(t, m, "_score")
	assert.Nil(t, m["_score"])
	assert.NotContains(t, m, "_source")
	assert.NotContains(t, m, "highlight")
}

func TestGetResponseToMap_NotFound(t *testing.T) {
	m := GetResponseToMap(&model.GetResponse{Index: "books", ID: "404"})
	assert.Equal(t, map[string]any{"_index": "books", "_id": "404", "found": false}, m)
}

func TestIndexStatesToMap(t *testing.T) {
	m := IndexStatesToMap(map[string]model.IndexState{
		"books": {Mappings: map[string]any{"properties": map[string]any{}}},
		"empty": {},
	})
	assert.Equal(t, map[string]any{
		"books": map[string]any{"mappings": map[string]any{"properties": map[string]any{}}},
		"empty": map[string]any{},
	}, m)
}

func TestDecode_FromJSON(t *testing.T) {
	raw := `{
		"took": 4,
		"timed_out": false,
		"_shards": {"total": 1, "successful": 1, "failed": 0},
		"hits": {
			"total": {"value": 1, "relation": "eq"},
			"max_score": 0.2,
			"hits": [{"_index": "books", "_id": "1", "_score": 0.2, "_source": {"title": "Dune"}}]
		}
	}`
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	var resp model.SearchResponse
	require.NoError(t, Decode(m, &resp))
	assert.Equal(t, int64(4), resp.Took)
	require.NotNil(t, resp.Hits.Total)
	assert.Equal(t, int64(1), resp.Hits.Total.Value)
	require.Len(t, resp.Hits.Hits, 1)
	assert.Equal(t, 0.2, *resp.Hits.Hits[0].Score)
	assert.Equal(t, "Dune", resp.Hits.Hits[0].Source["title"])
}

func TestDecode_StringErrorCause(t *testing.T) {
	var resp model.ErrorResponse
	require.NoError(t, Decode(map[string]any{"error": "no handler found", "status": float64(400)}, &resp))
	assert.Equal(t, "no handler found", resp.Error.Reason)
	assert.Equal(t, 400, resp.Status)
}
