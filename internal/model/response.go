package model

import (
	"encoding/json"
	"fmt"
)

// Typed response object model of the search engine. Field tags are the
// engine's wire names so bodies decode directly with encoding/json.

// ShardStats reports how many shards took part in an operation.
type ShardStats struct {
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Skipped    int            `json:"skipped,omitempty"`
	Failed     int            `json:"failed"`
	Failures   []ShardFailure `json:"failures,omitempty"`
}

// ShardFailure describes a failure on a single shard.
type ShardFailure struct {
	Index  string      `json:"index,omitempty"`
	Shard  int         `json:"shard"`
	Node   string      `json:"node,omitempty"`
	Status string      `json:"status,omitempty"`
	Reason *ErrorCause `json:"reason,omitempty"`
}

// WriteResponse is returned by index, create, delete and update.
type WriteResponse struct {
	Index         string       `json:"_index"`
	ID            string       `json:"_id"`
	Version       int64        `json:"_version"`
	Result        string       `json:"result"`
	Shards        *ShardStats  `json:"_shards,omitempty"`
	SeqNo         *int64       `json:"_seq_no,omitempty"`
	PrimaryTerm   *int64       `json:"_primary_term,omitempty"`
	ForcedRefresh bool         `json:"forced_refresh,omitempty"`
	Get           *GetResponse `json:"get,omitempty"`
}

// GetResponse is a single document lookup.
type GetResponse struct {
	Index       string         `json:"_index"`
	ID          string         `json:"_id"`
	Version     *int64         `json:"_version,omitempty"`
	SeqNo       *int64         `json:"_seq_no,omitempty"`
	PrimaryTerm *int64         `json:"_primary_term,omitempty"`
	Found       bool           `json:"found"`
	Routing     string         `json:"_routing,omitempty"`
	Source      map[string]any `json:"_source,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
	Error       *ErrorCause    `json:"error,omitempty"`
}

// MultiGetResponse wraps the docs of an mget call.
type MultiGetResponse struct {
	Docs []GetResponse `json:"docs"`
}

// TotalHits is the hit count with its accuracy relation ("eq" or "gte").
type TotalHits struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

// Hit is one search result.
type Hit struct {
	Index          string               `json:"_index"`
	ID             string               `json:"_id"`
	Score          *float64             `json:"_score"`
	Routing        string               `json:"_routing,omitempty"`
	Source         map[string]any       `json:"_source,omitempty"`
	Fields         map[string]any       `json:"fields,omitempty"`
	Highlight      map[string][]string  `json:"highlight,omitempty"`
	Sort           []any                `json:"sort,omitempty"`
	MatchedQueries []string             `json:"matched_queries,omitempty"`
	InnerHits      map[string]InnerHits `json:"inner_hits,omitempty"`
	Version        *int64               `json:"_version,omitempty"`
	SeqNo          *int64               `json:"_seq_no,omitempty"`
	PrimaryTerm    *int64               `json:"_primary_term,omitempty"`
	Explanation    map[string]any       `json:"_explanation,omitempty"`
}

// InnerHits holds nested or parent-join matches of a hit.
type InnerHits struct {
	Hits HitsMetadata `json:"hits"`
}

// HitsMetadata is the "hits" envelope of a search response.
type HitsMetadata struct {
	Total    *TotalHits `json:"total,omitempty"`
	MaxScore *float64   `json:"max_score"`
	Hits     []Hit      `json:"hits"`
}

// SearchResponse is the result of search and scroll.
type SearchResponse struct {
	Took            int64          `json:"took"`
	TimedOut        bool           `json:"timed_out"`
	TerminatedEarly *bool          `json:"terminated_early,omitempty"`
	Shards          *ShardStats    `json:"_shards,omitempty"`
	Hits            HitsMetadata   `json:"hits"`
	Aggregations    map[string]any `json:"aggregations,omitempty"`
	Suggest         map[string]any `json:"suggest,omitempty"`
	ScrollID        string         `json:"_scroll_id,omitempty"`
	PitID           string         `json:"pit_id,omitempty"`
}

// CountResponse is the result of a count call.
type CountResponse struct {
	Count  int64       `json:"count"`
	Shards *ShardStats `json:"_shards,omitempty"`
}

// DeleteByQueryResponse summarizes a delete-by-query run.
type DeleteByQueryResponse struct {
	Took             int64            `json:"took"`
	TimedOut         bool             `json:"timed_out"`
	Total            int64            `json:"total"`
	Deleted          int64            `json:"deleted"`
	Batches          int64            `json:"batches"`
	VersionConflicts int64            `json:"version_conflicts"`
	Noops            int64            `json:"noops"`
	Retries          *Retries         `json:"retries,omitempty"`
	Failures         []map[string]any `json:"failures,omitempty"`
	Task             string           `json:"task,omitempty"`
}

// Retries counts bulk and search retries of a by-query operation.
type Retries struct {
	Bulk   int64 `json:"bulk"`
	Search int64 `json:"search"`
}

// BulkItem is the per-operation outcome inside a bulk response.
type BulkItem struct {
	Index       string      `json:"_index"`
	ID          string      `json:"_id"`
	Version     int64       `json:"_version,omitempty"`
	Result      string      `json:"result,omitempty"`
	Shards      *ShardStats `json:"_shards,omitempty"`
	SeqNo       *int64      `json:"_seq_no,omitempty"`
	PrimaryTerm *int64      `json:"_primary_term,omitempty"`
	Status      int         `json:"status"`
	Error       *ErrorCause `json:"error,omitempty"`
}

// BulkResponse lists one map per operation keyed by its action name.
type BulkResponse struct {
	Took   int64                 `json:"took"`
	Errors bool                  `json:"errors"`
	Items  []map[string]BulkItem `json:"items"`
}

// Failed returns the items whose status is not 2xx, keyed by action.
func (r *BulkResponse) Failed() []map[string]BulkItem {
	var out []map[string]BulkItem
	for _, item := range r.Items {
		for _, res := range item {
			if res.Status < 200 || res.Status > 299 {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// ClearScrollResponse is the result of clearing scroll contexts.
type ClearScrollResponse struct {
	Succeeded bool  `json:"succeeded"`
	NumFreed  int64 `json:"num_freed"`
}

// AcknowledgedResponse is returned by index administration calls.
type AcknowledgedResponse struct {
	Acknowledged       bool   `json:"acknowledged"`
	ShardsAcknowledged *bool  `json:"shards_acknowledged,omitempty"`
	Index              string `json:"index,omitempty"`
}

// BroadcastResponse is returned by refresh, flush and forcemerge.
type BroadcastResponse struct {
	Shards *ShardStats `json:"_shards,omitempty"`
}

// IndexState is one entry of a get-mapping or get-settings response.
type IndexState struct {
	Aliases  map[string]any `json:"aliases,omitempty"`
	Mappings map[string]any `json:"mappings,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// ClusterHealthResponse is the cluster health summary.
type ClusterHealthResponse struct {
	ClusterName                 string  `json:"cluster_name"`
	Status                      string  `json:"status"`
	TimedOut                    bool    `json:"timed_out"`
	NumberOfNodes               int     `json:"number_of_nodes"`
	NumberOfDataNodes           int     `json:"number_of_data_nodes"`
	ActivePrimaryShards         int     `json:"active_primary_shards"`
	ActiveShards                int     `json:"active_shards"`
	RelocatingShards            int     `json:"relocating_shards"`
	InitializingShards          int     `json:"initializing_shards"`
	UnassignedShards            int     `json:"unassigned_shards"`
	DelayedUnassignedShards     int     `json:"delayed_unassigned_shards"`
	NumberOfPendingTasks        int     `json:"number_of_pending_tasks"`
	NumberOfInFlightFetch       int     `json:"number_of_in_flight_fetch"`
	TaskMaxWaitingInQueueMillis int64   `json:"task_max_waiting_in_queue_millis"`
	ActiveShardsPercentAsNumber float64 `json:"active_shards_percent_as_number"`
}

// ErrorCause is the engine's structured error description.
type ErrorCause struct {
	Type      string       `json:"type"`
	Reason    string       `json:"reason,omitempty"`
	Index     string       `json:"index,omitempty"`
	RootCause []ErrorCause `json:"root_cause,omitempty"`
	CausedBy  *ErrorCause  `json:"caused_by,omitempty"`
}

// UnmarshalJSON accepts both the structured form and the bare string some
// endpoints return as "error".
func (e *ErrorCause) UnmarshalJSON(data []byte) error {
	var reason string
	if err := json.Unmarshal(data, &reason); err == nil {
		*e = ErrorCause{Reason: reason}
		return nil
	}
	type plain ErrorCause
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode error cause: %w", err)
	}
	*e = ErrorCause(p)
	return nil
}

// ErrorResponse is the body returned with non-2xx statuses.
type ErrorResponse struct {
	Error  ErrorCause `json:"error"`
	Status int        `json:"status"`
}
