package convert

import "searchbridge/internal/model"

// Response maps use the engine's wire names as keys. Scalars keep their Go
// types (string, bool, int, int64, float64); absent optional fields are left
// out.

func setString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func setInt64Ptr(m map[string]any, key string, v *int64) {
	if v != nil {
		m[key] = *v
	}
}

func setMap(m map[string]any, key string, v map[string]any) {
	if len(v) > 0 {
		m[key] = v
	}
}

func shardStatsToMap(s *model.ShardStats) map[string]any {
	m := map[string]any{
		"total":      s.Total,
		"successful": s.Successful,
		"failed":     s.Failed,
	}
	if s.Skipped != 0 {
		m["skipped"] = s.Skipped
	}
	if len(s.Failures) > 0 {
		failures := make([]any, 0, len(s.Failures))
		for _, f := range s.Failures {
			fm := map[string]any{"shard": f.Shard}
			setString(fm, "index", f.Index)
			setString(fm, "node", f.Node)
			setString(fm, "status", f.Status)
			if f.Reason != nil {
				fm["reason"] = errorCauseToMap(f.Reason)
			}
			failures = append(failures, fm)
		}
		m["failures"] = failures
	}
	return m
}

func errorCauseToMap(e *model.ErrorCause) map[string]any {
	m := map[string]any{"type": e.Type}
	setString(m, "reason", e.Reason)
	setString(m, "index", e.Index)
	if len(e.RootCause) > 0 {
		causes := make([]any, 0, len(e.RootCause))
		for i := range e.RootCause {
			causes = append(causes, errorCauseToMap(&e.RootCause[i]))
		}
		m["root_cause"] = causes
	}
	if e.CausedBy != nil {
		m["caused_by"] = errorCauseToMap(e.CausedBy)
	}
	return m
}

// WriteResponseToMap converts the result of index, create, delete or update.
func WriteResponseToMap(r *model.WriteResponse) map[string]any {
	m := map[string]any{
		"_index":   r.Index,
		"_id":      r.ID,
		"_version": r.Version,
		"result":   r.Result,
	}
	if r.Shards != nil {
		m["_shards"] = shardStatsToMap(r.Shards)
	}
	setInt64Ptr(m, "_seq_no", r.SeqNo)
	setInt64Ptr(m, "_primary_term", r.PrimaryTerm)
	if r.ForcedRefresh {
		m["forced_refresh"] = true
	}
	if r.Get != nil {
		m["get"] = GetResponseToMap(r.Get)
	}
	return m
}

// GetResponseToMap converts a document lookup. found is always present.
func GetResponseToMap(r *model.GetResponse) map[string]any {
	m := map[string]any{
		"_index": r.Index,
		"_id":    r.ID,
		"found":  r.Found,
	}
	setInt64Ptr(m, "_version", r.Version)
	setInt64Ptr(m, "_seq_no", r.SeqNo)
	setInt64Ptr(m, "_primary_term", r.PrimaryTerm)
	setString(m, "_routing", r.Routing)
	setMap(m, "_source", r.Source)
	setMap(m, "fields", r.Fields)
	if r.Error != nil {
		m["error"] = errorCauseToMap(r.Error)
	}
	return m
}

// MultiGetResponseToMap converts an mget result.
func MultiGetResponseToMap(r *model.MultiGetResponse) map[string]any {
	docs := make([]any, 0, len(r.Docs))
	for i := range r.Docs {
		docs = append(docs, GetResponseToMap(&r.Docs[i]))
	}
	return map[string]any{"docs": docs}
}

// HitToMap converts one search hit. _score is always present and nil when
// the hit was not scored.
func HitToMap(h *model.Hit) map[string]any {
	m := map[string]any{
		"_index": h.Index,
		"_id":    h.ID,
	}
	if h.Score != nil {
		m["_score"] = *h.Score
	} else {
		m["_score"] = nil
	}
	setString(m, "_routing", h.Routing)
	setMap(m, "_source", h.Source)
	setMap(m, "fields", h.Fields)
	if len(h.Highlight) > 0 {
		hl := make(map[string]any, len(h.Highlight))
		for field, fragments := range h.Highlight {
			hl[field] = fragments
		}
		m["highlight"] = hl
	}
	if len(h.Sort) > 0 {
		m["sort"] = h.Sort
	}
	if len(h.MatchedQueries) > 0 {
		m["matched_queries"] = h.MatchedQueries
	}
	if len(h.InnerHits) > 0 {
		inner := make(map[string]any, len(h.InnerHits))
		for name, ih := range h.InnerHits {
			inner[name] = map[string]any{"hits": hitsMetadataToMap(&ih.Hits)}
		}
		m["inner_hits"] = inner
	}
	setInt64Ptr(m, "_version", h.Version)
	setInt64Ptr(m, "_seq_no", h.SeqNo)
	setInt64Ptr(m, "_primary_term", h.PrimaryTerm)
	setMap(m, "_explanation", h.Explanation)
	return m
}

func hitsMetadataToMap(h *model.HitsMetadata) map[string]any {
	hits := make([]any, 0, len(h.Hits))
	for i := range h.Hits {
		hits = append(hits, HitToMap(&h.Hits[i]))
	}
	m := map[string]any{"hits": hits}
	if h.Total != nil {
		m["total"] = map[string]any{
			"value":    h.Total.Value,
			"relation": h.Total.Relation,
		}
	}
	if h.MaxScore != nil {
		m["max_score"] = *h.MaxScore
	} else {
		m["max_score"] = nil
	}
	return m
}

// SearchResponseToMap converts a search or scroll page. hits.hits is always
// present, possibly empty.
func SearchResponseToMap(r *model.SearchResponse) map[string]any {
	m := map[string]any{
		"took":      r.Took,
		"timed_out": r.TimedOut,
		"hits":      hitsMetadataToMap(&r.Hits),
	}
	if r.TerminatedEarly != nil {
		m["terminated_early"] = *r.TerminatedEarly
	}
	if r.Shards != nil {
		m["_shards"] = shardStatsToMap(r.Shards)
	}
	setMap(m, "aggregations", r.Aggregations)
	setMap(m, "suggest", r.Suggest)
	setString(m, "_scroll_id", r.ScrollID)
	setString(m, "pit_id", r.PitID)
	return m
}

// CountResponseToMap converts a count result.
func CountResponseToMap(r *model.CountResponse) map[string]any {
	m := map[string]any{"count": r.Count}
	if r.Shards != nil {
		m["_shards"] = shardStatsToMap(r.Shards)
	}
	return m
}

// DeleteByQueryResponseToMap converts a delete-by-query summary.
func DeleteByQueryResponseToMap(r *model.DeleteByQueryResponse) map[string]any {
	m := map[string]any{
		"took":              r.Took,
		"timed_out":         r.TimedOut,
		"total":             r.Total,
		"deleted":           r.Deleted,
		"batches":           r.Batches,
		"version_conflicts": r.VersionConflicts,
		"noops":             r.Noops,
	}
	if r.Retries != nil {
		m["retries"] = map[string]any{"bulk": r.Retries.Bulk, "search": r.Retries.Search}
	}
	if len(r.Failures) > 0 {
		failures := make([]any, 0, len(r.Failures))
		for _, f := range r.Failures {
			failures = append(failures, f)
		}
		m["failures"] = failures
	}
	setString(m, "task", r.Task)
	return m
}

func bulkItemToMap(it *model.BulkItem) map[string]any {
	m := map[string]any{
		"_index": it.Index,
		"_id":    it.ID,
		"status": it.Status,
	}
	if it.Version != 0 {
		m["_version"] = it.Version
	}
	setString(m, "result", it.Result)
	if it.Shards != nil {
		m["_shards"] = shardStatsToMap(it.Shards)
	}
	setInt64Ptr(m, "_seq_no", it.SeqNo)
	setInt64Ptr(m, "_primary_term", it.PrimaryTerm)
	if it.Error != nil {
		m["error"] = errorCauseToMap(it.Error)
	}
	return m
}

// BulkResponseToMap converts a bulk result; each item stays keyed by its action.
func BulkResponseToMap(r *model.BulkResponse) map[string]any {
	items := make([]any, 0, len(r.Items))
	for _, item := range r.Items {
		im := make(map[string]any, len(item))
		for action, res := range item {
			im[action] = bulkItemToMap(&res)
		}
		items = append(items, im)
	}
	return map[string]any{
		"took":   r.Took,
		"errors": r.Errors,
		"items":  items,
	}
}

// ClearScrollResponseToMap converts a clear-scroll result.
func ClearScrollResponseToMap(r *model.ClearScrollResponse) map[string]any {
	return map[string]any{
		"succeeded": r.Succeeded,
		"num_freed": r.NumFreed,
	}
}

// AcknowledgedResponseToMap converts the result of index administration calls.
func AcknowledgedResponseToMap(r *model.AcknowledgedResponse) map[string]any {
	m := map[string]any{"acknowledged": r.Acknowledged}
	if r.ShardsAcknowledged != nil {
		m["shards_acknowledged"] = *r.ShardsAcknowledged
	}
	setString(m, "index", r.Index)
	return m
}

// BroadcastResponseToMap converts a refresh, flush or forcemerge result.
func BroadcastResponseToMap(r *model.BroadcastResponse) map[string]any {
	m := map[string]any{}
	if r.Shards != nil {
		m["_shards"] = shardStatsToMap(r.Shards)
	}
	return m
}

// IndexStatesToMap converts a get-mapping or get-settings result keyed by index name.
func IndexStatesToMap(states map[string]model.IndexState) map[string]any {
	m := make(map[string]any, len(states))
	for name, st := range states {
		sm := map[string]any{}
		setMap(sm, "aliases", st.Aliases)
		setMap(sm, "mappings", st.Mappings)
		setMap(sm, "settings", st.Settings)
		m[name] = sm
	}
	return m
}

// ClusterHealthToMap converts the cluster health summary.
func ClusterHealthToMap(r *model.ClusterHealthResponse) map[string]any {
	return map[string]any{
		"cluster_name":                     r.ClusterName,
		"status":                           r.Status,
		"timed_out":                        r.TimedOut,
		"number_of_nodes":                  r.NumberOfNodes,
		"number_of_data_nodes":             r.NumberOfDataNodes,
		"active_primary_shards":            r.ActivePrimaryShards,
		"active_shards":                    r.ActiveShards,
		"relocating_shards":                r.RelocatingShards,
		"initializing_shards":              r.InitializingShards,
		"unassigned_shards":                r.UnassignedShards,
		"delayed_unassigned_shards":        r.DelayedUnassignedShards,
		"number_of_pending_tasks":          r.NumberOfPendingTasks,
		"number_of_in_flight_fetch":        r.NumberOfInFlightFetch,
		"task_max_waiting_in_queue_millis": r.TaskMaxWaitingInQueueMillis,
		"active_shards_percent_as_number":  r.ActiveShardsPercentAsNumber,
	}
}

// ErrorResponseToMap converts an engine error body.
func ErrorResponseToMap(r *model.ErrorResponse) map[string]any {
	return map[string]any{
		"error":  errorCauseToMap(&r.Error),
		"status": r.Status,
	}
}
