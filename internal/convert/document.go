package convert

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type indexOptions struct {
	ID                  string        `mapstructure:"_id"`
	AltID               string        `mapstructure:"id"`
	Routing             string        `mapstructure:"routing"`
	Refresh             string        `mapstructure:"refresh"`
	Version             *int          `mapstructure:"version"`
	VersionType         string        `mapstructure:"version_type"`
	OpType              string        `mapstructure:"op_type"`
	Pipeline            string        `mapstructure:"pipeline"`
	Timeout             time.Duration `mapstructure:"timeout"`
	IfSeqNo             *int          `mapstructure:"if_seq_no"`
	IfPrimaryTerm       *int          `mapstructure:"if_primary_term"`
	WaitForActiveShards string        `mapstructure:"wait_for_active_shards"`
	RequireAlias        *bool         `mapstructure:"require_alias"`
}

// IndexRequest converts doc and its options into an index request.
// Without an _id option the engine assigns one.
func IndexRequest(index string, doc map[string]any, opts map[string]any) (*esapi.IndexRequest, error) {
	var o indexOptions
	if err := decodeOptions("index", opts, &o, true); err != nil {
		return nil, err
	}
	body, err := jsonBody(doc)
	if err != nil {
		return nil, err
	}
	id := o.ID
	if id == "" {
		id = o.AltID
	}
	return &esapi.IndexRequest{
		Index:               index,
		DocumentID:          id,
		Body:                body,
		IfPrimaryTerm:       o.IfPrimaryTerm,
		IfSeqNo:             o.IfSeqNo,
		OpType:              o.OpType,
		Pipeline:            o.Pipeline,
		Refresh:             o.Refresh,
		RequireAlias:        o.RequireAlias,
		Routing:             o.Routing,
		Timeout:             o.Timeout,
		Version:             o.Version,
		VersionType:         o.VersionType,
		WaitForActiveShards: o.WaitForActiveShards,
	}, nil
}

type getOptions struct {
	Routing        string   `mapstructure:"routing"`
	Preference     string   `mapstructure:"preference"`
	Realtime       *bool    `mapstructure:"realtime"`
	Refresh        *bool    `mapstructure:"refresh"`
	Source         []string `mapstructure:"_source"`
	SourceIncludes []string `mapstructure:"_source_includes"`
	SourceExcludes []string `mapstructure:"_source_excludes"`
	StoredFields   []string `mapstructure:"stored_fields"`
	Version        *int     `mapstructure:"version"`
	VersionType    string   `mapstructure:"version_type"`
}

// GetRequest converts a document lookup.
func GetRequest(index, id string, opts map[string]any) (*esapi.GetRequest, error) {
	var o getOptions
	if err := decodeOptions("get", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.GetRequest{
		Index:          index,
		DocumentID:     id,
		Preference:     o.Preference,
		Realtime:       o.Realtime,
		Refresh:        o.Refresh,
		Routing:        o.Routing,
		Source:         o.Source,
		SourceExcludes: o.SourceExcludes,
		SourceIncludes: o.SourceIncludes,
		StoredFields:   o.StoredFields,
		Version:        o.Version,
		VersionType:    o.VersionType,
	}, nil
}

// ExistsRequest converts a document existence check. It takes the same options as GetRequest.
func ExistsRequest(index, id string, opts map[string]any) (*esapi.ExistsRequest, error) {
	var o getOptions
	if err := decodeOptions("exists", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.ExistsRequest{
		Index:          index,
		DocumentID:     id,
		Preference:     o.Preference,
		Realtime:       o.Realtime,
		Refresh:        o.Refresh,
		Routing:        o.Routing,
		Source:         o.Source,
		SourceExcludes: o.SourceExcludes,
		SourceIncludes: o.SourceIncludes,
		StoredFields:   o.StoredFields,
		Version:        o.Version,
		VersionType:    o.VersionType,
	}, nil
}

type deleteOptions struct {
	Routing             string        `mapstructure:"routing"`
	Refresh             string        `mapstructure:"refresh"`
	Version             *int          `mapstructure:"version"`
	VersionType         string        `mapstructure:"version_type"`
	Timeout             time.Duration `mapstructure:"timeout"`
	IfSeqNo             *int          `mapstructure:"if_seq_no"`
	IfPrimaryTerm       *int          `mapstructure:"if_primary_term"`
	WaitForActiveShards string        `mapstructure:"wait_for_active_shards"`
}

// DeleteRequest converts a document delete.
func DeleteRequest(index, id string, opts map[string]any) (*esapi.DeleteRequest, error) {
	var o deleteOptions
	if err := decodeOptions("delete", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.DeleteRequest{
		Index:               index,
		DocumentID:          id,
		IfPrimaryTerm:       o.IfPrimaryTerm,
		IfSeqNo:             o.IfSeqNo,
		Refresh:             o.Refresh,
		Routing:             o.Routing,
		Timeout:             o.Timeout,
		Version:             o.Version,
		VersionType:         o.VersionType,
		WaitForActiveShards: o.WaitForActiveShards,
	}, nil
}

type updateOptions struct {
	RetryOnConflict     *int           `mapstructure:"retry_on_conflict"`
	Routing             string         `mapstructure:"routing"`
	Refresh             string         `mapstructure:"refresh"`
	Timeout             time.Duration  `mapstructure:"timeout"`
	IfSeqNo             *int           `mapstructure:"if_seq_no"`
	IfPrimaryTerm       *int           `mapstructure:"if_primary_term"`
	WaitForActiveShards string         `mapstructure:"wait_for_active_shards"`
	RequireAlias        *bool          `mapstructure:"require_alias"`
	Lang                string         `mapstructure:"lang"`
	Body                map[string]any `mapstructure:",remain"`
}

// UpdateRequest converts a partial update. Keys that are not URL parameters
// (doc, script, upsert, doc_as_upsert, scripted_upsert, detect_noop, _source)
// form the request body.
func UpdateRequest(index, id string, opts map[string]any) (*esapi.UpdateRequest, error) {
	var o updateOptions
	if err := decodeOptions("update", opts, &o, false); err != nil {
		return nil, err
	}
	body, err := jsonBody(o.Body)
	if err != nil {
		return nil, err
	}
	return &esapi.UpdateRequest{
		Index:               index,
		DocumentID:          id,
		Body:                body,
		IfPrimaryTerm:       o.IfPrimaryTerm,
		IfSeqNo:             o.IfSeqNo,
		Lang:                o.Lang,
		Refresh:             o.Refresh,
		RequireAlias:        o.RequireAlias,
		RetryOnConflict:     o.RetryOnConflict,
		Routing:             o.Routing,
		Timeout:             o.Timeout,
		WaitForActiveShards: o.WaitForActiveShards,
	}, nil
}

type multiGetOptions struct {
	Routing        string   `mapstructure:"routing"`
	Preference     string   `mapstructure:"preference"`
	Realtime       *bool    `mapstructure:"realtime"`
	Refresh        *bool    `mapstructure:"refresh"`
	Source         []string `mapstructure:"_source"`
	SourceIncludes []string `mapstructure:"_source_includes"`
	SourceExcludes []string `mapstructure:"_source_excludes"`
	StoredFields   []string `mapstructure:"stored_fields"`
}

// MultiGetRequest converts a batch of lookups. Each entry of docs is sent as
// given ({"_index", "_id", "routing", "_source", "stored_fields"}); entries
// without _index use index.
func MultiGetRequest(index string, docs []map[string]any, opts map[string]any) (*esapi.MgetRequest, error) {
	var o multiGetOptions
	if err := decodeOptions("mget", opts, &o, true); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []map[string]any{}
	}
	body, err := jsonBody(map[string]any{"docs": docs})
	if err != nil {
		return nil, err
	}
	return &esapi.MgetRequest{
		Index:          index,
		Body:           body,
		Preference:     o.Preference,
		Realtime:       o.Realtime,
		Refresh:        o.Refresh,
		Routing:        o.Routing,
		Source:         o.Source,
		SourceExcludes: o.SourceExcludes,
		SourceIncludes: o.SourceIncludes,
		StoredFields:   o.StoredFields,
	}, nil
}
