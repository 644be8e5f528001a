package convert

import (
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// wildcardOptions are the multi-index resolution parameters shared by most
// index administration calls.
type wildcardOptions struct {
	AllowNoIndices    *bool  `mapstructure:"allow_no_indices"`
	ExpandWildcards   string `mapstructure:"expand_wildcards"`
	IgnoreUnavailable *bool  `mapstructure:"ignore_unavailable"`
}

type timeoutOptions struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MasterTimeout time.Duration `mapstructure:"master_timeout"`
}

type createIndexOptions struct {
	timeoutOptions      `mapstructure:",squash"`
	WaitForActiveShards string         `mapstructure:"wait_for_active_shards"`
	Body                map[string]any `mapstructure:",remain"`
}

// CreateIndexRequest converts an index creation; settings, mappings and
// aliases form the body.
func CreateIndexRequest(index string, opts map[string]any) (*esapi.IndicesCreateRequest, error) {
	var o createIndexOptions
	if err := decodeOptions("create_index", opts, &o, false); err != nil {
		return nil, err
	}
	body, err := optionalBody(o.Body)
	if err != nil {
		return nil, err
	}
	return &esapi.IndicesCreateRequest{
		Index:               index,
		Body:                body,
		MasterTimeout:       o.MasterTimeout,
		Timeout:             o.Timeout,
		WaitForActiveShards: o.WaitForActiveShards,
	}, nil
}

type deleteIndexOptions struct {
	wildcardOptions `mapstructure:",squash"`
	timeoutOptions  `mapstructure:",squash"`
}

// DeleteIndexRequest converts an index deletion.
func DeleteIndexRequest(indices []string, opts map[string]any) (*esapi.IndicesDeleteRequest, error) {
	var o deleteIndexOptions
	if err := decodeOptions("delete_index", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.IndicesDeleteRequest{
		Index:             indices,
		AllowNoIndices:    o.AllowNoIndices,
		ExpandWildcards:   o.ExpandWildcards,
		IgnoreUnavailable: o.IgnoreUnavailable,
		MasterTimeout:     o.MasterTimeout,
		Timeout:           o.Timeout,
	}, nil
}

type indexExistsOptions struct {
	wildcardOptions `mapstructure:",squash"`
	Local           *bool `mapstructure:"local"`
	IncludeDefaults *bool `mapstructure:"include_defaults"`
}

// IndexExistsRequest converts an index existence check.
func IndexExistsRequest(indices []string, opts map[string]any) (*esapi.IndicesExistsRequest, error) {
	var o indexExistsOptions
	if err := decodeOptions("index_exists", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.IndicesExistsRequest{
		Index:             indices,
		AllowNoIndices:    o.AllowNoIndices,
		ExpandWildcards:   o.ExpandWildcards,
		IgnoreUnavailable: o.IgnoreUnavailable,
		IncludeDefaults:   o.IncludeDefaults,
		Local:             o.Local,
	}, nil
}

type putMappingOptions struct {
	wildcardOptions `mapstructure:",squash"`
	timeoutOptions  `mapstructure:",squash"`
	WriteIndexOnly  *bool `mapstructure:"write_index_only"`
}

// PutMappingRequest converts a mapping update. mapping is the body
// ({"properties": {...}, "dynamic": ...}).
func PutMappingRequest(indices []string, mapping map[string]any, opts map[string]any) (*esapi.IndicesPutMappingRequest, error) {
	var o putMappingOptions
	if err := decodeOptions("put_mapping", opts, &o, true); err != nil {
		return nil, err
	}
	body, err := jsonBody(mapping)
	if err != nil {
		return nil, err
	}
	return &esapi.IndicesPutMappingRequest{
		Index:             indices,
		Body:              body,
		AllowNoIndices:    o.AllowNoIndices,
		ExpandWildcards:   o.ExpandWildcards,
		IgnoreUnavailable: o.IgnoreUnavailable,
		MasterTimeout:     o.MasterTimeout,
		Timeout:           o.Timeout,
		WriteIndexOnly:    o.WriteIndexOnly,
	}, nil
}

// GetMappingRequest converts a mapping lookup.
func GetMappingRequest(indices []string) *esapi.IndicesGetMappingRequest {
	return &esapi.IndicesGetMappingRequest{Index: indices}
}

type putSettingsOptions struct {
	wildcardOptions  `mapstructure:",squash"`
	timeoutOptions   `mapstructure:",squash"`
	PreserveExisting *bool `mapstructure:"preserve_existing"`
	FlatSettings     *bool `mapstructure:"flat_settings"`
}

// PutSettingsRequest converts a dynamic settings update. settings is the body
// ({"index": {"number_of_replicas": 1}} or flat keys).
func PutSettingsRequest(indices []string, settings map[string]any, opts map[string]any) (*esapi.IndicesPutSettingsRequest, error) {
	var o putSettingsOptions
	if err := decodeOptions("put_settings", opts, &o, true); err != nil {
		return nil, err
	}
	body, err := jsonBody(settings)
	if err != nil {
		return nil, err
	}
	return &esapi.IndicesPutSettingsRequest{
		Index:             indices,
		Body:              body,
		AllowNoIndices:    o.AllowNoIndices,
		ExpandWildcards:   o.ExpandWildcards,
		FlatSettings:      o.FlatSettings,
		IgnoreUnavailable: o.IgnoreUnavailable,
		MasterTimeout:     o.MasterTimeout,
		PreserveExisting:  o.PreserveExisting,
		Timeout:           o.Timeout,
	}, nil
}

type getSettingsOptions struct {
	wildcardOptions `mapstructure:",squash"`
	Name            []string `mapstructure:"name"`
	FlatSettings    *bool    `mapstructure:"flat_settings"`
	IncludeDefaults *bool    `mapstructure:"include_defaults"`
	Local           *bool    `mapstructure:"local"`
}

// GetSettingsRequest converts a settings lookup; name filters setting keys.
func GetSettingsRequest(indices []string, opts map[string]any) (*esapi.IndicesGetSettingsRequest, error) {
	var o getSettingsOptions
	if err := decodeOptions("get_settings", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.IndicesGetSettingsRequest{
		Index:             indices,
		Name:              o.Name,
		AllowNoIndices:    o.AllowNoIndices,
		ExpandWildcards:   o.ExpandWildcards,
		FlatSettings:      o.FlatSettings,
		IgnoreUnavailable: o.IgnoreUnavailable,
		IncludeDefaults:   o.IncludeDefaults,
		Local:             o.Local,
	}, nil
}

type openCloseOptions struct {
	wildcardOptions     `mapstructure:",squash"`
	timeoutOptions      `mapstructure:",squash"`
	WaitForActiveShards string `mapstructure:"wait_for_active_shards"`
}

// OpenIndexRequest converts an index open.
func OpenIndexRequest(indices []string, opts map[string]any) (*esapi.IndicesOpenRequest, error) {
	var o openCloseOptions
	if err := decodeOptions("open_index", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.IndicesOpenRequest{
		Index:               indices,
		AllowNoIndices:      o.AllowNoIndices,
		ExpandWildcards:     o.ExpandWildcards,
		IgnoreUnavailable:   o.IgnoreUnavailable,
		MasterTimeout:       o.MasterTimeout,
		Timeout:             o.Timeout,
		WaitForActiveShards: o.WaitForActiveShards,
	}, nil
}

// CloseIndexRequest converts an index close.
func CloseIndexRequest(indices []string, opts map[string]any) (*esapi.IndicesCloseRequest, error) {
	var o openCloseOptions
	if err := decodeOptions("close_index", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.IndicesCloseRequest{
		Index:               indices,
		AllowNoIndices:      o.AllowNoIndices,
		ExpandWildcards:     o.ExpandWildcards,
		IgnoreUnavailable:   o.IgnoreUnavailable,
		MasterTimeout:       o.MasterTimeout,
		Timeout:             o.Timeout,
		WaitForActiveShards: o.WaitForActiveShards,
	}, nil
}

// RefreshRequest converts an index refresh.
func RefreshRequest(indices []string, opts map[string]any) (*esapi.IndicesRefreshRequest, error) {
	var o wildcardOptions
	if err := decodeOptions("refresh", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.IndicesRefreshRequest{
		Index:             indices,
		AllowNoIndices:    o.AllowNoIndices,
		ExpandWildcards:   o.ExpandWildcards,
		IgnoreUnavailable: o.IgnoreUnavailable,
	}, nil
}

type flushOptions struct {
	wildcardOptions `mapstructure:",squash"`
	Force           *bool `mapstructure:"force"`
	WaitIfOngoing   *bool `mapstructure:"wait_if_ongoing"`
}

// FlushRequest converts an index flush.
func FlushRequest(indices []string, opts map[string]any) (*esapi.IndicesFlushRequest, error) {
	var o flushOptions
	if err := decodeOptions("flush", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.IndicesFlushRequest{
		Index:             indices,
		AllowNoIndices:    o.AllowNoIndices,
		ExpandWildcards:   o.ExpandWildcards,
		Force:             o.Force,
		IgnoreUnavailable: o.IgnoreUnavailable,
		WaitIfOngoing:     o.WaitIfOngoing,
	}, nil
}

type forceMergeOptions struct {
	wildcardOptions    `mapstructure:",squash"`
	MaxNumSegments     *int  `mapstructure:"max_num_segments"`
	OnlyExpungeDeletes *bool `mapstructure:"only_expunge_deletes"`
	Flush              *bool `mapstructure:"flush"`
}

// ForceMergeRequest converts a force merge.
func ForceMergeRequest(indices []string, opts map[string]any) (*esapi.IndicesForcemergeRequest, error) {
	var o forceMergeOptions
	if err := decodeOptions("forcemerge", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.IndicesForcemergeRequest{
		Index:              indices,
		AllowNoIndices:     o.AllowNoIndices,
		ExpandWildcards:    o.ExpandWildcards,
		Flush:              o.Flush,
		IgnoreUnavailable:  o.IgnoreUnavailable,
		MaxNumSegments:     o.MaxNumSegments,
		OnlyExpungeDeletes: o.OnlyExpungeDeletes,
	}, nil
}

var aliasActions = map[string]bool{"add": true, "remove": true, "remove_index": true}

// UpdateAliasesRequest converts alias actions. Each action is a map with a
// single key (add, remove or remove_index) holding its parameters.
func UpdateAliasesRequest(actions []map[string]any, opts map[string]any) (*esapi.IndicesUpdateAliasesRequest, error) {
	var o timeoutOptions
	if err := decodeOptions("update_aliases", opts, &o, true); err != nil {
		return nil, err
	}
	for i, action := range actions {
		if len(action) != 1 {
			return nil, fmt.Errorf("alias action %d: %w: want exactly one action key", i, ErrInvalidOperation)
		}
		for k := range action {
			if !aliasActions[k] {
				return nil, fmt.Errorf("alias action %d: %w: unknown action %q", i, ErrInvalidOperation, k)
			}
		}
	}
	if actions == nil {
		actions = []map[string]any{}
	}
	body, err := jsonBody(map[string]any{"actions": actions})
	if err != nil {
		return nil, err
	}
	return &esapi.IndicesUpdateAliasesRequest{
		Body:          body,
		MasterTimeout: o.MasterTimeout,
		Timeout:       o.Timeout,
	}, nil
}

type putTemplateOptions struct {
	Create        *bool         `mapstructure:"create"`
	Cause         string        `mapstructure:"cause"`
	MasterTimeout time.Duration `mapstructure:"master_timeout"`
}

// PutIndexTemplateRequest converts a composable index template
// ({"index_patterns", "template", "priority", ...}).
func PutIndexTemplateRequest(name string, template map[string]any, opts map[string]any) (*esapi.IndicesPutIndexTemplateRequest, error) {
	var o putTemplateOptions
	if err := decodeOptions("put_index_template", opts, &o, true); err != nil {
		return nil, err
	}
	body, err := jsonBody(template)
	if err != nil {
		return nil, err
	}
	return &esapi.IndicesPutIndexTemplateRequest{
		Name:          name,
		Body:          body,
		Cause:         o.Cause,
		Create:        o.Create,
		MasterTimeout: o.MasterTimeout,
	}, nil
}
