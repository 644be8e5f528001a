package convert

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// searchOptions lists the URL parameters of a search; every other key is body.
type searchOptions struct {
	SearchType                string         `mapstructure:"search_type"`
	Routing                   []string       `mapstructure:"routing"`
	Preference                string         `mapstructure:"preference"`
	Scroll                    time.Duration  `mapstructure:"scroll"`
	Timeout                   time.Duration  `mapstructure:"timeout"`
	RequestCache              *bool          `mapstructure:"request_cache"`
	AllowPartialSearchResults *bool          `mapstructure:"allow_partial_search_results"`
	IgnoreUnavailable         *bool          `mapstructure:"ignore_unavailable"`
	AllowNoIndices            *bool          `mapstructure:"allow_no_indices"`
	ExpandWildcards           string         `mapstructure:"expand_wildcards"`
	TypedKeys                 *bool          `mapstructure:"typed_keys"`
	Q                         string         `mapstructure:"q"`
	Body                      map[string]any `mapstructure:",remain"`
}

// SearchRequest converts a search. URL-level keys (search_type, routing,
// preference, scroll, timeout, request_cache, allow_partial_search_results,
// ignore_unavailable, allow_no_indices, expand_wildcards, typed_keys, q) become
// parameters; everything else (query, aggs, sort, size, from, highlight, ...)
// is sent verbatim as the body.
func SearchRequest(indices []string, opts map[string]any) (*esapi.SearchRequest, error) {
	var o searchOptions
	if err := decodeOptions("search", opts, &o, false); err != nil {
		return nil, err
	}
	body, err := optionalBody(o.Body)
	if err != nil {
		return nil, err
	}
	return &esapi.SearchRequest{
		Index:                     indices,
		Body:                      body,
		AllowNoIndices:            o.AllowNoIndices,
		AllowPartialSearchResults: o.AllowPartialSearchResults,
		ExpandWildcards:           o.ExpandWildcards,
		IgnoreUnavailable:         o.IgnoreUnavailable,
		Preference:                o.Preference,
		Query:                     o.Q,
		RequestCache:              o.RequestCache,
		Routing:                   o.Routing,
		Scroll:                    o.Scroll,
		SearchType:                o.SearchType,
		Timeout:                   o.Timeout,
		TypedKeys:                 o.TypedKeys,
	}, nil
}

// ScrollRequest converts a scroll continuation. keepAlive accepts the same
// forms as any duration option.
func ScrollRequest(scrollID string, keepAlive any) (*esapi.ScrollRequest, error) {
	var o struct {
		Scroll time.Duration `mapstructure:"scroll"`
	}
	if err := decodeOptions("scroll", map[string]any{"scroll": keepAlive}, &o, true); err != nil {
		return nil, err
	}
	body, err := jsonBody(map[string]any{"scroll_id": scrollID})
	if err != nil {
		return nil, err
	}
	return &esapi.ScrollRequest{
		Body:   body,
		Scroll: o.Scroll,
	}, nil
}

// ClearScrollRequest releases the given scroll contexts. No ids clears none;
// pass "_all" to clear every context.
func ClearScrollRequest(scrollIDs ...string) (*esapi.ClearScrollRequest, error) {
	if scrollIDs == nil {
		scrollIDs = []string{}
	}
	body, err := jsonBody(map[string]any{"scroll_id": scrollIDs})
	if err != nil {
		return nil, err
	}
	return &esapi.ClearScrollRequest{Body: body}, nil
}

type countOptions struct {
	Routing           []string       `mapstructure:"routing"`
	Preference        string         `mapstructure:"preference"`
	Q                 string         `mapstructure:"q"`
	IgnoreUnavailable *bool          `mapstructure:"ignore_unavailable"`
	AllowNoIndices    *bool          `mapstructure:"allow_no_indices"`
	ExpandWildcards   string         `mapstructure:"expand_wildcards"`
	TerminateAfter    *int           `mapstructure:"terminate_after"`
	MinScore          *int           `mapstructure:"min_score"`
	Body              map[string]any `mapstructure:",remain"`
}

// CountRequest converts a count; query stays in the body.
func CountRequest(indices []string, opts map[string]any) (*esapi.CountRequest, error) {
	var o countOptions
	if err := decodeOptions("count", opts, &o, false); err != nil {
		return nil, err
	}
	body, err := optionalBody(o.Body)
	if err != nil {
		return nil, err
	}
	return &esapi.CountRequest{
		Index:             indices,
		Body:              body,
		AllowNoIndices:    o.AllowNoIndices,
		ExpandWildcards:   o.ExpandWildcards,
		IgnoreUnavailable: o.IgnoreUnavailable,
		MinScore:          o.MinScore,
		Preference:        o.Preference,
		Query:             o.Q,
		Routing:           o.Routing,
		TerminateAfter:    o.TerminateAfter,
	}, nil
}

type deleteByQueryOptions struct {
	Conflicts         string         `mapstructure:"conflicts"`
	Refresh           *bool          `mapstructure:"refresh"`
	Routing           []string       `mapstructure:"routing"`
	Timeout           time.Duration  `mapstructure:"timeout"`
	WaitForCompletion *bool          `mapstructure:"wait_for_completion"`
	ScrollSize        *int           `mapstructure:"scroll_size"`
	IgnoreUnavailable *bool          `mapstructure:"ignore_unavailable"`
	AllowNoIndices    *bool          `mapstructure:"allow_no_indices"`
	ExpandWildcards   string         `mapstructure:"expand_wildcards"`
	Body              map[string]any `mapstructure:",remain"`
}

// DeleteByQueryRequest converts a delete-by-query; query and max_docs stay in the body.
func DeleteByQueryRequest(indices []string, opts map[string]any) (*esapi.DeleteByQueryRequest, error) {
	var o deleteByQueryOptions
	if err := decodeOptions("delete_by_query", opts, &o, false); err != nil {
		return nil, err
	}
	body, err := jsonBody(o.Body)
	if err != nil {
		return nil, err
	}
	return &esapi.DeleteByQueryRequest{
		Index:             indices,
		Body:              body,
		AllowNoIndices:    o.AllowNoIndices,
		Conflicts:         o.Conflicts,
		ExpandWildcards:   o.ExpandWildcards,
		IgnoreUnavailable: o.IgnoreUnavailable,
		Refresh:           o.Refresh,
		Routing:           o.Routing,
		ScrollSize:        o.ScrollSize,
		Timeout:           o.Timeout,
		WaitForCompletion: o.WaitForCompletion,
	}, nil
}
