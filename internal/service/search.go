package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"searchbridge/internal/cache"
	"searchbridge/internal/convert"
	"searchbridge/internal/search"
)

// ErrInvalidRequest wraps every failure to convert a caller's map into an
// engine request. The conversion error stays reachable through errors.Is/As.
var ErrInvalidRequest = errors.New("invalid request")

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

// SearchService exposes the engine through generic maps. Every request is
// converted to the client's typed request, executed, and the typed response
// converted back to a map keyed by wire names.
type SearchService interface {
	Ping(ctx context.Context) error

	IndexDocument(ctx context.Context, index string, doc, opts map[string]any) (map[string]any, error)
	GetDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error)
	DocumentExists(ctx context.Context, index, id string, opts map[string]any) (bool, error)
	DeleteDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error)
	UpdateDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error)
	MultiGet(ctx context.Context, index string, docs []map[string]any, opts map[string]any) (map[string]any, error)

	Search(ctx context.Context, indices []string, req map[string]any) (map[string]any, error)
	Scroll(ctx context.Context, scrollID string, keepAlive any) (map[string]any, error)
	ClearScroll(ctx context.Context, scrollIDs ...string) (map[string]any, error)
	Count(ctx context.Context, indices []string, req map[string]any) (map[string]any, error)
	DeleteByQuery(ctx context.Context, indices []string, req map[string]any) (map[string]any, error)
	Bulk(ctx context.Context, index string, ops []map[string]any, opts map[string]any) (map[string]any, error)

	CreateIndex(ctx context.Context, index string, body map[string]any) (map[string]any, error)
	DeleteIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)
	IndexExists(ctx context.Context, indices []string, opts map[string]any) (bool, error)
	PutMapping(ctx context.Context, indices []string, mapping, opts map[string]any) (map[string]any, error)
	GetMapping(ctx context.Context, indices []string) (map[string]any, error)
	PutSettings(ctx context.Context, indices []string, settings, opts map[string]any) (map[string]any, error)
	GetSettings(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)
	OpenIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)
	CloseIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)
	Refresh(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)
	Flush(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)
	ForceMerge(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)
	UpdateAliases(ctx context.Context, actions []map[string]any, opts map[string]any) (map[string]any, error)
	PutIndexTemplate(ctx context.Context, name string, template, opts map[string]any) (map[string]any, error)

	ClusterHealth(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error)
}

type searchService struct {
	engine search.Searcher
	cache  *cache.SearchCache
	logger *zap.Logger
}

// NewSearchService builds a SearchService on engine. c may be nil or
// disabled, in which case searches always reach the engine.
func NewSearchService(engine search.Searcher, c *cache.SearchCache, logger *zap.Logger) SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &searchService{engine: engine, cache: c, logger: logger}
}

func (s *searchService) Ping(ctx context.Context) error {
	return s.engine.Ping(ctx)
}

func (s *searchService) IndexDocument(ctx context.Context, index string, doc, opts map[string]any) (map[string]any, error) {
	req, err := convert.IndexRequest(index, doc, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Index(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.WriteResponseToMap(res), nil
}

func (s *searchService) GetDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error) {
	req, err := convert.GetRequest(index, id, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Get(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.GetResponseToMap(res), nil
}

func (s *searchService) DocumentExists(ctx context.Context, index, id string, opts map[string]any) (bool, error) {
	req, err := convert.ExistsRequest(index, id, opts)
	if err != nil {
		return false, invalid(err)
	}
	return s.engine.Exists(ctx, req)
}

func (s *searchService) DeleteDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error) {
	req, err := convert.DeleteRequest(index, id, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Delete(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.WriteResponseToMap(res), nil
}

func (s *searchService) UpdateDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error) {
	req, err := convert.UpdateRequest(index, id, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.WriteResponseToMap(res), nil
}

func (s *searchService) MultiGet(ctx context.Context, index string, docs []map[string]any, opts map[string]any) (map[string]any, error) {
	req, err := convert.MultiGetRequest(index, docs, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.MultiGet(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.MultiGetResponseToMap(res), nil
}

// Search runs req against indices. Requests that open a scroll bypass the
// cache; all others are served from it when an entry exists. Cache failures
// are logged and never fail the search.
func (s *searchService) Search(ctx context.Context, indices []string, req map[string]any) (map[string]any, error) {
	sreq, err := convert.SearchRequest(indices, req)
	if err != nil {
		return nil, invalid(err)
	}

	_, scrolling := req["scroll"]
	useCache := !scrolling && s.cache.Enabled()
	cacheIndex := strings.Join(indices, ",")

	if useCache {
		cached, hit, err := s.cache.Get(ctx, cacheIndex, req)
		if err != nil {
			s.logger.Warn("search_cache_get_failed", zap.String("index", cacheIndex), zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}

	res, err := s.engine.Search(ctx, sreq)
	if err != nil {
		return nil, err
	}
	out := convert.SearchResponseToMap(res)

	if useCache {
		if err := s.cache.Set(ctx, cacheIndex, req, out); err != nil {
			s.logger.Warn("search_cache_set_failed", zap.String("index", cacheIndex), zap.Error(err))
		}
	}
	return out, nil
}

func (s *searchService) Scroll(ctx context.Context, scrollID string, keepAlive any) (map[string]any, error) {
	if scrollID == "" {
		return nil, invalid(errors.New("scroll_id is required"))
	}
	req, err := convert.ScrollRequest(scrollID, keepAlive)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Scroll(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.SearchResponseToMap(res), nil
}

func (s *searchService) ClearScroll(ctx context.Context, scrollIDs ...string) (map[string]any, error) {
	req, err := convert.ClearScrollRequest(scrollIDs...)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.ClearScroll(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.ClearScrollResponseToMap(res), nil
}

func (s *searchService) Count(ctx context.Context, indices []string, req map[string]any) (map[string]any, error) {
	creq, err := convert.CountRequest(indices, req)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Count(ctx, creq)
	if err != nil {
		return nil, err
	}
	return convert.CountResponseToMap(res), nil
}

func (s *searchService) DeleteByQuery(ctx context.Context, indices []string, req map[string]any) (map[string]any, error) {
	dreq, err := convert.DeleteByQueryRequest(indices, req)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.DeleteByQuery(ctx, dreq)
	if err != nil {
		return nil, err
	}
	return convert.DeleteByQueryResponseToMap(res), nil
}

func (s *searchService) Bulk(ctx context.Context, index string, ops []map[string]any, opts map[string]any) (map[string]any, error) {
	req, err := convert.BulkRequest(index, ops, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Bulk(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.BulkResponseToMap(res), nil
}

func (s *searchService) CreateIndex(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	req, err := convert.CreateIndexRequest(index, body)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.CreateIndex(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.AcknowledgedResponseToMap(res), nil
}

func (s *searchService) DeleteIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	req, err := convert.DeleteIndexRequest(indices, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.DeleteIndex(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.AcknowledgedResponseToMap(res), nil
}

func (s *searchService) IndexExists(ctx context.Context, indices []string, opts map[string]any) (bool, error) {
	req, err := convert.IndexExistsRequest(indices, opts)
	if err != nil {
		return false, invalid(err)
	}
	return s.engine.IndexExists(ctx, req)
}

func (s *searchService) PutMapping(ctx context.Context, indices []string, mapping, opts map[string]any) (map[string]any, error) {
	req, err := convert.PutMappingRequest(indices, mapping, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.PutMapping(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.AcknowledgedResponseToMap(res), nil
}

func (s *searchService) GetMapping(ctx context.Context, indices []string) (map[string]any, error) {
	res, err := s.engine.GetMapping(ctx, convert.GetMappingRequest(indices))
	if err != nil {
		return nil, err
	}
	return convert.IndexStatesToMap(res), nil
}

func (s *searchService) PutSettings(ctx context.Context, indices []string, settings, opts map[string]any) (map[string]any, error) {
	req, err := convert.PutSettingsRequest(indices, settings, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.PutSettings(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.AcknowledgedResponseToMap(res), nil
}

func (s *searchService) GetSettings(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	req, err := convert.GetSettingsRequest(indices, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.GetSettings(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.IndexStatesToMap(res), nil
}

func (s *searchService) OpenIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	req, err := convert.OpenIndexRequest(indices, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.OpenIndex(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.AcknowledgedResponseToMap(res), nil
}

func (s *searchService) CloseIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	req, err := convert.CloseIndexRequest(indices, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.CloseIndex(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.AcknowledgedResponseToMap(res), nil
}

func (s *searchService) Refresh(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	req, err := convert.RefreshRequest(indices, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Refresh(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.BroadcastResponseToMap(res), nil
}

func (s *searchService) Flush(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	req, err := convert.FlushRequest(indices, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.Flush(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.BroadcastResponseToMap(res), nil
}

func (s *searchService) ForceMerge(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	req, err := convert.ForceMergeRequest(indices, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.ForceMerge(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.BroadcastResponseToMap(res), nil
}

func (s *searchService) UpdateAliases(ctx context.Context, actions []map[string]any, opts map[string]any) (map[string]any, error) {
	req, err := convert.UpdateAliasesRequest(actions, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.UpdateAliases(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.AcknowledgedResponseToMap(res), nil
}

func (s *searchService) PutIndexTemplate(ctx context.Context, name string, template, opts map[string]any) (map[string]any, error) {
	req, err := convert.PutIndexTemplateRequest(name, template, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.PutIndexTemplate(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.AcknowledgedResponseToMap(res), nil
}

func (s *searchService) ClusterHealth(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	req, err := convert.ClusterHealthRequest(indices, opts)
	if err != nil {
		return nil, invalid(err)
	}
	res, err := s.engine.ClusterHealth(ctx, req)
	if err != nil {
		return nil, err
	}
	return convert.ClusterHealthToMap(res), nil
}
