package mocks

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/stretchr/testify/mock"

	"searchbridge/internal/model"
)

// MockSearcher is a testify mock of search.Searcher.
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSearcher) Index(ctx context.Context, req *esapi.IndexRequest) (*model.WriteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WriteResponse), args.Error(1)
}

func (m *MockSearcher) Get(ctx context.Context, req *esapi.GetRequest) (*model.GetResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GetResponse), args.Error(1)
}

func (m *MockSearcher) Exists(ctx context.Context, req *esapi.ExistsRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockSearcher) Delete(ctx context.Context, req *esapi.DeleteRequest) (*model.WriteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WriteResponse), args.Error(1)
}

func (m *MockSearcher) Update(ctx context.Context, req *esapi.UpdateRequest) (*model.WriteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WriteResponse), args.Error(1)
}

func (m *MockSearcher) MultiGet(ctx context.Context, req *esapi.MgetRequest) (*model.MultiGetResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MultiGetResponse), args.Error(1)
}

func (m *MockSearcher) Search(ctx context.Context, req *esapi.SearchRequest) (*model.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResponse), args.Error(1)
}

func (m *MockSearcher) Scroll(ctx context.Context, req *esapi.ScrollRequest) (*model.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResponse), args.Error(1)
}

func (m *MockSearcher) ClearScroll(ctx context.Context, req *esapi.ClearScrollRequest) (*model.ClearScrollResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClearScrollResponse), args.Error(1)
}

func (m *MockSearcher) Count(ctx context.Context, req *esapi.CountRequest) (*model.CountResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CountResponse), args.Error(1)
}

func (m *MockSearcher) DeleteByQuery(ctx context.Context, req *esapi.DeleteByQueryRequest) (*model.DeleteByQueryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeleteByQueryResponse), args.Error(1)
}

func (m *MockSearcher) Bulk(ctx context.Context, req *esapi.BulkRequest) (*model.BulkResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BulkResponse), args.Error(1)
}

func (m *MockSearcher) CreateIndex(ctx context.Context, req *esapi.IndicesCreateRequest) (*model.AcknowledgedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcknowledgedResponse), args.Error(1)
}

func (m *MockSearcher) DeleteIndex(ctx context.Context, req *esapi.IndicesDeleteRequest) (*model.AcknowledgedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcknowledgedResponse), args.Error(1)
}

func (m *MockSearcher) IndexExists(ctx context.Context, req *esapi.IndicesExistsRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockSearcher) PutMapping(ctx context.Context, req *esapi.IndicesPutMappingRequest) (*model.AcknowledgedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcknowledgedResponse), args.Error(1)
}

func (m *MockSearcher) GetMapping(ctx context.Context, req *esapi.IndicesGetMappingRequest) (map[string]model.IndexState, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.IndexState), args.Error(1)
}

func (m *MockSearcher) PutSettings(ctx context.Context, req *esapi.IndicesPutSettingsRequest) (*model.AcknowledgedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcknowledgedResponse), args.Error(1)
}

func (m *MockSearcher) GetSettings(ctx context.Context, req *esapi.IndicesGetSettingsRequest) (map[string]model.IndexState, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.IndexState), args.Error(1)
}

func (m *MockSearcher) OpenIndex(ctx context.Context, req *esapi.IndicesOpenRequest) (*model.AcknowledgedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcknowledgedResponse), args.Error(1)
}

func (m *MockSearcher) CloseIndex(ctx context.Context, req *esapi.IndicesCloseRequest) (*model.AcknowledgedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcknowledgedResponse), args.Error(1)
}

func (m *MockSearcher) Refresh(ctx context.Context, req *esapi.IndicesRefreshRequest) (*model.BroadcastResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BroadcastResponse), args.Error(1)
}

func (m *MockSearcher) Flush(ctx context.Context, req *esapi.IndicesFlushRequest) (*model.BroadcastResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BroadcastResponse), args.Error(1)
}

func (m *MockSearcher) ForceMerge(ctx context.Context, req *esapi.IndicesForcemergeRequest) (*model.BroadcastResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BroadcastResponse), args.Error(1)
}

func (m *MockSearcher) UpdateAliases(ctx context.Context, req *esapi.IndicesUpdateAliasesRequest) (*model.AcknowledgedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcknowledgedResponse), args.Error(1)
}

func (m *MockSearcher) PutIndexTemplate(ctx context.Context, req *esapi.IndicesPutIndexTemplateRequest) (*model.AcknowledgedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AcknowledgedResponse), args.Error(1)
}

func (m *MockSearcher) ClusterHealth(ctx context.Context, req *esapi.ClusterHealthRequest) (*model.ClusterHealthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClusterHealthResponse), args.Error(1)
}
