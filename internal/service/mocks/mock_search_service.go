package mocks

import (
	"context"

	"searchbridge/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSearchService) IndexDocument(ctx context.Context, index string, doc, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, index, doc, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) GetDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, index, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) DocumentExists(ctx context.Context, index, id string, opts map[string]any) (bool, error) {
	args := m.Called(ctx, index, id, opts)
	return args.Bool(0), args.Error(1)
}

func (m *MockSearchService) DeleteDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, index, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) UpdateDocument(ctx context.Context, index, id string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, index, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) MultiGet(ctx context.Context, index string, docs []map[string]any, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, index, docs, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) Search(ctx context.Context, indices []string, req map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) Scroll(ctx context.Context, scrollID string, keepAlive any) (map[string]any, error) {
	args := m.Called(ctx, scrollID, keepAlive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) ClearScroll(ctx context.Context, scrollIDs ...string) (map[string]any, error) {
	args := m.Called(ctx, scrollIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) Count(ctx context.Context, indices []string, req map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) DeleteByQuery(ctx context.Context, indices []string, req map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) Bulk(ctx context.Context, index string, ops []map[string]any, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, index, ops, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) CreateIndex(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	args := m.Called(ctx, index, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) DeleteIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) IndexExists(ctx context.Context, indices []string, opts map[string]any) (bool, error) {
	args := m.Called(ctx, indices, opts)
	return args.Bool(0), args.Error(1)
}

func (m *MockSearchService) PutMapping(ctx context.Context, indices []string, mapping, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, mapping, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) GetMapping(ctx context.Context, indices []string) (map[string]any, error) {
	args := m.Called(ctx, indices)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) PutSettings(ctx context.Context, indices []string, settings, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, settings, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) GetSettings(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) OpenIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) CloseIndex(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) Refresh(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) Flush(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) ForceMerge(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) UpdateAliases(ctx context.Context, actions []map[string]any, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, actions, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) PutIndexTemplate(ctx context.Context, name string, template, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, name, template, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockSearchService) ClusterHealth(ctx context.Context, indices []string, opts map[string]any) (map[string]any, error) {
	args := m.Called(ctx, indices, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

var _ service.SearchService = (*MockSearchService)(nil)
