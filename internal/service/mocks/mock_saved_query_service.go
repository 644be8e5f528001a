package mocks

import (
	"context"
	"io"

	"searchbridge/internal/model"
	"searchbridge/internal/service"
	"searchbridge/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockSavedQueryService struct {
	mock.Mock
}

func (m *MockSavedQueryService) Save(ctx context.Context, name, index string, body map[string]any) (*model.SavedQuery, error) {
	args := m.Called(ctx, name, index, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedQuery), args.Error(1)
}

func (m *MockSavedQueryService) Get(ctx context.Context, name string) (*model.SavedQuery, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedQuery), args.Error(1)
}

func (m *MockSavedQueryService) List(ctx context.Context, limit, offset int) (*service.SavedQueryListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SavedQueryListResult), args.Error(1)
}

func (m *MockSavedQueryService) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockSavedQueryService) Run(ctx context.Context, name string, overrides map[string]any) (map[string]any, error) {
	args := m.Called(ctx, name, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, index string, req map[string]any) (*model.Export, error) {
	args := m.Called(ctx, index, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Export), args.Error(1)
}

func (m *MockExportService) Open(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockExportService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
