package mocks

import (
	"context"

	"searchbridge/internal/model"
	"searchbridge/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockSavedQueryRepository struct {
	mock.Mock
}

func (m *MockSavedQueryRepository) Upsert(ctx context.Context, q *model.SavedQuery) (*model.SavedQuery, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedQuery), args.Error(1)
}

func (m *MockSavedQueryRepository) FindByName(ctx context.Context, name string) (*model.SavedQuery, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedQuery), args.Error(1)
}

func (m *MockSavedQueryRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.SavedQuery], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.SavedQuery]), args.Error(1)
}

func (m *MockSavedQueryRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
