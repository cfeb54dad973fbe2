package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docstore/internal/model"
	"docstore/internal/repository"
)

type MockSourceRepository struct {
	mock.Mock
}

var _ repository.SourceRepository = (*MockSourceRepository)(nil)

func (m *MockSourceRepository) Create(ctx context.Context, src *model.Source) (*model.Source, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Source), args.Error(1)
}

func (m *MockSourceRepository) ByID(ctx context.Context, id int64) (*model.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Source), args.Error(1)
}

func (m *MockSourceRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Source], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Source]), args.Error(1)
}
