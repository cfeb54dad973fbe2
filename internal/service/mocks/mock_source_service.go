package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docstore/internal/model"
	"docstore/internal/service"
)

type MockSourceService struct {
	mock.Mock
}

var _ service.SourceService = (*MockSourceService)(nil)

func (m *MockSourceService) Create(ctx context.Context, slug, label string) (*model.Source, error) {
	args := m.Called(ctx, slug, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Source), args.Error(1)
}

func (m *MockSourceService) Get(ctx context.Context, id int64) (*model.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Source), args.Error(1)
}

func (m *MockSourceService) List(ctx context.Context, limit, offset int) (*service.SourceListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SourceListResult), args.Error(1)
}
