package mocks

import (
	"context"

	"resumehost/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRevisionRepository struct {
	mock.Mock
}

func (m *MockRevisionRepository) Append(ctx context.Context, rev model.Revision) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *MockRevisionRepository) ListByFile(ctx context.Context, fileID string, limit int) ([]model.Revision, error) {
	args := m.Called(ctx, fileID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Revision), args.Error(1)
}

func (m *MockRevisionRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
