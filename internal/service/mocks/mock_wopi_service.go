package mocks

import (
	"context"
	"io"

	"resumehost/internal/model"
	"resumehost/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockWOPIService struct {
	mock.Mock
}

func (m *MockWOPIService) Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (*model.StoredFile, error) {
	args := m.Called(ctx, r, originalName, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockWOPIService) Get(ctx context.Context, id string) (*model.StoredFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockWOPIService) CheckFileInfo(ctx context.Context, id string) (*model.FileInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileInfo), args.Error(1)
}

func (m *MockWOPIService) GetFile(ctx context.Context, id string) (*service.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Content), args.Error(1)
}

func (m *MockWOPIService) PutFile(ctx context.Context, id string, r io.Reader, size int64) (*model.StoredFile, error) {
	args := m.Called(ctx, id, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockWOPIService) Revisions(ctx context.Context, id string, limit int) ([]model.Revision, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Revision), args.Error(1)
}
