package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
)

// MockUploadRepository is a mock of repository.UploadRepository
type MockUploadRepository struct {
	mock.Mock
}

func NewMockUploadRepository(t *testing.T) *MockUploadRepository {
	m := &MockUploadRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUploadRepository) Create(ctx context.Context, upload *entity.Upload) error {
	args := m.Called(ctx, upload)
	return args.Error(0)
}

func (m *MockUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Upload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Upload), args.Error(1)
}

func (m *MockUploadRepository) Update(ctx context.Context, upload *entity.Upload) error {
	args := m.Called(ctx, upload)
	return args.Error(0)
}

func (m *MockUploadRepository) FindByWorkspace(ctx context.Context, workspaceID string) ([]*entity.Upload, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Upload), args.Error(1)
}

func (m *MockUploadRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Upload, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Upload), args.Error(1)
}

// MockChunkRepository is a mock of repository.ChunkRepository
type MockChunkRepository struct {
	mock.Mock
}

func NewMockChunkRepository(t *testing.T) *MockChunkRepository {
	m := &MockChunkRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChunkRepository) Create(ctx context.Context, chunk *entity.Chunk) error {
	args := m.Called(ctx, chunk)
	return args.Error(0)
}

func (m *MockChunkRepository) FindByUploadID(ctx context.Context, uploadID uuid.UUID) ([]*entity.Chunk, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Chunk), args.Error(1)
}

// MockFileStorageRepository is a mock of repository.FileStorageRepository
type MockFileStorageRepository struct {
	mock.Mock
}

func NewMockFileStorageRepository(t *testing.T) *MockFileStorageRepository {
	m := &MockFileStorageRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFileStorageRepository) Create(ctx context.Context, fileStorage *entity.FileStorage) error {
	args := m.Called(ctx, fileStorage)
	return args.Error(0)
}

func (m *MockFileStorageRepository) FindByUploadID(ctx context.Context, uploadID uuid.UUID) (*entity.FileStorage, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FileStorage), args.Error(1)
}

// MockStorageProviderRepository is a mock of repository.StorageProviderRepository
type MockStorageProviderRepository struct {
	mock.Mock
}

func NewMockStorageProviderRepository(t *testing.T) *MockStorageProviderRepository {
	m := &MockStorageProviderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStorageProviderRepository) FindOrCreate(ctx context.Context, provider *entity.StorageProvider) (*entity.StorageProvider, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StorageProvider), args.Error(1)
}

func (m *MockStorageProviderRepository) FindByName(ctx context.Context, name string) (*entity.StorageProvider, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StorageProvider), args.Error(1)
}
