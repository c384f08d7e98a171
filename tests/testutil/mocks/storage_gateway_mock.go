package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
)

// MockStorageGateway is a mock of service.StorageGateway
type MockStorageGateway struct {
	mock.Mock
}

func NewMockStorageGateway(t *testing.T) *MockStorageGateway {
	m := &MockStorageGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStorageGateway) CreateMultipartUpload(ctx context.Context, objectKey string, contentType string) (string, error) {
	args := m.Called(ctx, objectKey, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageGateway) UploadPart(ctx context.Context, objectKey string, remoteUploadID string, body []byte, partNumber int) (string, error) {
	args := m.Called(ctx, objectKey, remoteUploadID, body, partNumber)
	return args.String(0), args.Error(1)
}

func (m *MockStorageGateway) CompleteMultipartUpload(ctx context.Context, objectKey string, remoteUploadID string, parts []entity.CompletedPart) error {
	args := m.Called(ctx, objectKey, remoteUploadID, parts)
	return args.Error(0)
}

func (m *MockStorageGateway) AbortMultipartUpload(ctx context.Context, objectKey string, remoteUploadID string) error {
	args := m.Called(ctx, objectKey, remoteUploadID)
	return args.Error(0)
}

func (m *MockStorageGateway) UploadFile(ctx context.Context, objectKey string, body []byte, opts service.UploadOptions) (*service.UploadedObject, error) {
	args := m.Called(ctx, objectKey, body, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadedObject), args.Error(1)
}

func (m *MockStorageGateway) GetFileURL(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}

func (m *MockStorageGateway) GetCDNURL(objectKey string) string {
	args := m.Called(objectKey)
	return args.String(0)
}

func (m *MockStorageGateway) GeneratePresignedPartURL(ctx context.Context, objectKey string, remoteUploadID string, partNumber int, expiry time.Duration) (*service.PresignedURL, error) {
	args := m.Called(ctx, objectKey, remoteUploadID, partNumber, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PresignedURL), args.Error(1)
}
