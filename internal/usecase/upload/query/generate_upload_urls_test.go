package query_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/session"
	"github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/query"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
	"github.com/Hiro-mackay/audio-ingest/tests/testutil/mocks"
)

const testPresignExpiry = time.Hour

type generateUploadURLsTestDeps struct {
	uploadRepo *mocks.MockUploadRepository
	gateway    *mocks.MockStorageGateway
	sessions   *session.Table
}

func newGenerateUploadURLsTestDeps(t *testing.T) *generateUploadURLsTestDeps {
	t.Helper()
	return &generateUploadURLsTestDeps{
		uploadRepo: mocks.NewMockUploadRepository(t),
		gateway:    mocks.NewMockStorageGateway(t),
		sessions:   session.NewTable(),
	}
}

func (d *generateUploadURLsTestDeps) newQuery() *query.GenerateUploadURLsQuery {
	return query.NewGenerateUploadURLsQuery(d.uploadRepo, d.gateway, d.sessions, testPresignExpiry)
}

func TestGenerateUploadURLsQuery_Execute_ReturnsURLPerPart(t *testing.T) {
	ctx := context.Background()
	deps := newGenerateUploadURLsTestDeps(t)

	upload := newUploadFixture(entity.UploadStatusUploading, entity.UploadStrategyClientDirect, 0)
	sess := entity.NewMultipartSession(upload.ID, "remote-upload-id", upload.StorageKey, entity.UploadStrategyClientDirect)
	deps.sessions.Register(sess)

	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	for part := 1; part <= 3; part++ {
		deps.gateway.On("GeneratePresignedPartURL",
			ctx, sess.StorageKey.String(), sess.RemoteUploadID, part, testPresignExpiry).
			Return(&service.PresignedURL{
				PartNumber: part,
				URL:        fmt.Sprintf("https://storage.example.com/presigned/%d", part),
				ExpiresAt:  time.Now().Add(testPresignExpiry),
			}, nil)
	}

	output, err := deps.newQuery().Execute(ctx, query.GenerateUploadURLsInput{
		UploadID:    upload.ID,
		TotalChunks: 3,
	})

	require.NoError(t, err)
	require.Len(t, output.UploadURLs, 3)
	for i, u := range output.UploadURLs {
		assert.Equal(t, i+1, u.PartNumber)
		assert.NotEmpty(t, u.URL)
	}
}

func TestGenerateUploadURLsQuery_Execute_ServerProxiedUpload_ReturnsInvalidState(t *testing.T) {
	ctx := context.Background()
	deps := newGenerateUploadURLsTestDeps(t)

	upload := newUploadFixture(entity.UploadStatusUploading, entity.UploadStrategyServerProxied, 0)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)

	_, err := deps.newQuery().Execute(ctx, query.GenerateUploadURLsInput{
		UploadID:    upload.ID,
		TotalChunks: 3,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestGenerateUploadURLsQuery_Execute_NoSession_ReturnsNotInitialized(t *testing.T) {
	ctx := context.Background()
	deps := newGenerateUploadURLsTestDeps(t)

	upload := newUploadFixture(entity.UploadStatusUploading, entity.UploadStrategyClientDirect, 0)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)

	_, err := deps.newQuery().Execute(ctx, query.GenerateUploadURLsInput{
		UploadID:    upload.ID,
		TotalChunks: 3,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotInitialized(err))
}

func TestGenerateUploadURLsQuery_Execute_InvalidTotalChunks_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	deps := newGenerateUploadURLsTestDeps(t)

	upload := newUploadFixture(entity.UploadStatusUploading, entity.UploadStrategyClientDirect, 0)

	_, err := deps.newQuery().Execute(ctx, query.GenerateUploadURLsInput{
		UploadID:    upload.ID,
		TotalChunks: 0,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}
