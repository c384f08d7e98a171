package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/query"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
	"github.com/Hiro-mackay/audio-ingest/tests/testutil/mocks"
	"github.com/google/uuid"
)

func TestListUploadsQuery_Execute_ByWorkspace(t *testing.T) {
	ctx := context.Background()
	uploadRepo := mocks.NewMockUploadRepository(t)

	uploads := []*entity.Upload{
		newUploadFixture(entity.UploadStatusCompleted, entity.UploadStrategyServerProxied, 100),
		newUploadFixture(entity.UploadStatusUploading, entity.UploadStrategyServerProxied, 30),
	}
	uploadRepo.On("FindByWorkspace", ctx, "workspace-1").Return(uploads, nil)

	q := query.NewListUploadsQuery(uploadRepo)
	output, err := q.Execute(ctx, query.ListUploadsInput{WorkspaceID: "workspace-1"})

	require.NoError(t, err)
	require.Len(t, output.Uploads, 2)
	assert.Equal(t, uploads[0].ID, output.Uploads[0].UploadID)
	assert.Equal(t, "podcast-episode.mp3", output.Uploads[0].FileName)
}

func TestListUploadsQuery_Execute_ByUser(t *testing.T) {
	ctx := context.Background()
	uploadRepo := mocks.NewMockUploadRepository(t)

	userID := uuid.New()
	uploadRepo.On("FindByUser", ctx, userID).Return([]*entity.Upload{}, nil)

	q := query.NewListUploadsQuery(uploadRepo)
	output, err := q.Execute(ctx, query.ListUploadsInput{UserID: userID})

	require.NoError(t, err)
	assert.Empty(t, output.Uploads)
}

func TestListUploadsQuery_Execute_NoScope_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	uploadRepo := mocks.NewMockUploadRepository(t)

	q := query.NewListUploadsQuery(uploadRepo)
	_, err := q.Execute(ctx, query.ListUploadsInput{})

	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}
