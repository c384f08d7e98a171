package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
	"github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/query"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
	"github.com/Hiro-mackay/audio-ingest/tests/testutil/mocks"
	"github.com/google/uuid"
)

type getUploadStatusTestDeps struct {
	uploadRepo      *mocks.MockUploadRepository
	chunkRepo       *mocks.MockChunkRepository
	fileStorageRepo *mocks.MockFileStorageRepository
	progress        *mocks.FakeProgressCache
}

func newGetUploadStatusTestDeps(t *testing.T) *getUploadStatusTestDeps {
	t.Helper()
	return &getUploadStatusTestDeps{
		uploadRepo:      mocks.NewMockUploadRepository(t),
		chunkRepo:       mocks.NewMockChunkRepository(t),
		fileStorageRepo: mocks.NewMockFileStorageRepository(t),
		progress:        mocks.NewFakeProgressCache(),
	}
}

func (d *getUploadStatusTestDeps) newQuery() *query.GetUploadStatusQuery {
	return query.NewGetUploadStatusQuery(d.uploadRepo, d.chunkRepo, d.fileStorageRepo, d.progress)
}

func newChunkFixture(uploadID uuid.UUID, chunkIndex int, size int64) *entity.Chunk {
	start := int64(chunkIndex) * 10 * 1024 * 1024
	return entity.ReconstructChunk(
		uuid.New(), uploadID, chunkIndex,
		valueobject.ReconstructChunkRange(start, start+size-1),
		size, "key/part/1", "digest", time.Now(),
	)
}

func TestGetUploadStatusQuery_Execute_ReturnsUploadState(t *testing.T) {
	ctx := context.Background()
	deps := newGetUploadStatusTestDeps(t)

	upload := newUploadFixture(entity.UploadStatusUploading, entity.UploadStrategyServerProxied, 40)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.chunkRepo.On("FindByUploadID", ctx, upload.ID).Return([]*entity.Chunk{
		newChunkFixture(upload.ID, 0, 10*1024*1024),
		newChunkFixture(upload.ID, 1, 10*1024*1024),
	}, nil)

	output, err := deps.newQuery().Execute(ctx, query.GetUploadStatusInput{UploadID: upload.ID})

	require.NoError(t, err)
	assert.Equal(t, upload.ID, output.UploadID)
	assert.Equal(t, "podcast-episode.mp3", output.FileName)
	assert.Equal(t, string(entity.UploadStatusUploading), output.Status)
	assert.Equal(t, 40, output.Progress)
	assert.Equal(t, 2, output.ReceivedChunks)
	require.Len(t, output.Chunks, 2)
	assert.Equal(t, int64(0), output.Chunks[0].RangeStart)
	assert.Equal(t, int64(10*1024*1024-1), output.Chunks[0].RangeEnd)
}

func TestGetUploadStatusQuery_Execute_PrefersFresherCachedProgress(t *testing.T) {
	ctx := context.Background()
	deps := newGetUploadStatusTestDeps(t)

	upload := newUploadFixture(entity.UploadStatusUploading, entity.UploadStrategyServerProxied, 40)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.chunkRepo.On("FindByUploadID", ctx, upload.ID).Return([]*entity.Chunk{}, nil)
	deps.progress.SetProgress(ctx, upload.ID, 70)

	output, err := deps.newQuery().Execute(ctx, query.GetUploadStatusInput{UploadID: upload.ID})

	require.NoError(t, err)
	assert.Equal(t, 70, output.Progress)
}

func TestGetUploadStatusQuery_Execute_StaleCacheDoesNotLowerProgress(t *testing.T) {
	ctx := context.Background()
	deps := newGetUploadStatusTestDeps(t)

	upload := newUploadFixture(entity.UploadStatusUploading, entity.UploadStrategyServerProxied, 60)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.chunkRepo.On("FindByUploadID", ctx, upload.ID).Return([]*entity.Chunk{}, nil)
	deps.progress.SetProgress(ctx, upload.ID, 30)

	output, err := deps.newQuery().Execute(ctx, query.GetUploadStatusInput{UploadID: upload.ID})

	require.NoError(t, err)
	assert.Equal(t, 60, output.Progress)
}

func TestGetUploadStatusQuery_Execute_CompletedUpload_IncludesChecksum(t *testing.T) {
	ctx := context.Background()
	deps := newGetUploadStatusTestDeps(t)

	upload := newUploadFixture(entity.UploadStatusCompleted, entity.UploadStrategyServerProxied, 100)
	fileStorage := entity.ReconstructFileStorage(
		uuid.New(), upload.ID, uuid.New(),
		upload.StorageKey, upload.OriginalFileName, upload.FileSize, upload.MimeType,
		"abc123-2", "", nil, time.Now(),
	)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.chunkRepo.On("FindByUploadID", ctx, upload.ID).Return([]*entity.Chunk{}, nil)
	deps.fileStorageRepo.On("FindByUploadID", ctx, upload.ID).Return(fileStorage, nil)
	deps.progress.SetProgress(ctx, upload.ID, 90)

	output, err := deps.newQuery().Execute(ctx, query.GetUploadStatusInput{UploadID: upload.ID})

	require.NoError(t, err)
	assert.Equal(t, "abc123-2", output.Checksum)
	// 終端状態ではキャッシュ進捗を参照しない
	assert.Equal(t, 100, output.Progress)
}

func TestGetUploadStatusQuery_Execute_UnknownUpload_ReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	deps := newGetUploadStatusTestDeps(t)

	uploadID := uuid.New()
	deps.uploadRepo.On("FindByID", ctx, uploadID).Return(nil, apperror.NewNotFoundError("upload"))

	_, err := deps.newQuery().Execute(ctx, query.GetUploadStatusInput{UploadID: uploadID})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
