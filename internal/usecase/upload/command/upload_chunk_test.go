package command_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/session"
	"github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/command"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
	"github.com/Hiro-mackay/audio-ingest/tests/testutil/mocks"
	"github.com/google/uuid"
)

type uploadChunkTestDeps struct {
	uploadRepo      *mocks.MockUploadRepository
	chunkRepo       *mocks.MockChunkRepository
	fileStorageRepo *mocks.MockFileStorageRepository
	providerRepo    *mocks.MockStorageProviderRepository
	gateway         *mocks.MockStorageGateway
	sessions        *session.Table
	progress        *mocks.FakeProgressCache
	txManager       *mocks.MockTransactionManager
}

func newUploadChunkTestDeps(t *testing.T) *uploadChunkTestDeps {
	t.Helper()
	return &uploadChunkTestDeps{
		uploadRepo:      mocks.NewMockUploadRepository(t),
		chunkRepo:       mocks.NewMockChunkRepository(t),
		fileStorageRepo: mocks.NewMockFileStorageRepository(t),
		providerRepo:    mocks.NewMockStorageProviderRepository(t),
		gateway:         mocks.NewMockStorageGateway(t),
		sessions:        session.NewTable(),
		progress:        mocks.NewFakeProgressCache(),
		txManager:       mocks.NewMockTransactionManager(t),
	}
}

func (d *uploadChunkTestDeps) newCommand() *command.UploadChunkCommand {
	finalize := command.NewFinalizeUploadCommand(
		d.uploadRepo,
		d.fileStorageRepo,
		d.providerRepo,
		d.gateway,
		d.sessions,
		d.progress,
		d.txManager,
		testProviderName,
	)
	return command.NewUploadChunkCommand(
		d.uploadRepo,
		d.chunkRepo,
		d.gateway,
		d.sessions,
		d.progress,
		finalize,
		testChunkSize,
	)
}

func TestUploadChunkCommand_Execute_MiddleChunk_UpdatesProgress(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyServerProxied)
	sess := newTestSession(upload, entity.UploadStrategyServerProxied)
	deps.sessions.Register(sess)

	data := bytes.Repeat([]byte("a"), 1024)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.gateway.On("UploadPart", ctx, sess.StorageKey.String(), sess.RemoteUploadID, data, 1).
		Return("etag-1", nil)
	deps.chunkRepo.On("Create", ctx, mock.AnythingOfType("*entity.Chunk")).Return(nil)
	deps.uploadRepo.On("Update", ctx, upload).Return(nil)

	output, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 4,
		Data:        data,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.ReceivedChunks)
	assert.Equal(t, 25, output.Progress)
	assert.False(t, output.Completed)

	cached, ok := deps.progress.GetProgress(ctx, upload.ID)
	require.True(t, ok)
	assert.Equal(t, 25, cached)
}

func TestUploadChunkCommand_Execute_ReturnsPartNumberAndETag(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyServerProxied)
	sess := newTestSession(upload, entity.UploadStrategyServerProxied)
	deps.sessions.Register(sess)

	data := []byte("chunk-data")
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.uploadRepo.On("Update", ctx, upload).Return(nil)
	deps.gateway.On("UploadPart", ctx, sess.StorageKey.String(), sess.RemoteUploadID, data, 3).
		Return("etag-3", nil)
	deps.chunkRepo.On("Create", ctx, mock.AnythingOfType("*entity.Chunk")).Return(nil)

	output, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    upload.ID,
		ChunkIndex:  2,
		TotalChunks: 4,
		Data:        data,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, output.PartNumber)
	assert.Equal(t, "etag-3", output.ETag)
	assert.Equal(t, int64(len(data)), output.Size)
}

func TestUploadChunkCommand_Execute_LastChunk_Finalizes(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyServerProxied)
	sess := newTestSession(upload, entity.UploadStrategyServerProxied)
	sess.RecordPart(entity.CompletedPart{PartNumber: 1, ETag: "etag-1", Size: 1024, Checksum: "aa"}, 2)
	deps.sessions.Register(sess)

	data := []byte("final-chunk")
	storageURL := "https://storage.example.com/bucket/key"
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.gateway.On("UploadPart", ctx, sess.StorageKey.String(), sess.RemoteUploadID, data, 2).
		Return("etag-2", nil)
	deps.chunkRepo.On("Create", ctx, mock.AnythingOfType("*entity.Chunk")).Return(nil)
	deps.gateway.On("CompleteMultipartUpload", ctx, sess.StorageKey.String(), sess.RemoteUploadID,
		mock.AnythingOfType("[]entity.CompletedPart")).Return(nil)
	deps.gateway.On("GetFileURL", ctx, sess.StorageKey.String()).Return(storageURL, nil)
	deps.gateway.On("GetCDNURL", sess.StorageKey.String()).Return("")
	deps.uploadRepo.On("Update", ctx, upload).Return(nil)
	deps.providerRepo.On("FindByName", ctx, testProviderName).Return(newTestProvider(), nil)
	deps.fileStorageRepo.On("Create", ctx, mock.AnythingOfType("*entity.FileStorage")).Return(nil)

	output, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    upload.ID,
		ChunkIndex:  1,
		TotalChunks: 2,
		Data:        data,
	})

	require.NoError(t, err)
	assert.True(t, output.Completed)
	assert.Equal(t, 100, output.Progress)
	assert.Equal(t, entity.UploadStatusCompleted, upload.Status)
	assert.Equal(t, storageURL, upload.StorageURL)

	// セッションは確定後に破棄される
	_, ok := deps.sessions.Get(upload.ID)
	assert.False(t, ok)

	cached, ok := deps.progress.GetProgress(ctx, upload.ID)
	require.True(t, ok)
	assert.Equal(t, 100, cached)
}

func TestUploadChunkCommand_Execute_ResentChunk_DoesNotDoubleCount(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyServerProxied)
	sess := newTestSession(upload, entity.UploadStrategyServerProxied)
	sess.RecordPart(entity.CompletedPart{PartNumber: 1, ETag: "etag-old", Size: 1024, Checksum: "aa"}, 4)
	deps.sessions.Register(sess)

	data := []byte("chunk-data")
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.gateway.On("UploadPart", ctx, sess.StorageKey.String(), sess.RemoteUploadID, data, 1).
		Return("etag-new", nil)
	deps.chunkRepo.On("Create", ctx, mock.AnythingOfType("*entity.Chunk")).Return(nil)
	deps.uploadRepo.On("Update", ctx, upload).Return(nil)

	output, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 4,
		Data:        data,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.ReceivedChunks)
	assert.False(t, output.Completed)
}

func TestUploadChunkCommand_Execute_UnknownUpload_ReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	uploadID := uuid.New()
	deps.uploadRepo.On("FindByID", ctx, uploadID).
		Return(nil, apperror.NewNotFoundError("upload"))

	_, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    uploadID,
		ChunkIndex:  0,
		TotalChunks: 4,
		Data:        []byte("x"),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUploadChunkCommand_Execute_NoSession_ReturnsNotInitialized(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyServerProxied)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)

	_, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 4,
		Data:        []byte("x"),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotInitialized(err))
}

func TestUploadChunkCommand_Execute_TerminalUpload_ReturnsInvalidState(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	upload := newCompletedUpload()
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)

	_, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 4,
		Data:        []byte("x"),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestUploadChunkCommand_Execute_ClientDirectSession_ReturnsInvalidState(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyClientDirect)
	sess := newTestSession(upload, entity.UploadStrategyClientDirect)
	deps.sessions.Register(sess)

	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)

	_, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 4,
		Data:        []byte("x"),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestUploadChunkCommand_Execute_ChunkIndexOutOfRange_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	_, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    uuid.New(),
		ChunkIndex:  4,
		TotalChunks: 4,
		Data:        []byte("x"),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestUploadChunkCommand_Execute_StorageFinalizeFails_MarksUploadFailed(t *testing.T) {
	ctx := context.Background()
	deps := newUploadChunkTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyServerProxied)
	sess := newTestSession(upload, entity.UploadStrategyServerProxied)
	deps.sessions.Register(sess)

	data := []byte("only-chunk")
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.gateway.On("UploadPart", ctx, sess.StorageKey.String(), sess.RemoteUploadID, data, 1).
		Return("etag-1", nil)
	deps.chunkRepo.On("Create", ctx, mock.AnythingOfType("*entity.Chunk")).Return(nil)
	deps.gateway.On("CompleteMultipartUpload", ctx, sess.StorageKey.String(), sess.RemoteUploadID,
		mock.AnythingOfType("[]entity.CompletedPart")).
		Return(apperror.NewStorageError("complete failed", nil))
	deps.gateway.On("AbortMultipartUpload", ctx, sess.StorageKey.String(), sess.RemoteUploadID).Return(nil)
	deps.uploadRepo.On("Update", ctx, upload).Return(nil)

	_, err := deps.newCommand().Execute(ctx, command.UploadChunkInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 1,
		Data:        data,
	})

	require.Error(t, err)
	assert.Equal(t, entity.UploadStatusFailed, upload.Status)

	_, ok := deps.sessions.Get(upload.ID)
	assert.False(t, ok)
}
