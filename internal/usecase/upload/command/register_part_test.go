package command_test

import (
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
)

type registerPartTestDeps struct {
	uploadRepo      *mocks.MockUploadRepository
	chunkRepo       *mocks.MockChunkRepository
	fileStorageRepo *mocks.MockFileStorageRepository
	providerRepo    *mocks.MockStorageProviderRepository
	gateway         *mocks.MockStorageGateway
	sessions        *session.Table
	progress        *mocks.FakeProgressCache
	txManager       *mocks.MockTransactionManager
}

func newRegisterPartTestDeps(t *testing.T) *registerPartTestDeps {
	t.Helper()
	return &registerPartTestDeps{
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

func (d *registerPartTestDeps) newCommand() *command.RegisterPartCommand {
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
	return command.NewRegisterPartCommand(
		d.uploadRepo,
		d.chunkRepo,
		d.sessions,
		d.progress,
		finalize,
		testChunkSize,
	)
}

func TestRegisterPartCommand_Execute_RecordsPartAndProgress(t *testing.T) {
	ctx := context.Background()
	deps := newRegisterPartTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyClientDirect)
	sess := newTestSession(upload, entity.UploadStrategyClientDirect)
	deps.sessions.Register(sess)

	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.chunkRepo.On("Create", ctx, mock.AnythingOfType("*entity.Chunk")).Return(nil)
	deps.uploadRepo.On("Update", ctx, upload).Return(nil)

	output, err := deps.newCommand().Execute(ctx, command.RegisterPartInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 2,
		Size:        10 * 1024 * 1024,
		ETag:        `"etag-1"`,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.PartNumber)
	assert.Equal(t, "etag-1", output.ETag)
	assert.Equal(t, int64(10*1024*1024), output.Size)
	assert.Equal(t, 1, output.ReceivedChunks)
	assert.Equal(t, 50, output.Progress)
	assert.False(t, output.Completed)
}

func TestRegisterPartCommand_Execute_LastPart_Finalizes(t *testing.T) {
	ctx := context.Background()
	deps := newRegisterPartTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyClientDirect)
	sess := newTestSession(upload, entity.UploadStrategyClientDirect)
	sess.RecordPart(entity.CompletedPart{PartNumber: 1, ETag: "etag-1", Size: 10 * 1024 * 1024}, 2)
	deps.sessions.Register(sess)

	storageURL := "https://storage.example.com/bucket/key"
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)
	deps.chunkRepo.On("Create", ctx, mock.AnythingOfType("*entity.Chunk")).Return(nil)
	deps.gateway.On("CompleteMultipartUpload", ctx, sess.StorageKey.String(), sess.RemoteUploadID,
		mock.AnythingOfType("[]entity.CompletedPart")).Return(nil)
	deps.gateway.On("GetFileURL", ctx, sess.StorageKey.String()).Return(storageURL, nil)
	deps.gateway.On("GetCDNURL", sess.StorageKey.String()).Return("")
	deps.uploadRepo.On("Update", ctx, upload).Return(nil)
	deps.providerRepo.On("FindByName", ctx, testProviderName).Return(newTestProvider(), nil)
	deps.fileStorageRepo.On("Create", ctx, mock.AnythingOfType("*entity.FileStorage")).Return(nil)

	output, err := deps.newCommand().Execute(ctx, command.RegisterPartInput{
		UploadID:    upload.ID,
		ChunkIndex:  1,
		TotalChunks: 2,
		Size:        5 * 1024 * 1024,
		ETag:        "etag-2",
	})

	require.NoError(t, err)
	assert.True(t, output.Completed)
	assert.Equal(t, 100, output.Progress)
	assert.Equal(t, entity.UploadStatusCompleted, upload.Status)

	_, ok := deps.sessions.Get(upload.ID)
	assert.False(t, ok)
}

func TestRegisterPartCommand_Execute_ServerProxiedSession_ReturnsInvalidState(t *testing.T) {
	ctx := context.Background()
	deps := newRegisterPartTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyServerProxied)
	sess := newTestSession(upload, entity.UploadStrategyServerProxied)
	deps.sessions.Register(sess)

	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)

	_, err := deps.newCommand().Execute(ctx, command.RegisterPartInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 2,
		Size:        1024,
		ETag:        "etag-1",
	})

	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestRegisterPartCommand_Execute_NoSession_ReturnsNotInitialized(t *testing.T) {
	ctx := context.Background()
	deps := newRegisterPartTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyClientDirect)
	deps.uploadRepo.On("FindByID", ctx, upload.ID).Return(upload, nil)

	_, err := deps.newCommand().Execute(ctx, command.RegisterPartInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 2,
		Size:        1024,
		ETag:        "etag-1",
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotInitialized(err))
}

func TestRegisterPartCommand_Execute_EmptyETag_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	deps := newRegisterPartTestDeps(t)

	upload := newUploadingUpload(250*1024*1024, entity.UploadStrategyClientDirect)

	_, err := deps.newCommand().Execute(ctx, command.RegisterPartInput{
		UploadID:    upload.ID,
		ChunkIndex:  0,
		TotalChunks: 2,
		Size:        1024,
		ETag:        `""`,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}
