package command_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
)

const (
	testMultipartThreshold = int64(100 * 1024 * 1024)
	testChunkSize          = int64(10 * 1024 * 1024)
	testProviderName       = "minio"
)

func newPendingUpload(fileSize int64, strategy entity.UploadStrategy) *entity.Upload {
	fileName, _ := valueobject.NewFileName("podcast-episode.mp3")
	mimeType, _ := valueobject.NewMimeType("audio/mpeg")
	return entity.NewUpload(
		uuid.New(), "workspace-1", fileName, fileSize, mimeType, testProviderName, strategy,
	)
}

func newUploadingUpload(fileSize int64, strategy entity.UploadStrategy) *entity.Upload {
	upload := newPendingUpload(fileSize, strategy)
	key := valueobject.NewStorageKey(upload.WorkspaceID, upload.UserID, upload.OriginalFileName)
	_ = upload.Start(key)
	return upload
}

func newCompletedUpload() *entity.Upload {
	fileName, _ := valueobject.NewFileName("podcast-episode.mp3")
	mimeType, _ := valueobject.NewMimeType("audio/mpeg")
	userID := uuid.New()
	key := valueobject.NewStorageKey("workspace-1", userID, fileName)
	return entity.ReconstructUpload(
		uuid.New(), userID, "workspace-1",
		fileName, 1024, mimeType, key,
		testProviderName, entity.UploadStrategyServerProxied,
		entity.UploadStatusCompleted, 100,
		"https://storage.example.com/bucket/key", "", "",
		nil, time.Now(), time.Now(),
	)
}

func newTestSession(upload *entity.Upload, strategy entity.UploadStrategy) *entity.MultipartSession {
	key := valueobject.NewStorageKey(upload.WorkspaceID, upload.UserID, upload.OriginalFileName)
	return entity.NewMultipartSession(upload.ID, "remote-upload-id", key, strategy)
}

func newTestProvider() *entity.StorageProvider {
	return entity.NewStorageProvider(
		testProviderName,
		entity.StorageProviderTypeMinIO,
		"localhost:9000", "us-east-1", "audio-ingest", "",
	)
}
