package query_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
)

func newUploadFixture(status entity.UploadStatus, strategy entity.UploadStrategy, progress int) *entity.Upload {
	fileName, _ := valueobject.NewFileName("podcast-episode.mp3")
	mimeType, _ := valueobject.NewMimeType("audio/mpeg")
	userID := uuid.New()
	key := valueobject.NewStorageKey("workspace-1", userID, fileName)
	return entity.ReconstructUpload(
		uuid.New(), userID, "workspace-1",
		fileName, 250*1024*1024, mimeType, key,
		"minio", strategy,
		status, progress,
		"", "", "",
		nil, time.Now(), time.Now(),
	)
}
