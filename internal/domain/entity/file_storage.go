package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
)

// FileStorage は完了したアップロードの最終的な保存記録です
type FileStorage struct {
	ID         uuid.UUID
	UploadID   uuid.UUID
	ProviderID uuid.UUID
	StorageKey valueobject.StorageKey
	FileName   valueobject.FileName
	FileSize   int64
	MimeType   valueobject.MimeType
	Checksum   string
	CDNURL     string
	Metadata   map[string]string
	CreatedAt  time.Time
}

// NewFileStorage は新しいFileStorageを作成します
func NewFileStorage(
	uploadID uuid.UUID,
	providerID uuid.UUID,
	storageKey valueobject.StorageKey,
	fileName valueobject.FileName,
	fileSize int64,
	mimeType valueobject.MimeType,
	checksum string,
	cdnURL string,
	metadata map[string]string,
) *FileStorage {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return &FileStorage{
		ID:         uuid.New(),
		UploadID:   uploadID,
		ProviderID: providerID,
		StorageKey: storageKey,
		FileName:   fileName,
		FileSize:   fileSize,
		MimeType:   mimeType,
		Checksum:   checksum,
		CDNURL:     cdnURL,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}
}

// ReconstructFileStorage はDBからFileStorageを復元します
func ReconstructFileStorage(
	id uuid.UUID,
	uploadID uuid.UUID,
	providerID uuid.UUID,
	storageKey valueobject.StorageKey,
	fileName valueobject.FileName,
	fileSize int64,
	mimeType valueobject.MimeType,
	checksum string,
	cdnURL string,
	metadata map[string]string,
	createdAt time.Time,
) *FileStorage {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return &FileStorage{
		ID:         id,
		UploadID:   uploadID,
		ProviderID: providerID,
		StorageKey: storageKey,
		FileName:   fileName,
		FileSize:   fileSize,
		MimeType:   mimeType,
		Checksum:   checksum,
		CDNURL:     cdnURL,
		Metadata:   metadata,
		CreatedAt:  createdAt,
	}
}
