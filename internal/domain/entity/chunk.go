package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
)

// Chunk はマルチパートアップロードの1チャンク分の永続記録です
type Chunk struct {
	ID         uuid.UUID
	UploadID   uuid.UUID
	ChunkIndex int
	Range      valueobject.ChunkRange
	Size       int64
	StorageKey string // パート単位の記録用キー
	Checksum   string
	UploadedAt time.Time
}

// NewChunk は新しいChunkを作成します
func NewChunk(
	uploadID uuid.UUID,
	chunkIndex int,
	chunkRange valueobject.ChunkRange,
	objectKey valueobject.StorageKey,
	checksum string,
) *Chunk {
	return &Chunk{
		ID:         uuid.New(),
		UploadID:   uploadID,
		ChunkIndex: chunkIndex,
		Range:      chunkRange,
		Size:       chunkRange.Length(),
		StorageKey: PartStorageKey(objectKey, chunkIndex+1),
		Checksum:   checksum,
		UploadedAt: time.Now(),
	}
}

// ReconstructChunk はDBからChunkを復元します
func ReconstructChunk(
	id uuid.UUID,
	uploadID uuid.UUID,
	chunkIndex int,
	chunkRange valueobject.ChunkRange,
	size int64,
	storageKey string,
	checksum string,
	uploadedAt time.Time,
) *Chunk {
	return &Chunk{
		ID:         id,
		UploadID:   uploadID,
		ChunkIndex: chunkIndex,
		Range:      chunkRange,
		Size:       size,
		StorageKey: storageKey,
		Checksum:   checksum,
		UploadedAt: uploadedAt,
	}
}

// PartStorageKey はパート単位の記録用キーを返します
func PartStorageKey(objectKey valueobject.StorageKey, partNumber int) string {
	return fmt.Sprintf("%s/part/%d", objectKey, partNumber)
}
