package query

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// GetUploadStatusInput はステータス取得の入力を定義します
type GetUploadStatusInput struct {
	UploadID uuid.UUID
}

// ChunkDetail は受信済みチャンクの概要を表します
type ChunkDetail struct {
	ChunkIndex int
	RangeStart int64
	RangeEnd   int64
	Size       int64
	UploadedAt time.Time
}

// GetUploadStatusOutput はステータス取得の出力を定義します
type GetUploadStatusOutput struct {
	UploadID       uuid.UUID
	FileName       string
	FileSize       int64
	MimeType       string
	Strategy       string
	Status         string
	Progress       int
	ReceivedChunks int
	Chunks         []ChunkDetail
	StorageURL     string
	CDNURL         string
	Checksum       string
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GetUploadStatusQuery はアップロードステータス取得クエリです
// uploading中の進捗はキャッシュを優先して返し、ポーリングの
// 読み取り負荷をDBから逃がします。
type GetUploadStatusQuery struct {
	uploadRepo      repository.UploadRepository
	chunkRepo       repository.ChunkRepository
	fileStorageRepo repository.FileStorageRepository
	progress        service.ProgressCache
}

// NewGetUploadStatusQuery は新しいGetUploadStatusQueryを作成します
func NewGetUploadStatusQuery(
	uploadRepo repository.UploadRepository,
	chunkRepo repository.ChunkRepository,
	fileStorageRepo repository.FileStorageRepository,
	progress service.ProgressCache,
) *GetUploadStatusQuery {
	return &GetUploadStatusQuery{
		uploadRepo:      uploadRepo,
		chunkRepo:       chunkRepo,
		fileStorageRepo: fileStorageRepo,
		progress:        progress,
	}
}

// Execute はステータス取得を実行します
func (q *GetUploadStatusQuery) Execute(ctx context.Context, input GetUploadStatusInput) (*GetUploadStatusOutput, error) {
	upload, err := q.uploadRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}

	progress := upload.Progress
	if upload.Status == entity.UploadStatusUploading {
		if cached, ok := q.progress.GetProgress(ctx, upload.ID); ok && cached > progress {
			progress = cached
		}
	}

	chunks, err := q.chunkRepo.FindByUploadID(ctx, upload.ID)
	if err != nil {
		return nil, err
	}
	details := make([]ChunkDetail, 0, len(chunks))
	for _, c := range chunks {
		details = append(details, ChunkDetail{
			ChunkIndex: c.ChunkIndex,
			RangeStart: c.Range.Start(),
			RangeEnd:   c.Range.End(),
			Size:       c.Size,
			UploadedAt: c.UploadedAt,
		})
	}

	// 完了済みの場合は保存記録のチェックサムを含める
	var aggregateChecksum string
	if upload.IsCompleted() {
		fileStorage, err := q.fileStorageRepo.FindByUploadID(ctx, upload.ID)
		switch {
		case err == nil:
			aggregateChecksum = fileStorage.Checksum
		case apperror.IsNotFound(err):
			// 保存記録が無くてもステータス自体は返す
		default:
			return nil, err
		}
	}

	return &GetUploadStatusOutput{
		UploadID:       upload.ID,
		FileName:       upload.OriginalFileName.String(),
		FileSize:       upload.FileSize,
		MimeType:       upload.MimeType.String(),
		Strategy:       string(upload.Strategy),
		Status:         string(upload.Status),
		Progress:       progress,
		ReceivedChunks: len(details),
		Chunks:         details,
		StorageURL:     upload.StorageURL,
		CDNURL:         upload.CDNURL,
		Checksum:       aggregateChecksum,
		FailureReason:  upload.FailureReason,
		CreatedAt:      upload.CreatedAt,
		UpdatedAt:      upload.UpdatedAt,
	}, nil
}
