package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// GenerateUploadURLsInput はPresigned URL生成の入力を定義します
type GenerateUploadURLsInput struct {
	UploadID    uuid.UUID
	TotalChunks int
}

// UploadURL はパートアップロード用URLを表します
type UploadURL struct {
	PartNumber int
	URL        string
	ExpiresAt  time.Time
}

// GenerateUploadURLsOutput はPresigned URL生成の出力を定義します
type GenerateUploadURLsOutput struct {
	UploadID   uuid.UUID
	UploadURLs []UploadURL
	ExpiresAt  time.Time
}

// GenerateUploadURLsQuery はclient_direct方式のパートURL一括生成クエリです
// 生成されたURLに対するPUTはストレージへ直接届き、コーディネーターは
// パート本体を経由しません。
type GenerateUploadURLsQuery struct {
	uploadRepo repository.UploadRepository
	gateway    service.StorageGateway
	sessions   service.SessionTable

	presignExpiry time.Duration
}

// NewGenerateUploadURLsQuery は新しいGenerateUploadURLsQueryを作成します
func NewGenerateUploadURLsQuery(
	uploadRepo repository.UploadRepository,
	gateway service.StorageGateway,
	sessions service.SessionTable,
	presignExpiry time.Duration,
) *GenerateUploadURLsQuery {
	return &GenerateUploadURLsQuery{
		uploadRepo:    uploadRepo,
		gateway:       gateway,
		sessions:      sessions,
		presignExpiry: presignExpiry,
	}
}

// Execute はPresigned URL生成を実行します
func (q *GenerateUploadURLsQuery) Execute(ctx context.Context, input GenerateUploadURLsInput) (*GenerateUploadURLsOutput, error) {
	if input.TotalChunks <= 0 {
		return nil, apperror.NewValidationError("total chunks must be positive", nil)
	}

	upload, err := q.uploadRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}
	if upload.IsTerminal() {
		return nil, apperror.NewInvalidStateError(fmt.Sprintf("upload is already %s", upload.Status))
	}
	if !upload.IsClientDirect() {
		return nil, apperror.NewInvalidStateError("presigned URLs are only issued for client_direct uploads")
	}

	session, ok := q.sessions.Get(input.UploadID)
	if !ok {
		return nil, apperror.NewNotInitializedError("multipart upload is not initialized")
	}

	urls := make([]UploadURL, 0, input.TotalChunks)
	for partNumber := 1; partNumber <= input.TotalChunks; partNumber++ {
		presigned, err := q.gateway.GeneratePresignedPartURL(
			ctx, session.StorageKey.String(), session.RemoteUploadID, partNumber, q.presignExpiry)
		if err != nil {
			return nil, err
		}
		urls = append(urls, UploadURL{
			PartNumber: presigned.PartNumber,
			URL:        presigned.URL,
			ExpiresAt:  presigned.ExpiresAt,
		})
	}

	return &GenerateUploadURLsOutput{
		UploadID:   upload.ID,
		UploadURLs: urls,
		ExpiresAt:  time.Now().Add(q.presignExpiry),
	}, nil
}
