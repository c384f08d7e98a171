package query

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// ListUploadsInput はアップロード一覧取得の入力を定義します
// WorkspaceIDとUserIDのどちらか一方を指定します。
type ListUploadsInput struct {
	WorkspaceID string
	UserID      uuid.UUID
}

// UploadSummary は一覧用のアップロード概要を表します
type UploadSummary struct {
	UploadID  uuid.UUID
	FileName  string
	FileSize  int64
	Status    string
	Progress  int
	CreatedAt time.Time
}

// ListUploadsOutput はアップロード一覧取得の出力を定義します
type ListUploadsOutput struct {
	Uploads []UploadSummary
}

// ListUploadsQuery はアップロード一覧取得クエリです
type ListUploadsQuery struct {
	uploadRepo repository.UploadRepository
}

// NewListUploadsQuery は新しいListUploadsQueryを作成します
func NewListUploadsQuery(uploadRepo repository.UploadRepository) *ListUploadsQuery {
	return &ListUploadsQuery{uploadRepo: uploadRepo}
}

// Execute はアップロード一覧取得を実行します
func (q *ListUploadsQuery) Execute(ctx context.Context, input ListUploadsInput) (*ListUploadsOutput, error) {
	var (
		uploads []*entity.Upload
		err     error
	)

	switch {
	case input.WorkspaceID != "":
		uploads, err = q.uploadRepo.FindByWorkspace(ctx, input.WorkspaceID)
	case input.UserID != uuid.Nil:
		uploads, err = q.uploadRepo.FindByUser(ctx, input.UserID)
	default:
		return nil, apperror.NewValidationError("workspace id or user id is required", nil)
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]UploadSummary, 0, len(uploads))
	for _, u := range uploads {
		summaries = append(summaries, UploadSummary{
			UploadID:  u.ID,
			FileName:  u.OriginalFileName.String(),
			FileSize:  u.FileSize,
			Status:    string(u.Status),
			Progress:  u.Progress,
			CreatedAt: u.CreatedAt,
		})
	}

	return &ListUploadsOutput{Uploads: summaries}, nil
}
