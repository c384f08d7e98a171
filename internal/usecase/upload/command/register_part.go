package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// RegisterPartInput はクライアント直接アップロードのパート報告の入力を定義します
type RegisterPartInput struct {
	UploadID    uuid.UUID
	ChunkIndex  int // 0始まり
	TotalChunks int
	Size        int64
	ETag        string // ストレージが返したETag
}

// RegisterPartOutput はパート報告の出力を定義します
type RegisterPartOutput struct {
	PartNumber     int
	ETag           string
	Size           int64
	ReceivedChunks int
	Progress       int
	Completed      bool
}

// RegisterPartCommand はclient_direct方式のパート完了報告コマンドです
// クライアントはPresigned URLで直接ストレージへパートを送信し、
// 得たETagをこのコマンドで報告します。全パートの報告が揃った
// 呼び出しが確定処理を実行します。
type RegisterPartCommand struct {
	uploadRepo repository.UploadRepository
	chunkRepo  repository.ChunkRepository
	sessions   service.SessionTable
	progress   service.ProgressCache
	finalize   *FinalizeUploadCommand

	chunkSize int64
}

// NewRegisterPartCommand は新しいRegisterPartCommandを作成します
func NewRegisterPartCommand(
	uploadRepo repository.UploadRepository,
	chunkRepo repository.ChunkRepository,
	sessions service.SessionTable,
	progress service.ProgressCache,
	finalize *FinalizeUploadCommand,
	chunkSize int64,
) *RegisterPartCommand {
	return &RegisterPartCommand{
		uploadRepo: uploadRepo,
		chunkRepo:  chunkRepo,
		sessions:   sessions,
		progress:   progress,
		finalize:   finalize,
		chunkSize:  chunkSize,
	}
}

// Execute はパート報告を実行します
func (c *RegisterPartCommand) Execute(ctx context.Context, input RegisterPartInput) (*RegisterPartOutput, error) {
	// 1. 入力バリデーション
	if input.TotalChunks <= 0 {
		return nil, apperror.NewValidationError("total chunks must be positive", nil)
	}
	if input.ChunkIndex < 0 || input.ChunkIndex >= input.TotalChunks {
		return nil, apperror.NewValidationError(
			fmt.Sprintf("chunk index %d out of range [0, %d)", input.ChunkIndex, input.TotalChunks), nil)
	}
	if input.Size <= 0 {
		return nil, apperror.NewValidationError("part size must be positive", nil)
	}
	etag := strings.Trim(input.ETag, `"`)
	if etag == "" {
		return nil, apperror.NewValidationError("etag is required", nil)
	}

	// 2. セッション解決
	upload, err := c.uploadRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}
	if upload.IsTerminal() {
		return nil, apperror.NewInvalidStateError(fmt.Sprintf("upload is already %s", upload.Status))
	}

	session, ok := c.sessions.Get(input.UploadID)
	if !ok {
		return nil, apperror.NewNotInitializedError("multipart upload is not initialized")
	}
	if !session.IsClientDirect() {
		return nil, apperror.NewInvalidStateError("part registration is only accepted for client_direct uploads")
	}

	// 3. チャンク記録を永続化
	chunkRange, err := valueobject.NewChunkRange(input.ChunkIndex, c.chunkSize, input.Size)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), nil)
	}

	chunk := entity.NewChunk(input.UploadID, input.ChunkIndex, chunkRange, session.StorageKey, etag)
	if err := c.chunkRepo.Create(ctx, chunk); err != nil {
		return nil, err
	}

	// 4. パート記録と完了判定（アトミック）
	partNumber := input.ChunkIndex + 1
	count, shouldFinalize := session.RecordPart(entity.CompletedPart{
		PartNumber: partNumber,
		ETag:       etag,
		Size:       input.Size,
	}, input.TotalChunks)

	if shouldFinalize {
		if err := c.finalize.Execute(ctx, upload, session); err != nil {
			return nil, err
		}
		return &RegisterPartOutput{
			PartNumber:     partNumber,
			ETag:           etag,
			Size:           input.Size,
			ReceivedChunks: count,
			Progress:       100,
			Completed:      true,
		}, nil
	}

	// 5. 進捗更新
	progressValue := count * 100 / input.TotalChunks
	if err := upload.SetProgress(progressValue); err == nil {
		if err := c.uploadRepo.Update(ctx, upload); err != nil {
			return nil, err
		}
		c.progress.SetProgress(ctx, upload.ID, upload.Progress)
	}

	return &RegisterPartOutput{
		PartNumber:     partNumber,
		ETag:           etag,
		Size:           input.Size,
		ReceivedChunks: count,
		Progress:       upload.Progress,
		Completed:      false,
	}, nil
}
