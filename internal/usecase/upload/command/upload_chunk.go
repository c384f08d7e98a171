package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
	"github.com/Hiro-mackay/audio-ingest/pkg/checksum"
)

// UploadChunkInput はチャンク受信の入力を定義します
type UploadChunkInput struct {
	UploadID    uuid.UUID
	ChunkIndex  int // 0始まり
	TotalChunks int
	Data        []byte
}

// UploadChunkOutput はチャンク受信の出力を定義します
type UploadChunkOutput struct {
	PartNumber     int
	ETag           string
	Size           int64
	ReceivedChunks int
	Progress       int
	Completed      bool
}

// UploadChunkCommand はコーディネーター経由のチャンク受信コマンドです
// 受信したパートをストレージへ転送し、全チャンク到着を検出した
// 呼び出しだけが確定処理を実行します。
type UploadChunkCommand struct {
	uploadRepo repository.UploadRepository
	chunkRepo  repository.ChunkRepository
	gateway    service.StorageGateway
	sessions   service.SessionTable
	progress   service.ProgressCache
	finalize   *FinalizeUploadCommand

	chunkSize int64
}

// NewUploadChunkCommand は新しいUploadChunkCommandを作成します
func NewUploadChunkCommand(
	uploadRepo repository.UploadRepository,
	chunkRepo repository.ChunkRepository,
	gateway service.StorageGateway,
	sessions service.SessionTable,
	progress service.ProgressCache,
	finalize *FinalizeUploadCommand,
	chunkSize int64,
) *UploadChunkCommand {
	return &UploadChunkCommand{
		uploadRepo: uploadRepo,
		chunkRepo:  chunkRepo,
		gateway:    gateway,
		sessions:   sessions,
		progress:   progress,
		finalize:   finalize,
		chunkSize:  chunkSize,
	}
}

// Execute はチャンク受信を実行します
func (c *UploadChunkCommand) Execute(ctx context.Context, input UploadChunkInput) (*UploadChunkOutput, error) {
	// 1. 入力バリデーション
	if input.TotalChunks <= 0 {
		return nil, apperror.NewValidationError("total chunks must be positive", nil)
	}
	if input.ChunkIndex < 0 || input.ChunkIndex >= input.TotalChunks {
		return nil, apperror.NewValidationError(
			fmt.Sprintf("chunk index %d out of range [0, %d)", input.ChunkIndex, input.TotalChunks), nil)
	}
	if len(input.Data) == 0 {
		return nil, apperror.NewValidationError("chunk data must not be empty", nil)
	}

	// 2. セッション解決
	session, upload, err := c.resolveSession(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}

	if session.IsClientDirect() {
		return nil, apperror.NewInvalidStateError("chunk payload is not accepted for client_direct uploads")
	}

	// 3. チャンク範囲の導出
	chunkRange, err := valueobject.NewChunkRange(input.ChunkIndex, c.chunkSize, int64(len(input.Data)))
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), nil)
	}

	// 4. ストレージへパート転送（partNumberは1始まり）
	partNumber := input.ChunkIndex + 1
	etag, err := c.gateway.UploadPart(ctx, session.StorageKey.String(), session.RemoteUploadID, input.Data, partNumber)
	if err != nil {
		// 転送失敗はリトライ可能。アップロード自体は失敗させない
		return nil, err
	}

	chunkChecksum := checksum.Sum(input.Data)

	// 5. チャンク記録を永続化
	chunk := entity.NewChunk(input.UploadID, input.ChunkIndex, chunkRange, session.StorageKey, chunkChecksum)
	if err := c.chunkRepo.Create(ctx, chunk); err != nil {
		return nil, err
	}

	// 6. パート記録と完了判定（アトミック）
	count, shouldFinalize := session.RecordPart(entity.CompletedPart{
		PartNumber: partNumber,
		ETag:       etag,
		Size:       int64(len(input.Data)),
		Checksum:   chunkChecksum,
	}, input.TotalChunks)

	if shouldFinalize {
		if err := c.finalize.Execute(ctx, upload, session); err != nil {
			return nil, err
		}
		return &UploadChunkOutput{
			PartNumber:     partNumber,
			ETag:           etag,
			Size:           int64(len(input.Data)),
			ReceivedChunks: count,
			Progress:       100,
			Completed:      true,
		}, nil
	}

	// 7. 進捗更新
	progressValue := count * 100 / input.TotalChunks
	if err := upload.SetProgress(progressValue); err == nil {
		if err := c.uploadRepo.Update(ctx, upload); err != nil {
			return nil, err
		}
		c.progress.SetProgress(ctx, upload.ID, upload.Progress)
	}

	return &UploadChunkOutput{
		PartNumber:     partNumber,
		ETag:           etag,
		Size:           int64(len(input.Data)),
		ReceivedChunks: count,
		Progress:       upload.Progress,
		Completed:      false,
	}, nil
}

// resolveSession はuploadIdからセッションとレコードを解決します
// セッションが存在しない場合、レコードの状態に応じてエラーを使い分けます。
func (c *UploadChunkCommand) resolveSession(ctx context.Context, uploadID uuid.UUID) (*entity.MultipartSession, *entity.Upload, error) {
	upload, err := c.uploadRepo.FindByID(ctx, uploadID)
	if err != nil {
		return nil, nil, err
	}

	if upload.IsTerminal() {
		return nil, nil, apperror.NewInvalidStateError(
			fmt.Sprintf("upload is already %s", upload.Status))
	}

	session, ok := c.sessions.Get(uploadID)
	if !ok {
		return nil, nil, apperror.NewNotInitializedError("multipart upload is not initialized")
	}

	return session, upload, nil
}
