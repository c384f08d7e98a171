package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

const (
	// キャンセル時に記録される失敗理由
	cancelReason = "cancelled"
	// キャンセル時刻を記録するメタデータキー
	cancelledAtMetadataKey = "cancelled_at"
)

// CancelUploadInput はアップロードキャンセルの入力を定義します
type CancelUploadInput struct {
	UploadID uuid.UUID
}

// CancelUploadOutput はアップロードキャンセルの出力を定義します
type CancelUploadOutput struct {
	UploadID uuid.UUID
	Status   string
}

// CancelUploadCommand はアップロードキャンセルコマンドです
// レコードはfailedへ遷移し、マルチパートの場合はストレージ側の
// セッションも中断されます。終端状態のアップロードはキャンセルできません。
type CancelUploadCommand struct {
	uploadRepo repository.UploadRepository
	gateway    service.StorageGateway
	sessions   service.SessionTable
	progress   service.ProgressCache
	txManager  repository.TransactionManager
}

// NewCancelUploadCommand は新しいCancelUploadCommandを作成します
func NewCancelUploadCommand(
	uploadRepo repository.UploadRepository,
	gateway service.StorageGateway,
	sessions service.SessionTable,
	progress service.ProgressCache,
	txManager repository.TransactionManager,
) *CancelUploadCommand {
	return &CancelUploadCommand{
		uploadRepo: uploadRepo,
		gateway:    gateway,
		sessions:   sessions,
		progress:   progress,
		txManager:  txManager,
	}
}

// Execute はアップロードキャンセルを実行します
func (c *CancelUploadCommand) Execute(ctx context.Context, input CancelUploadInput) (*CancelUploadOutput, error) {
	// 1. レコード取得と状態チェック
	upload, err := c.uploadRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}

	if upload.IsTerminal() {
		return nil, apperror.NewInvalidStateError(
			fmt.Sprintf("cannot cancel an upload that is already %s", upload.Status))
	}

	// 2. マルチパートセッションの後始末
	if session, ok := c.sessions.Get(input.UploadID); ok {
		if err := c.gateway.AbortMultipartUpload(ctx, session.StorageKey.String(), session.RemoteUploadID); err != nil {
			// リモート中断の失敗はキャンセル自体を妨げない
			slog.Warn("failed to abort remote multipart upload", "upload_id", input.UploadID, "error", err)
		}
		c.sessions.Remove(input.UploadID)
	}

	// 3. failedへ遷移して永続化
	err = c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := upload.Fail(cancelReason); err != nil {
			return apperror.NewInvalidStateError(err.Error())
		}
		upload.SetMetadata(cancelledAtMetadataKey, time.Now().UTC().Format(time.RFC3339))
		return c.uploadRepo.Update(ctx, upload)
	})
	if err != nil {
		return nil, err
	}

	c.progress.Delete(ctx, input.UploadID)

	return &CancelUploadOutput{
		UploadID: upload.ID,
		Status:   string(upload.Status),
	}, nil
}
