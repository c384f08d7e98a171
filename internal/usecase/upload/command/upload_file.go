package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
	"github.com/Hiro-mackay/audio-ingest/pkg/checksum"
)

// UploadFileInput は単発アップロードの入力を定義します
type UploadFileInput struct {
	UploadID uuid.UUID
	Data     []byte
}

// UploadFileOutput は単発アップロードの出力を定義します
type UploadFileOutput struct {
	UploadID   uuid.UUID
	StorageURL string
	CDNURL     string
	Checksum   string
}

// UploadFileCommand は閾値以下のファイルの単発アップロードコマンドです
// 本体を1回のPUTで転送し、同一リクエスト内で完了まで遷移させます。
type UploadFileCommand struct {
	uploadRepo      repository.UploadRepository
	fileStorageRepo repository.FileStorageRepository
	providerRepo    repository.StorageProviderRepository
	gateway         service.StorageGateway
	progress        service.ProgressCache
	txManager       repository.TransactionManager

	providerName       string
	multipartThreshold int64
}

// NewUploadFileCommand は新しいUploadFileCommandを作成します
func NewUploadFileCommand(
	uploadRepo repository.UploadRepository,
	fileStorageRepo repository.FileStorageRepository,
	providerRepo repository.StorageProviderRepository,
	gateway service.StorageGateway,
	progress service.ProgressCache,
	txManager repository.TransactionManager,
	providerName string,
	multipartThreshold int64,
) *UploadFileCommand {
	return &UploadFileCommand{
		uploadRepo:         uploadRepo,
		fileStorageRepo:    fileStorageRepo,
		providerRepo:       providerRepo,
		gateway:            gateway,
		progress:           progress,
		txManager:          txManager,
		providerName:       providerName,
		multipartThreshold: multipartThreshold,
	}
}

// Execute は単発アップロードを実行します
func (c *UploadFileCommand) Execute(ctx context.Context, input UploadFileInput) (*UploadFileOutput, error) {
	if len(input.Data) == 0 {
		return nil, apperror.NewValidationError("file data must not be empty", nil)
	}

	// 1. レコード取得と状態チェック
	upload, err := c.uploadRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}

	if upload.IsTerminal() {
		return nil, apperror.NewInvalidStateError(fmt.Sprintf("upload is already %s", upload.Status))
	}
	if !upload.IsUploading() || upload.StorageKey.IsEmpty() {
		return nil, apperror.NewInvalidStateError("upload has not been initialized")
	}
	if upload.FileSize > c.multipartThreshold {
		return nil, apperror.NewInvalidStateError("file exceeds single upload threshold, use chunked upload")
	}
	if int64(len(input.Data)) != upload.FileSize {
		return nil, apperror.NewValidationError(
			fmt.Sprintf("payload size %d does not match declared file size %d", len(input.Data), upload.FileSize), nil)
	}

	// 2. 初期化時に割り当てたキーで本体を転送
	storageKey := upload.StorageKey
	object, err := c.gateway.UploadFile(ctx, storageKey.String(), input.Data, service.UploadOptions{
		ContentType: upload.MimeType.String(),
		Metadata:    upload.Metadata,
	})
	if err != nil {
		c.markFailed(ctx, upload, "storage upload failed: "+err.Error())
		return nil, err
	}

	sum := checksum.Sum(input.Data)

	// 3. 完了状態と保存記録を永続化
	err = c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := upload.Complete(object.URL, object.CDNURL); err != nil {
			return err
		}
		if err := c.uploadRepo.Update(ctx, upload); err != nil {
			return err
		}

		provider, err := c.providerRepo.FindByName(ctx, c.providerName)
		if err != nil {
			return err
		}

		fileStorage := entity.NewFileStorage(
			upload.ID,
			provider.ID,
			storageKey,
			upload.OriginalFileName,
			upload.FileSize,
			upload.MimeType,
			sum,
			object.CDNURL,
			upload.Metadata,
		)
		return c.fileStorageRepo.Create(ctx, fileStorage)
	})
	if err != nil {
		c.markFailed(ctx, upload, "failed to persist completion: "+err.Error())
		return nil, err
	}

	c.progress.SetProgress(ctx, upload.ID, 100)

	return &UploadFileOutput{
		UploadID:   upload.ID,
		StorageURL: object.URL,
		CDNURL:     object.CDNURL,
		Checksum:   sum,
	}, nil
}

// markFailed はアップロードを失敗状態へ遷移させます
func (c *UploadFileCommand) markFailed(ctx context.Context, upload *entity.Upload, reason string) {
	if err := upload.Fail(reason); err != nil {
		slog.Warn("failed to transition upload to failed", "upload_id", upload.ID, "error", err)
		return
	}
	if err := c.uploadRepo.Update(ctx, upload); err != nil {
		slog.Error("failed to persist upload failure", "upload_id", upload.ID, "error", err)
	}
	c.progress.Delete(ctx, upload.ID)
}
