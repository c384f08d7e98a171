package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// InitiateUploadInput はアップロード初期化の入力を定義します
type InitiateUploadInput struct {
	UserID      uuid.UUID
	WorkspaceID string
	FileName    string
	MimeType    string
	FileSize    int64
	Metadata    map[string]string
	Strategy    string // 省略時はserver_proxied
}

// InitiateUploadOutput はアップロード初期化の出力を定義します
type InitiateUploadOutput struct {
	UploadID    uuid.UUID
	Strategy    entity.UploadStrategy
	IsMultipart bool
	ChunkSize   int64 // マルチパート時の公称チャンクサイズ
	TotalChunks int   // マルチパート時の想定チャンク数
}

// InitiateUploadCommand はアップロード初期化コマンドです
// fileSizeが閾値を超える場合はストレージ側のマルチパートセッションを開始し、
// インメモリのセッションテーブルへ登録します。
type InitiateUploadCommand struct {
	uploadRepo repository.UploadRepository
	gateway    service.StorageGateway
	sessions   service.SessionTable
	txManager  repository.TransactionManager

	providerName       string
	multipartThreshold int64
	chunkSize          int64
}

// NewInitiateUploadCommand は新しいInitiateUploadCommandを作成します
func NewInitiateUploadCommand(
	uploadRepo repository.UploadRepository,
	gateway service.StorageGateway,
	sessions service.SessionTable,
	txManager repository.TransactionManager,
	providerName string,
	multipartThreshold int64,
	chunkSize int64,
) *InitiateUploadCommand {
	return &InitiateUploadCommand{
		uploadRepo:         uploadRepo,
		gateway:            gateway,
		sessions:           sessions,
		txManager:          txManager,
		providerName:       providerName,
		multipartThreshold: multipartThreshold,
		chunkSize:          chunkSize,
	}
}

// Execute はアップロード初期化を実行します
func (c *InitiateUploadCommand) Execute(ctx context.Context, input InitiateUploadInput) (*InitiateUploadOutput, error) {
	// 1. 入力バリデーション
	fileName, err := valueobject.NewFileName(input.FileName)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), nil)
	}

	mimeType, err := valueobject.NewMimeType(input.MimeType)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), nil)
	}

	if input.FileSize <= 0 {
		return nil, apperror.NewValidationError("file size must be positive", nil)
	}
	if input.WorkspaceID == "" {
		return nil, apperror.NewValidationError("workspace id is required", nil)
	}

	strategy, err := resolveStrategy(input.Strategy)
	if err != nil {
		return nil, err
	}

	// 2. マルチパート判定
	isMultipart := input.FileSize > c.multipartThreshold

	if !isMultipart && strategy == entity.UploadStrategyClientDirect {
		return nil, apperror.NewValidationError("client_direct strategy requires a multipart upload", nil)
	}

	// 3. アップロードレコード作成とストレージキーの割り当て
	// レコードは初期化の時点でuploadingへ遷移した状態で永続化されます
	upload := entity.NewUpload(
		input.UserID,
		input.WorkspaceID,
		fileName,
		input.FileSize,
		mimeType,
		c.providerName,
		strategy,
	)
	for k, v := range input.Metadata {
		upload.SetMetadata(k, v)
	}

	storageKey := valueobject.NewStorageKey(input.WorkspaceID, input.UserID, fileName)
	if err := upload.Start(storageKey); err != nil {
		return nil, apperror.NewInvalidStateError(err.Error())
	}

	// 4. マルチパートの場合はストレージ側セッションを開始
	var session *entity.MultipartSession
	if isMultipart {
		remoteUploadID, err := c.gateway.CreateMultipartUpload(ctx, storageKey.String(), mimeType.String())
		if err != nil {
			return nil, err
		}

		session = entity.NewMultipartSession(upload.ID, remoteUploadID, storageKey, strategy)
	}

	// 5. レコードを永続化
	err = c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return c.uploadRepo.Create(ctx, upload)
	})
	if err != nil {
		if session != nil {
			_ = c.gateway.AbortMultipartUpload(ctx, session.StorageKey.String(), session.RemoteUploadID)
		}
		return nil, err
	}

	// 6. セッションテーブルへ登録
	if session != nil {
		c.sessions.Register(session)
	}

	output := &InitiateUploadOutput{
		UploadID:    upload.ID,
		Strategy:    strategy,
		IsMultipart: isMultipart,
	}
	if isMultipart {
		output.ChunkSize = c.chunkSize
		output.TotalChunks = totalChunksFor(input.FileSize, c.chunkSize)
	}

	return output, nil
}

// resolveStrategy は入力文字列をアップロード方式へ解決します
func resolveStrategy(s string) (entity.UploadStrategy, error) {
	switch s {
	case "", string(entity.UploadStrategyServerProxied):
		return entity.UploadStrategyServerProxied, nil
	case string(entity.UploadStrategyClientDirect):
		return entity.UploadStrategyClientDirect, nil
	default:
		return "", apperror.NewValidationError("unknown upload strategy: "+s, nil)
	}
}

// totalChunksFor は公称チャンクサイズでの想定チャンク数を返します
func totalChunksFor(fileSize, chunkSize int64) int {
	n := fileSize / chunkSize
	if fileSize%chunkSize > 0 {
		n++
	}
	return int(n)
}
