package storage

import (
	"context"
	"time"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// StorageGatewayAdapter はインフラ層のStorageServiceをドメイン層のStorageGatewayに適合させるアダプターです
// 全てのプロバイダー呼び出しに上限時間を適用し、タイムアウトを含む障害をStorageErrorへ変換します。
type StorageGatewayAdapter struct {
	svc            *StorageService
	gatewayTimeout time.Duration
}

// NewStorageGatewayAdapter は新しいStorageGatewayAdapterを作成します
func NewStorageGatewayAdapter(svc *StorageService, gatewayTimeout time.Duration) *StorageGatewayAdapter {
	return &StorageGatewayAdapter{
		svc:            svc,
		gatewayTimeout: gatewayTimeout,
	}
}

var _ service.StorageGateway = (*StorageGatewayAdapter)(nil)

// withTimeout は呼び出し毎のタイムアウト付きコンテキストを返します
func (a *StorageGatewayAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.gatewayTimeout)
}

// CreateMultipartUpload はマルチパートアップロードを開始します
func (a *StorageGatewayAdapter) CreateMultipartUpload(ctx context.Context, objectKey string, contentType string) (string, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	uploadID, err := a.svc.Multipart().Create(ctx, objectKey, contentType)
	if err != nil {
		return "", apperror.NewStorageError("failed to create multipart upload", err)
	}
	return uploadID, nil
}

// UploadPart は単一パートをアップロードし、ETagを返します
func (a *StorageGatewayAdapter) UploadPart(ctx context.Context, objectKey string, remoteUploadID string, body []byte, partNumber int) (string, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	etag, err := a.svc.Multipart().UploadPart(ctx, objectKey, remoteUploadID, partNumber, body)
	if err != nil {
		return "", apperror.NewStorageError("failed to upload part", err)
	}
	return etag, nil
}

// CompleteMultipartUpload はマルチパートアップロードを完了します
func (a *StorageGatewayAdapter) CompleteMultipartUpload(ctx context.Context, objectKey string, remoteUploadID string, parts []entity.CompletedPart) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	completed := make([]CompletedPart, len(parts))
	for i, p := range parts {
		completed[i] = CompletedPart{
			PartNumber: p.PartNumber,
			ETag:       p.ETag,
		}
	}

	if err := a.svc.Multipart().Complete(ctx, objectKey, remoteUploadID, completed); err != nil {
		return apperror.NewStorageError("failed to complete multipart upload", err)
	}
	return nil
}

// AbortMultipartUpload はマルチパートアップロードを中断します
func (a *StorageGatewayAdapter) AbortMultipartUpload(ctx context.Context, objectKey string, remoteUploadID string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.svc.Multipart().Abort(ctx, objectKey, remoteUploadID); err != nil {
		return apperror.NewStorageError("failed to abort multipart upload", err)
	}
	return nil
}

// UploadFile はオブジェクトを単発でアップロードします
func (a *StorageGatewayAdapter) UploadFile(ctx context.Context, objectKey string, body []byte, opts service.UploadOptions) (*service.UploadedObject, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.svc.PutObject(ctx, objectKey, body, opts.ContentType, opts.Metadata); err != nil {
		return nil, apperror.NewStorageError("failed to upload file", err)
	}

	return &service.UploadedObject{
		URL:    a.svc.ObjectURL(objectKey),
		CDNURL: a.svc.CDNURL(objectKey),
	}, nil
}

// GetFileURL はオブジェクトの恒久URLを返します
func (a *StorageGatewayAdapter) GetFileURL(ctx context.Context, objectKey string) (string, error) {
	return a.svc.ObjectURL(objectKey), nil
}

// GetCDNURL はCDN経由の配信URLを返します
func (a *StorageGatewayAdapter) GetCDNURL(objectKey string) string {
	return a.svc.CDNURL(objectKey)
}

// GeneratePresignedPartURL はパートアップロード用Presigned URLを生成します
func (a *StorageGatewayAdapter) GeneratePresignedPartURL(ctx context.Context, objectKey string, remoteUploadID string, partNumber int, expiry time.Duration) (*service.PresignedURL, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	partURL, err := a.svc.Multipart().GeneratePartURL(ctx, objectKey, remoteUploadID, partNumber, expiry)
	if err != nil {
		return nil, apperror.NewStorageError("failed to generate presigned part URL", err)
	}

	return &service.PresignedURL{
		PartNumber: partURL.PartNumber,
		URL:        partURL.URL,
		ExpiresAt:  partURL.ExpiresAt,
	}, nil
}
