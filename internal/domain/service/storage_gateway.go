package service

import (
	"context"
	"time"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
)

// PresignedURL はPresigned URL情報を表します
type PresignedURL struct {
	PartNumber int
	URL        string
	ExpiresAt  time.Time
}

// UploadOptions は単発アップロードのオプションを定義します
type UploadOptions struct {
	ContentType string
	Metadata    map[string]string
}

// UploadedObject はアップロード済みオブジェクトの参照情報を表します
type UploadedObject struct {
	URL    string
	CDNURL string
}

// StorageGateway はオブジェクトストレージ操作のドメインサービスインターフェースです
// プロバイダー呼び出しはブロックし得るため、実装は呼び出し毎のタイムアウトを
// 適用します。タイムアウトを含むプロバイダー障害はStorageErrorとして表面化します。
type StorageGateway interface {
	// マルチパートセッション開始
	CreateMultipartUpload(ctx context.Context, objectKey string, contentType string) (remoteUploadID string, err error)

	// パートアップロード（ETagを返す）
	UploadPart(ctx context.Context, objectKey string, remoteUploadID string, body []byte, partNumber int) (etag string, err error)

	// マルチパート完了（partsはpartNumber昇順であること）
	CompleteMultipartUpload(ctx context.Context, objectKey string, remoteUploadID string, parts []entity.CompletedPart) error

	// マルチパート中断
	AbortMultipartUpload(ctx context.Context, objectKey string, remoteUploadID string) error

	// 単発アップロード
	UploadFile(ctx context.Context, objectKey string, body []byte, opts UploadOptions) (*UploadedObject, error)

	// オブジェクトURL取得
	GetFileURL(ctx context.Context, objectKey string) (string, error)

	// CDN URL取得（CDN未設定の場合は空文字）
	GetCDNURL(objectKey string) string

	// パートアップロード用Presigned URL生成
	GeneratePresignedPartURL(ctx context.Context, objectKey string, remoteUploadID string, partNumber int, expiry time.Duration) (*PresignedURL, error)
}
