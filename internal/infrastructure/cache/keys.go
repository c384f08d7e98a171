package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// KeyPrefix はRedisキーのプレフィックスを定義します
type KeyPrefix string

const (
	// アップロード進捗
	PrefixUploadProgress KeyPrefix = "upload:progress" // upload:progress:{upload_id}

	// レート制限
	PrefixRateLimit KeyPrefix = "ratelimit" // ratelimit:{type}:{identifier}
)

// UploadProgressKey はアップロード進捗キーを生成します
func UploadProgressKey(uploadID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", PrefixUploadProgress, uploadID.String())
}
