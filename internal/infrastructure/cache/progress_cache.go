package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
)

// 進捗エントリの生存時間
// 完了・失敗時は明示的に削除されるため、TTLは放置されたエントリの回収用。
const progressTTL = 24 * time.Hour

// ProgressCache はアップロード進捗のRedisキャッシュです
// ステータスポーリングの読み取り負荷をDBから逃がすための補助であり、
// Redis障害は進捗管理の正しさに影響しません。書き込み失敗はログのみ。
type ProgressCache struct {
	client *redis.Client
}

// NewProgressCache は新しいProgressCacheを作成します
func NewProgressCache(client *redis.Client) *ProgressCache {
	return &ProgressCache{client: client}
}

var _ service.ProgressCache = (*ProgressCache)(nil)

// SetProgress は進捗を記録します
func (c *ProgressCache) SetProgress(ctx context.Context, uploadID uuid.UUID, progress int) {
	key := UploadProgressKey(uploadID)
	if err := c.client.Set(ctx, key, progress, progressTTL).Err(); err != nil {
		slog.Warn("failed to cache upload progress", "upload_id", uploadID, "error", err)
	}
}

// GetProgress は進捗を取得します。未登録または取得失敗時は (0, false)
func (c *ProgressCache) GetProgress(ctx context.Context, uploadID uuid.UUID) (int, bool) {
	key := UploadProgressKey(uploadID)
	progress, err := c.client.Get(ctx, key).Int()
	if err != nil {
		return 0, false
	}
	return progress, true
}

// Delete は進捗エントリを削除します
func (c *ProgressCache) Delete(ctx context.Context, uploadID uuid.UUID) {
	key := UploadProgressKey(uploadID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("failed to delete upload progress", "upload_id", uploadID, "error", err)
	}
}
