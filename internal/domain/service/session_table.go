package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
)

// SessionTable はアクティブなMultipartSessionの共有テーブルです
// 全リクエストから参照されるため実装はゴルーチン安全でなければなりません。
// uploadIdごとに最大1セッションを保持します。
type SessionTable interface {
	// Register はセッションを登録します。既に存在する場合はfalseを返します
	Register(session *entity.MultipartSession) bool

	// Get はuploadIdのセッションを返します。存在しない場合は (nil, false)
	Get(uploadID uuid.UUID) (*entity.MultipartSession, bool)

	// Remove はセッションを破棄します。存在した場合trueを返します
	Remove(uploadID uuid.UUID) bool

	// Len は登録中のセッション数を返します
	Len() int
}

// ProgressCache はアップロード進捗の読み取りキャッシュです
// ステータスポーリングをDBに到達させないための補助であり、
// キャッシュ障害は進捗管理の正しさに影響しません。
type ProgressCache interface {
	SetProgress(ctx context.Context, uploadID uuid.UUID, progress int)
	GetProgress(ctx context.Context, uploadID uuid.UUID) (int, bool)
	Delete(ctx context.Context, uploadID uuid.UUID)
}
