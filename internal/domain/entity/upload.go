package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
)

// アップロードステータス
type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
)

// UploadStrategy はアップロード方式を表します
// アップロードごとに初期化時に1つの方式へ固定され、以後変更できません。
type UploadStrategy string

const (
	// UploadStrategyServerProxied はコーディネーター経由でパート本体を受け取る方式
	UploadStrategyServerProxied UploadStrategy = "server_proxied"
	// UploadStrategyClientDirect はPresigned URLでクライアントが直接アップロードする方式
	UploadStrategyClientDirect UploadStrategy = "client_direct"
)

// アップロード関連エラー
var (
	ErrUploadNotPending   = errors.New("upload is not in pending status")
	ErrUploadNotUploading = errors.New("upload is not in uploading status")
	ErrUploadTerminal     = errors.New("upload is already in a terminal status")
	ErrInvalidProgress    = errors.New("upload progress must be between 0 and 100")
)

// Upload はアップロードレコードエンティティ
// 物理削除されることはなく、状態遷移は pending → uploading → {completed|failed}
// のみ許可されます。終端状態は最終です。
type Upload struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	WorkspaceID      string
	OriginalFileName valueobject.FileName
	FileSize         int64
	MimeType         valueobject.MimeType
	StorageKey       valueobject.StorageKey
	StorageProvider  string
	Strategy         UploadStrategy
	Status           UploadStatus
	Progress         int // 0-100。100になるのはcompletedのときのみ
	StorageURL       string
	CDNURL           string
	FailureReason    string
	Metadata         map[string]string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUpload は新しいアップロードレコードを作成します（status=pending）
func NewUpload(
	userID uuid.UUID,
	workspaceID string,
	fileName valueobject.FileName,
	fileSize int64,
	mimeType valueobject.MimeType,
	provider string,
	strategy UploadStrategy,
) *Upload {
	now := time.Now()
	return &Upload{
		ID:               uuid.New(),
		UserID:           userID,
		WorkspaceID:      workspaceID,
		OriginalFileName: fileName,
		FileSize:         fileSize,
		MimeType:         mimeType,
		StorageProvider:  provider,
		Strategy:         strategy,
		Status:           UploadStatusPending,
		Progress:         0,
		Metadata:         make(map[string]string),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ReconstructUpload はDBからアップロードレコードを復元します
func ReconstructUpload(
	id uuid.UUID,
	userID uuid.UUID,
	workspaceID string,
	fileName valueobject.FileName,
	fileSize int64,
	mimeType valueobject.MimeType,
	storageKey valueobject.StorageKey,
	provider string,
	strategy UploadStrategy,
	status UploadStatus,
	progress int,
	storageURL string,
	cdnURL string,
	failureReason string,
	metadata map[string]string,
	createdAt time.Time,
	updatedAt time.Time,
) *Upload {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return &Upload{
		ID:               id,
		UserID:           userID,
		WorkspaceID:      workspaceID,
		OriginalFileName: fileName,
		FileSize:         fileSize,
		MimeType:         mimeType,
		StorageKey:       storageKey,
		StorageProvider:  provider,
		Strategy:         strategy,
		Status:           status,
		Progress:         progress,
		StorageURL:       storageURL,
		CDNURL:           cdnURL,
		FailureReason:    failureReason,
		Metadata:         metadata,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}

// Start はストレージキーを割り当ててuploading状態へ遷移します
func (u *Upload) Start(storageKey valueobject.StorageKey) error {
	if u.Status != UploadStatusPending {
		return ErrUploadNotPending
	}

	u.StorageKey = storageKey
	u.Status = UploadStatusUploading
	u.UpdatedAt = time.Now()
	return nil
}

// SetProgress は進捗を更新します。100はComplete経由でのみ設定できます
func (u *Upload) SetProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}
	if u.IsTerminal() {
		return ErrUploadTerminal
	}
	if progress >= 100 {
		// 不変条件: progress==100はcompletedと同時にのみ成立
		progress = 99
	}

	u.Progress = progress
	u.UpdatedAt = time.Now()
	return nil
}

// Complete はアップロードを完了状態にし、最終URLを記録します
func (u *Upload) Complete(storageURL, cdnURL string) error {
	if u.Status != UploadStatusUploading {
		return ErrUploadNotUploading
	}

	u.Status = UploadStatusCompleted
	u.Progress = 100
	u.StorageURL = storageURL
	u.CDNURL = cdnURL
	u.UpdatedAt = time.Now()
	return nil
}

// Fail はアップロードを失敗状態にし、理由を記録します
func (u *Upload) Fail(reason string) error {
	if u.IsTerminal() {
		return ErrUploadTerminal
	}

	u.Status = UploadStatusFailed
	u.FailureReason = reason
	u.UpdatedAt = time.Now()
	return nil
}

// SetMetadata はメタデータを設定します
func (u *Upload) SetMetadata(key, value string) {
	if u.Metadata == nil {
		u.Metadata = make(map[string]string)
	}
	u.Metadata[key] = value
	u.UpdatedAt = time.Now()
}

// IsTerminal は終端状態（completed/failed）かどうかを判定します
func (u *Upload) IsTerminal() bool {
	return u.Status == UploadStatusCompleted || u.Status == UploadStatusFailed
}

// IsUploading はアップロード中かどうかを判定します
func (u *Upload) IsUploading() bool {
	return u.Status == UploadStatusUploading
}

// IsCompleted は完了済みかどうかを判定します
func (u *Upload) IsCompleted() bool {
	return u.Status == UploadStatusCompleted
}

// IsServerProxied はコーディネーター経由方式かどうかを判定します
func (u *Upload) IsServerProxied() bool {
	return u.Strategy == UploadStrategyServerProxied
}

// IsClientDirect はクライアント直接方式かどうかを判定します
func (u *Upload) IsClientDirect() bool {
	return u.Strategy == UploadStrategyClientDirect
}
