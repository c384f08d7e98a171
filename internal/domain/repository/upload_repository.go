package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
)

// UploadRepository はアップロードレコードリポジトリのインターフェース
type UploadRepository interface {
	Create(ctx context.Context, upload *entity.Upload) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Upload, error)
	Update(ctx context.Context, upload *entity.Upload) error

	// 検索
	FindByWorkspace(ctx context.Context, workspaceID string) ([]*entity.Upload, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Upload, error)
}

// ChunkRepository はチャンク記録リポジトリのインターフェース
type ChunkRepository interface {
	Create(ctx context.Context, chunk *entity.Chunk) error
	FindByUploadID(ctx context.Context, uploadID uuid.UUID) ([]*entity.Chunk, error)
}

// FileStorageRepository は保存記録リポジトリのインターフェース
type FileStorageRepository interface {
	Create(ctx context.Context, fileStorage *entity.FileStorage) error
	FindByUploadID(ctx context.Context, uploadID uuid.UUID) (*entity.FileStorage, error)
}

// StorageProviderRepository はストレージプロバイダーディスクリプタのインターフェース
type StorageProviderRepository interface {
	// FindOrCreate は名前でプロバイダーを検索し、存在しなければ作成します
	FindOrCreate(ctx context.Context, provider *entity.StorageProvider) (*entity.StorageProvider, error)
	FindByName(ctx context.Context, name string) (*entity.StorageProvider, error)
}
