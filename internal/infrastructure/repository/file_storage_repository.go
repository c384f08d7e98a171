package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/database"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// FileStorageRepository は保存記録リポジトリの実装です
type FileStorageRepository struct {
	*database.BaseRepository
}

// NewFileStorageRepository は新しいFileStorageRepositoryを作成します
func NewFileStorageRepository(txManager *database.TxManager) *FileStorageRepository {
	return &FileStorageRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

var _ repository.FileStorageRepository = (*FileStorageRepository)(nil)

// Create は保存記録を作成します
func (r *FileStorageRepository) Create(ctx context.Context, fileStorage *entity.FileStorage) error {
	querier := r.Querier(ctx)

	metadata, err := json.Marshal(fileStorage.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal file storage metadata: %w", err)
	}

	_, err = querier.Exec(ctx, `
		INSERT INTO file_storages (id, upload_id, provider_id, storage_key, file_name, file_size, mime_type, checksum, cdn_url, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		fileStorage.ID,
		fileStorage.UploadID,
		fileStorage.ProviderID,
		fileStorage.StorageKey.String(),
		fileStorage.FileName.String(),
		fileStorage.FileSize,
		fileStorage.MimeType.String(),
		fileStorage.Checksum,
		fileStorage.CDNURL,
		metadata,
		fileStorage.CreatedAt,
	)

	return r.HandleError(err)
}

// FindByUploadID はアップロードIDで保存記録を検索します
func (r *FileStorageRepository) FindByUploadID(ctx context.Context, uploadID uuid.UUID) (*entity.FileStorage, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT id, upload_id, provider_id, storage_key, file_name, file_size, mime_type, checksum, cdn_url, metadata, created_at
		FROM file_storages
		WHERE upload_id = $1`,
		uploadID,
	)

	var (
		id, uid, providerID          uuid.UUID
		storageKey, fileName         string
		fileSize                     int64
		mimeType, checksum, cdnURL   string
		metadataRaw                  []byte
		createdAt                    time.Time
	)

	err := row.Scan(&id, &uid, &providerID, &storageKey, &fileName, &fileSize, &mimeType, &checksum, &cdnURL, &metadataRaw, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("file storage")
		}
		return nil, r.HandleError(err)
	}

	key, err := valueobject.NewStorageKeyFromString(storageKey)
	if err != nil {
		return nil, fmt.Errorf("invalid storage key in record: %w", err)
	}

	name, err := valueobject.NewFileName(fileName)
	if err != nil {
		return nil, fmt.Errorf("invalid file name in record: %w", err)
	}

	mime, err := valueobject.NewMimeType(mimeType)
	if err != nil {
		return nil, fmt.Errorf("invalid mime type in record: %w", err)
	}

	var metadata map[string]string
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal file storage metadata: %w", err)
		}
	}

	return entity.ReconstructFileStorage(
		id, uid, providerID, key, name, fileSize, mime, checksum, cdnURL, metadata, createdAt,
	), nil
}
