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

// UploadRepository はアップロードレコードリポジトリの実装です
type UploadRepository struct {
	*database.BaseRepository
}

// NewUploadRepository は新しいUploadRepositoryを作成します
func NewUploadRepository(txManager *database.TxManager) *UploadRepository {
	return &UploadRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

var _ repository.UploadRepository = (*UploadRepository)(nil)

const uploadColumns = `id, user_id, workspace_id, file_name, file_size, mime_type,
	storage_key, storage_provider, strategy, status, progress,
	storage_url, cdn_url, failure_reason, metadata, created_at, updated_at`

// Create はアップロードレコードを作成します
func (r *UploadRepository) Create(ctx context.Context, upload *entity.Upload) error {
	querier := r.Querier(ctx)

	metadata, err := json.Marshal(upload.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal upload metadata: %w", err)
	}

	_, err = querier.Exec(ctx, `
		INSERT INTO uploads (`+uploadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		upload.ID,
		upload.UserID,
		upload.WorkspaceID,
		upload.OriginalFileName.String(),
		upload.FileSize,
		upload.MimeType.String(),
		upload.StorageKey.String(),
		upload.StorageProvider,
		string(upload.Strategy),
		string(upload.Status),
		upload.Progress,
		upload.StorageURL,
		upload.CDNURL,
		upload.FailureReason,
		metadata,
		upload.CreatedAt,
		upload.UpdatedAt,
	)

	return r.HandleError(err)
}

// FindByID はIDでアップロードレコードを検索します
func (r *UploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Upload, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT `+uploadColumns+`
		FROM uploads
		WHERE id = $1`,
		id,
	)

	upload, err := r.scanUpload(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("upload")
		}
		return nil, r.HandleError(err)
	}

	return upload, nil
}

// Update はアップロードレコードを更新します
func (r *UploadRepository) Update(ctx context.Context, upload *entity.Upload) error {
	querier := r.Querier(ctx)

	metadata, err := json.Marshal(upload.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal upload metadata: %w", err)
	}

	tag, err := querier.Exec(ctx, `
		UPDATE uploads
		SET storage_key = $2,
			strategy = $3,
			status = $4,
			progress = $5,
			storage_url = $6,
			cdn_url = $7,
			failure_reason = $8,
			metadata = $9,
			updated_at = $10
		WHERE id = $1`,
		upload.ID,
		upload.StorageKey.String(),
		string(upload.Strategy),
		string(upload.Status),
		upload.Progress,
		upload.StorageURL,
		upload.CDNURL,
		upload.FailureReason,
		metadata,
		upload.UpdatedAt,
	)
	if err != nil {
		return r.HandleError(err)
	}

	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("upload")
	}

	return nil
}

// FindByWorkspace はワークスペース内のアップロードレコードを検索します
func (r *UploadRepository) FindByWorkspace(ctx context.Context, workspaceID string) ([]*entity.Upload, error) {
	querier := r.Querier(ctx)

	rows, err := querier.Query(ctx, `
		SELECT `+uploadColumns+`
		FROM uploads
		WHERE workspace_id = $1
		ORDER BY created_at DESC`,
		workspaceID,
	)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	return r.scanUploads(rows)
}

// FindByUser はユーザーのアップロードレコードを検索します
func (r *UploadRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Upload, error) {
	querier := r.Querier(ctx)

	rows, err := querier.Query(ctx, `
		SELECT `+uploadColumns+`
		FROM uploads
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	return r.scanUploads(rows)
}

func (r *UploadRepository) scanUploads(rows pgx.Rows) ([]*entity.Upload, error) {
	var uploads []*entity.Upload
	for rows.Next() {
		upload, err := r.scanUpload(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		uploads = append(uploads, upload)
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}
	return uploads, nil
}

func (r *UploadRepository) scanUpload(row pgx.Row) (*entity.Upload, error) {
	var (
		id, userID                             uuid.UUID
		workspaceID, fileName, mimeType        string
		fileSize                               int64
		storageKey, provider, strategy, status string
		progress                               int
		storageURL, cdnURL, failureReason      string
		metadataRaw                            []byte
		createdAt, updatedAt                   time.Time
	)

	err := row.Scan(
		&id, &userID, &workspaceID, &fileName, &fileSize, &mimeType,
		&storageKey, &provider, &strategy, &status, &progress,
		&storageURL, &cdnURL, &failureReason, &metadataRaw, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return toUploadEntity(
		id, userID, workspaceID, fileName, fileSize, mimeType,
		storageKey, provider, strategy, status, progress,
		storageURL, cdnURL, failureReason, metadataRaw, createdAt, updatedAt,
	)
}

func toUploadEntity(
	id, userID uuid.UUID,
	workspaceID, fileName string,
	fileSize int64,
	mimeType, storageKey, provider, strategy, status string,
	progress int,
	storageURL, cdnURL, failureReason string,
	metadataRaw []byte,
	createdAt, updatedAt time.Time,
) (*entity.Upload, error) {
	name, err := valueobject.NewFileName(fileName)
	if err != nil {
		return nil, fmt.Errorf("invalid file name in record: %w", err)
	}

	mime, err := valueobject.NewMimeType(mimeType)
	if err != nil {
		return nil, fmt.Errorf("invalid mime type in record: %w", err)
	}

	// pending中はストレージキー未割り当て
	var key valueobject.StorageKey
	if storageKey != "" {
		key, err = valueobject.NewStorageKeyFromString(storageKey)
		if err != nil {
			return nil, fmt.Errorf("invalid storage key in record: %w", err)
		}
	}

	var metadata map[string]string
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal upload metadata: %w", err)
		}
	}

	return entity.ReconstructUpload(
		id, userID, workspaceID, name, fileSize, mime, key,
		provider, entity.UploadStrategy(strategy), entity.UploadStatus(status),
		progress, storageURL, cdnURL, failureReason, metadata, createdAt, updatedAt,
	), nil
}
