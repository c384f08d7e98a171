package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/database"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// StorageProviderRepository はストレージプロバイダーディスクリプタリポジトリの実装です
type StorageProviderRepository struct {
	*database.BaseRepository
}

// NewStorageProviderRepository は新しいStorageProviderRepositoryを作成します
func NewStorageProviderRepository(txManager *database.TxManager) *StorageProviderRepository {
	return &StorageProviderRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

var _ repository.StorageProviderRepository = (*StorageProviderRepository)(nil)

const providerColumns = `id, name, type, endpoint, region, bucket, cdn_endpoint,
	supports_multipart, supports_presigned, created_at`

// FindOrCreate は名前でプロバイダーを検索し、存在しなければ作成します
// 同時作成の競合はname一意制約に任せ、衝突時は既存行を返します。
func (r *StorageProviderRepository) FindOrCreate(ctx context.Context, provider *entity.StorageProvider) (*entity.StorageProvider, error) {
	existing, err := r.FindByName(ctx, provider.Name)
	if err == nil {
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	querier := r.Querier(ctx)
	_, err = querier.Exec(ctx, `
		INSERT INTO storage_providers (`+providerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		provider.ID,
		provider.Name,
		string(provider.Type),
		provider.Endpoint,
		provider.Region,
		provider.Bucket,
		provider.CDNEndpoint,
		provider.SupportsMultipart,
		provider.SupportsPresigned,
		provider.CreatedAt,
	)
	if err != nil {
		if errors.Is(r.HandleError(err), database.ErrConflict) {
			return r.FindByName(ctx, provider.Name)
		}
		return nil, r.HandleError(err)
	}

	return provider, nil
}

// FindByName は名前でプロバイダーを検索します
func (r *StorageProviderRepository) FindByName(ctx context.Context, name string) (*entity.StorageProvider, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT `+providerColumns+`
		FROM storage_providers
		WHERE name = $1`,
		name,
	)

	var (
		id                                   uuid.UUID
		providerName, providerType           string
		endpoint, region, bucket, cdnBase    string
		supportsMultipart, supportsPresigned bool
		createdAt                            time.Time
	)

	err := row.Scan(&id, &providerName, &providerType, &endpoint, &region, &bucket, &cdnBase, &supportsMultipart, &supportsPresigned, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("storage provider")
		}
		return nil, r.HandleError(err)
	}

	return entity.ReconstructStorageProvider(
		id, providerName, entity.StorageProviderType(providerType),
		endpoint, region, bucket, cdnBase,
		supportsMultipart, supportsPresigned, createdAt,
	), nil
}
