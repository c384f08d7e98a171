package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/database"
)

// ChunkRepository はチャンク記録リポジトリの実装です
type ChunkRepository struct {
	*database.BaseRepository
}

// NewChunkRepository は新しいChunkRepositoryを作成します
func NewChunkRepository(txManager *database.TxManager) *ChunkRepository {
	return &ChunkRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

var _ repository.ChunkRepository = (*ChunkRepository)(nil)

// Create はチャンク記録を作成します
// 同一チャンクの再送はupsertで上書きし、重複記録を作りません。
func (r *ChunkRepository) Create(ctx context.Context, chunk *entity.Chunk) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO upload_chunks (id, upload_id, chunk_index, range_start, range_end, size, storage_key, checksum, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (upload_id, chunk_index)
		DO UPDATE SET range_start = $4, range_end = $5, size = $6, storage_key = $7, checksum = $8, uploaded_at = $9`,
		chunk.ID,
		chunk.UploadID,
		chunk.ChunkIndex,
		chunk.Range.Start(),
		chunk.Range.End(),
		chunk.Size,
		chunk.StorageKey,
		chunk.Checksum,
		chunk.UploadedAt,
	)

	return r.HandleError(err)
}

// FindByUploadID はアップロードIDでチャンク記録をchunk_index昇順で検索します
func (r *ChunkRepository) FindByUploadID(ctx context.Context, uploadID uuid.UUID) ([]*entity.Chunk, error) {
	querier := r.Querier(ctx)

	rows, err := querier.Query(ctx, `
		SELECT id, upload_id, chunk_index, range_start, range_end, size, storage_key, checksum, uploaded_at
		FROM upload_chunks
		WHERE upload_id = $1
		ORDER BY chunk_index ASC`,
		uploadID,
	)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	var chunks []*entity.Chunk
	for rows.Next() {
		var (
			id, uid              uuid.UUID
			chunkIndex           int
			rangeStart, rangeEnd int64
			size                 int64
			storageKey, checksum string
			uploadedAt           time.Time
		)

		if err := rows.Scan(
			&id, &uid, &chunkIndex, &rangeStart, &rangeEnd, &size, &storageKey, &checksum, &uploadedAt,
		); err != nil {
			return nil, r.HandleError(err)
		}

		chunks = append(chunks, entity.ReconstructChunk(
			id, uid, chunkIndex,
			valueobject.ReconstructChunkRange(rangeStart, rangeEnd),
			size, storageKey, checksum, uploadedAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return chunks, nil
}
