package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// 永続化層の共通エラー
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// BaseRepository はアップロード系リポジトリの共通処理を提供します
type BaseRepository struct {
	txManager *TxManager
}

// NewBaseRepository は新しいBaseRepositoryを作成します
func NewBaseRepository(txManager *TxManager) *BaseRepository {
	return &BaseRepository{txManager: txManager}
}

// Querier は現在のコンテキストに応じたクエリ実行先を返します
// トランザクション参加中はTx、それ以外はプール直結です。
func (r *BaseRepository) Querier(ctx context.Context) Querier {
	return r.txManager.GetQuerier(ctx)
}

// HandleError はpgxのエラーを永続化層のエラーへ変換します
func (r *BaseRepository) HandleError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return ErrConflict
		case "23503": // foreign_key_violation
			return fmt.Errorf("foreign key violation: %s", pgErr.Detail)
		case "23514": // check_violation
			return fmt.Errorf("check constraint violation: %s", pgErr.Detail)
		}
	}

	return err
}

// IsNotFoundError はレコード未検出エラーかどうかを判定します
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError は一意制約違反エラーかどうかを判定します
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}
