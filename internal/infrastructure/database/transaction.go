package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txKey は進行中のトランザクションをコンテキストへ載せるためのキーです
type txKey struct{}

// TxManager はアップロード系テーブルへの書き込みをトランザクションにまとめます
// 完了遷移と保存記録の作成のように複数テーブルをまたぐ更新は、
// コンテキスト経由で同一トランザクションを共有します。
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager は新しいTxManagerを作成します
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithTransaction はfnをトランザクション内で実行します
// fnがエラーを返すとロールバック、正常終了でコミットします。
// 既にトランザクション中のコンテキストではそのまま参加します。
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetQuerier は参加中のトランザクションがあればTx、なければプールを返します
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return m.pool
}

func txFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}
