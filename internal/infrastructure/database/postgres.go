package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig は接続プールの設定を定義します
type DBConfig struct {
	MaxConns          int32         // 最大接続数
	MinConns          int32         // 最小接続数
	MaxConnLifetime   time.Duration // 接続の最大生存時間
	MaxConnIdleTime   time.Duration // アイドル接続の最大時間
	HealthCheckPeriod time.Duration // ヘルスチェック間隔
	ConnectTimeout    time.Duration // 接続確立のタイムアウト
}

// DefaultDBConfig は既定の接続プール設定を返します
func DefaultDBConfig() DBConfig {
	return DBConfig{
		MaxConns:          32,
		MinConns:          4,
		MaxConnLifetime:   1 * time.Hour,
		MaxConnIdleTime:   15 * time.Minute,
		HealthCheckPeriod: 1 * time.Minute,
		ConnectTimeout:    5 * time.Second,
	}
}

// PostgresClient はアップロード記録ストアへの接続を管理します
type PostgresClient struct {
	pool *pgxpool.Pool
}

// NewPostgresClient は既定設定でPostgresClientを作成します
func NewPostgresClient(ctx context.Context, databaseURL string) (*PostgresClient, error) {
	return NewPostgresClientWithConfig(ctx, databaseURL, DefaultDBConfig())
}

// NewPostgresClientWithConfig は設定を指定してPostgresClientを作成します
func NewPostgresClientWithConfig(ctx context.Context, databaseURL string, cfg DBConfig) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = cfg.MaxConns
	config.MinConns = cfg.MinConns
	config.MaxConnLifetime = cfg.MaxConnLifetime
	config.MaxConnIdleTime = cfg.MaxConnIdleTime
	config.HealthCheckPeriod = cfg.HealthCheckPeriod
	config.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresClient{pool: pool}, nil
}

// Pool はコネクションプールを返します
func (c *PostgresClient) Pool() *pgxpool.Pool {
	return c.pool
}

// Close はコネクションプールを閉じます
func (c *PostgresClient) Close() {
	c.pool.Close()
}

// Health はデータベースの接続状態を確認します
func (c *PostgresClient) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Stats はコネクションプールの統計情報を返します
func (c *PostgresClient) Stats() *pgxpool.Stat {
	return c.pool.Stat()
}
