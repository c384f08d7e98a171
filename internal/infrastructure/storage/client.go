package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config はオブジェクトストレージ接続設定を定義します
type Config struct {
	Endpoint        string // S3互換エンドポイント (例: localhost:9000)
	AccessKeyID     string // アクセスキーID
	SecretAccessKey string // シークレットアクセスキー
	BucketName      string // バケット名
	UseSSL          bool   // SSL使用有無
	Region          string // リージョン (default: us-east-1)
	CDNEndpoint     string // CDNエンドポイント（未設定可）
	ProviderName    string // プロバイダー識別名
}

// DefaultConfig はデフォルト設定を返します
func DefaultConfig() Config {
	return Config{
		UseSSL:       false,
		Region:       "us-east-1",
		ProviderName: "minio",
	}
}

// MinIOClient はS3互換ストレージ操作を提供します
// マルチパートの低レベル操作が必要なためCore APIを保持します。
type MinIOClient struct {
	core   *minio.Core
	config Config
}

// NewMinIOClient は新しいMinIOClientを作成します
func NewMinIOClient(cfg Config) (*MinIOClient, error) {
	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOClient{
		core:   core,
		config: cfg,
	}, nil
}

// Client は内部のminio.Clientを返します
func (m *MinIOClient) Client() *minio.Client {
	return m.core.Client
}

// Core はマルチパート操作用の低レベルAPIを返します
func (m *MinIOClient) Core() *minio.Core {
	return m.core
}

// BucketName はバケット名を返します
func (m *MinIOClient) BucketName() string {
	return m.config.BucketName
}

// Config は設定を返します
func (m *MinIOClient) Config() Config {
	return m.config
}

// Health はストレージの接続状態を確認します
func (m *MinIOClient) Health(ctx context.Context) error {
	_, err := m.core.Client.BucketExists(ctx, m.config.BucketName)
	return err
}

// EnsureBucket はバケットが存在しない場合は作成します
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.core.Client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = m.core.Client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{
			Region: m.config.Region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}
