package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/cache"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/database"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/session"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/storage"
	"github.com/Hiro-mackay/audio-ingest/pkg/config"
)

// Options はテスト時に外部依存を差し替えるためのオプションです
type Options struct {
	PostgresPool *pgxpool.Pool
	RedisClient  *redis.Client
	Gateway      service.StorageGateway
}

// Container はアプリケーションの依存関係を保持するDIコンテナです
type Container struct {
	// Infrastructure
	PgClient     *database.PostgresClient
	RedisClient  *cache.RedisClient
	MinIOClient  *storage.MinIOClient
	TxManager    *database.TxManager
	RateLimiter  *cache.RateLimiter
	SessionTable service.SessionTable
	Progress     service.ProgressCache
	Gateway      service.StorageGateway

	// Upload UseCases
	Upload *UploadUseCases

	// Upload Repositories (for tests and direct access)
	UploadRepos *UploadRepositories

	// config
	config *config.Config
}

// NewContainer は新しいContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	return NewContainerWithOptions(ctx, cfg, Options{})
}

// NewContainerWithOptions はオプションを指定してContainerを作成します
func NewContainerWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{
		config: cfg,
	}

	// PostgreSQL
	if opts.PostgresPool != nil {
		c.TxManager = database.NewTxManager(opts.PostgresPool)
	} else {
		slog.Info("connecting to PostgreSQL...")
		pgClient, err := database.NewPostgresClient(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		c.PgClient = pgClient
		c.TxManager = database.NewTxManager(pgClient.Pool())
		slog.Info("connected to PostgreSQL")
	}

	// Redis
	if opts.RedisClient != nil {
		c.RateLimiter = cache.NewRateLimiter(opts.RedisClient)
		c.Progress = cache.NewProgressCache(opts.RedisClient)
	} else {
		slog.Info("connecting to Redis...")
		redisConfig := cache.DefaultConfig()
		redisConfig.URL = cfg.Redis.URL
		redisClient, err := cache.NewRedisClient(redisConfig)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = redisClient
		c.RateLimiter = cache.NewRateLimiter(redisClient.Client())
		c.Progress = cache.NewProgressCache(redisClient.Client())
		slog.Info("connected to Redis")
	}

	// Object Storage
	if opts.Gateway != nil {
		c.Gateway = opts.Gateway
	} else {
		storageConfig := storage.Config{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			BucketName:      cfg.Storage.BucketName,
			UseSSL:          cfg.Storage.UseSSL,
			Region:          cfg.Storage.Region,
			CDNEndpoint:     cfg.Storage.CDNEndpoint,
			ProviderName:    cfg.Storage.ProviderName,
		}
		minioClient, err := storage.NewMinIOClient(storageConfig)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := minioClient.EnsureBucket(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to ensure bucket: %w", err)
		}
		c.MinIOClient = minioClient
		c.Gateway = storage.NewStorageGatewayAdapter(
			storage.NewStorageService(minioClient),
			cfg.Upload.GatewayTimeout,
		)
	}

	// In-memory session table
	c.SessionTable = session.NewTable()

	// Repositories
	c.UploadRepos = NewUploadRepositories(c.TxManager)

	return c, nil
}

// InitUploadUseCases はUpload UseCasesを初期化します
func (c *Container) InitUploadUseCases() {
	c.Upload = NewUploadUseCases(c, c.config)
}

// SeedStorageProvider はストレージプロバイダーディスクリプタを登録します
// 起動時に1度だけ呼ばれ、以後のアップロードはこのディスクリプタを参照します。
func (c *Container) SeedStorageProvider(ctx context.Context) error {
	provider := entity.NewStorageProvider(
		c.config.Storage.ProviderName,
		entity.StorageProviderTypeMinIO,
		c.config.Storage.Endpoint,
		c.config.Storage.Region,
		c.config.Storage.BucketName,
		c.config.Storage.CDNEndpoint,
	)

	if _, err := c.UploadRepos.ProviderRepo.FindOrCreate(ctx, provider); err != nil {
		return fmt.Errorf("failed to seed storage provider: %w", err)
	}
	return nil
}

// Close は全ての接続を閉じます
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
	if c.PgClient != nil {
		c.PgClient.Close()
	}
}
