package di

import (
	"github.com/Hiro-mackay/audio-ingest/internal/domain/repository"
	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/database"
	infraRepo "github.com/Hiro-mackay/audio-ingest/internal/infrastructure/repository"
	uploadcmd "github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/command"
	uploadqry "github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/query"
	"github.com/Hiro-mackay/audio-ingest/pkg/config"
)

// UploadUseCases はUpload関連のUseCaseを保持します
type UploadUseCases struct {
	// Commands
	InitiateUpload *uploadcmd.InitiateUploadCommand
	UploadFile     *uploadcmd.UploadFileCommand
	UploadChunk    *uploadcmd.UploadChunkCommand
	RegisterPart   *uploadcmd.RegisterPartCommand
	CancelUpload   *uploadcmd.CancelUploadCommand

	// Queries
	GetUploadStatus    *uploadqry.GetUploadStatusQuery
	GenerateUploadURLs *uploadqry.GenerateUploadURLsQuery
	ListUploads        *uploadqry.ListUploadsQuery
}

// UploadRepositories はUpload関連のリポジトリを保持します
type UploadRepositories struct {
	UploadRepo      repository.UploadRepository
	ChunkRepo       repository.ChunkRepository
	FileStorageRepo repository.FileStorageRepository
	ProviderRepo    repository.StorageProviderRepository
}

// NewUploadRepositories は新しいUploadRepositoriesを作成します
func NewUploadRepositories(txManager *database.TxManager) *UploadRepositories {
	return &UploadRepositories{
		UploadRepo:      infraRepo.NewUploadRepository(txManager),
		ChunkRepo:       infraRepo.NewChunkRepository(txManager),
		FileStorageRepo: infraRepo.NewFileStorageRepository(txManager),
		ProviderRepo:    infraRepo.NewStorageProviderRepository(txManager),
	}
}

// NewUploadUseCases は新しいUploadUseCasesを作成します
func NewUploadUseCases(c *Container, cfg *config.Config) *UploadUseCases {
	repos := c.UploadRepos

	finalize := uploadcmd.NewFinalizeUploadCommand(
		repos.UploadRepo,
		repos.FileStorageRepo,
		repos.ProviderRepo,
		c.Gateway,
		c.SessionTable,
		c.Progress,
		c.TxManager,
		cfg.Storage.ProviderName,
	)

	return &UploadUseCases{
		InitiateUpload: uploadcmd.NewInitiateUploadCommand(
			repos.UploadRepo,
			c.Gateway,
			c.SessionTable,
			c.TxManager,
			cfg.Storage.ProviderName,
			cfg.Upload.MultipartThreshold,
			cfg.Upload.ChunkSize,
		),
		UploadFile: uploadcmd.NewUploadFileCommand(
			repos.UploadRepo,
			repos.FileStorageRepo,
			repos.ProviderRepo,
			c.Gateway,
			c.Progress,
			c.TxManager,
			cfg.Storage.ProviderName,
			cfg.Upload.MultipartThreshold,
		),
		UploadChunk: uploadcmd.NewUploadChunkCommand(
			repos.UploadRepo,
			repos.ChunkRepo,
			c.Gateway,
			c.SessionTable,
			c.Progress,
			finalize,
			cfg.Upload.ChunkSize,
		),
		RegisterPart: uploadcmd.NewRegisterPartCommand(
			repos.UploadRepo,
			repos.ChunkRepo,
			c.SessionTable,
			c.Progress,
			finalize,
			cfg.Upload.ChunkSize,
		),
		CancelUpload: uploadcmd.NewCancelUploadCommand(
			repos.UploadRepo,
			c.Gateway,
			c.SessionTable,
			c.Progress,
			c.TxManager,
		),
		GetUploadStatus:    uploadqry.NewGetUploadStatusQuery(repos.UploadRepo, repos.ChunkRepo, repos.FileStorageRepo, c.Progress),
		GenerateUploadURLs: uploadqry.NewGenerateUploadURLsQuery(repos.UploadRepo, c.Gateway, c.SessionTable, cfg.Upload.PresignedPartExpiry),
		ListUploads:        uploadqry.NewListUploadsQuery(repos.UploadRepo),
	}
}
