package di

import (
	"github.com/Hiro-mackay/audio-ingest/internal/interface/handler"
)

// Handlers はアプリケーションのハンドラーを保持します
type Handlers struct {
	Health *handler.HealthHandler
	Upload *handler.UploadHandler
}

// NewHandlers はContainerから全てのハンドラーを初期化します
func NewHandlers(c *Container) *Handlers {
	// Health Handler
	healthHandler := handler.NewHealthHandler()
	if c.PgClient != nil {
		healthHandler.RegisterChecker("postgres", c.PgClient)
	}
	if c.RedisClient != nil {
		healthHandler.RegisterChecker("redis", c.RedisClient)
	}
	if c.MinIOClient != nil {
		healthHandler.RegisterChecker("storage", c.MinIOClient)
	}
	if c.SessionTable != nil {
		healthHandler.RegisterGauge("multipart_sessions", c.SessionTable.Len)
	}

	return &Handlers{
		Health: healthHandler,
		Upload: newUploadHandler(c),
	}
}

// NewHandlersForTest はテスト用にハンドラーを初期化します（HealthHandlerなし）
func NewHandlersForTest(c *Container) *Handlers {
	return &Handlers{
		Health: nil,
		Upload: newUploadHandler(c),
	}
}

func newUploadHandler(c *Container) *handler.UploadHandler {
	return handler.NewUploadHandler(
		c.Upload.InitiateUpload,
		c.Upload.UploadFile,
		c.Upload.UploadChunk,
		c.Upload.RegisterPart,
		c.Upload.CancelUpload,
		c.Upload.GetUploadStatus,
		c.Upload.GenerateUploadURLs,
		c.Upload.ListUploads,
	)
}
