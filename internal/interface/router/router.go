package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/audio-ingest/internal/infrastructure/di"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/middleware"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/presenter"
)

// Router はルート定義を管理します
type Router struct {
	echo        *echo.Echo
	handlers    *di.Handlers
	middlewares *di.Middlewares
}

// NewRouter は新しいRouterを作成します
func NewRouter(e *echo.Echo, handlers *di.Handlers, middlewares *di.Middlewares) *Router {
	return &Router{
		echo:        e,
		handlers:    handlers,
		middlewares: middlewares,
	}
}

// Setup は全てのルートを設定します
func (r *Router) Setup() {
	r.setupHealthRoutes()
	r.setupAPIRoutes()
}

// setupHealthRoutes はヘルスチェックルートを設定します
func (r *Router) setupHealthRoutes() {
	if r.handlers.Health == nil {
		return
	}
	r.echo.GET("/health", r.handlers.Health.Check)
	r.echo.GET("/ready", r.handlers.Health.Ready)
}

// setupAPIRoutes はAPIルートを設定します
func (r *Router) setupAPIRoutes() {
	api := r.echo.Group("/api/v1")

	api.GET("/", func(c echo.Context) error {
		return presenter.OK(c, map[string]string{
			"message": "Audio Ingest API v1",
		})
	})

	r.setupUploadRoutes(api)
}

// setupUploadRoutes はアップロード関連ルートを設定します
func (r *Router) setupUploadRoutes(api *echo.Group) {
	uploads := api.Group("/uploads", middleware.Identity())

	uploads.POST("", r.handlers.Upload.InitiateUpload,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitUploadInit))
	uploads.GET("", r.handlers.Upload.ListUploads)

	uploads.GET("/:uploadId", r.handlers.Upload.GetUploadStatus,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitStatusPoll))
	uploads.DELETE("/:uploadId", r.handlers.Upload.CancelUpload)

	// 単発アップロード（閾値以下）
	uploads.PUT("/:uploadId/file", r.handlers.Upload.UploadFile,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitUploadChunk))

	// コーディネーター経由のチャンク受信
	uploads.PUT("/:uploadId/chunks/:chunkIndex", r.handlers.Upload.UploadChunk,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitUploadChunk))

	// クライアント直接方式
	uploads.POST("/:uploadId/urls", r.handlers.Upload.GenerateUploadURLs)
	uploads.POST("/:uploadId/parts", r.handlers.Upload.RegisterPart,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitUploadChunk))
}
