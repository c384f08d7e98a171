package di

import (
	"github.com/Hiro-mackay/audio-ingest/internal/interface/middleware"
)

// Middlewares はアプリケーションのミドルウェアを保持します
type Middlewares struct {
	RateLimit *middleware.RateLimitMiddleware
}

// NewMiddlewares はContainerから全てのミドルウェアを初期化します
func NewMiddlewares(c *Container) *Middlewares {
	return &Middlewares{
		RateLimit: middleware.NewRateLimitMiddleware(c.RateLimiter),
	}
}
