package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// Logger はリクエストロギングミドルウェアを返します
// チャンク転送の観測のため転送バイト数と呼び出し元の識別情報を記録します。
func Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			latency := time.Since(start)
			status := c.Response().Status

			attrs := []any{
				"request_id", GetRequestID(c),
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"user_id", GetUserID(c),
				"workspace_id", GetWorkspaceID(c),
				"bytes_in", c.Request().ContentLength,
				"bytes_out", c.Response().Size,
			}

			if status >= 500 {
				slog.Error("request", attrs...)
			} else {
				slog.Info("request", attrs...)
			}

			return err
		}
	}
}
