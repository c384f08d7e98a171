package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

const (
	HeaderUserID      = "X-User-ID"
	HeaderWorkspaceID = "X-Workspace-ID"

	ContextKeyUserID      = "user_id"
	ContextKeyWorkspaceID = "workspace_id"
)

// Identity は呼び出し元の識別情報を取り込むミドルウェアを返します
// 認証は上流のAPIゲートウェイで完了している前提で、検証済みの
// ユーザーIDとワークスペースIDをヘッダーから受け取ります。
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(HeaderUserID)
			if userID == "" {
				return apperror.NewInvalidRequestError("missing " + HeaderUserID + " header")
			}
			if _, err := uuid.Parse(userID); err != nil {
				return apperror.NewInvalidRequestError("invalid " + HeaderUserID + " header")
			}

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyWorkspaceID, c.Request().Header.Get(HeaderWorkspaceID))

			return next(c)
		}
	}
}

// GetUserID はコンテキストからユーザーIDを取得します
func GetUserID(c echo.Context) string {
	if id, ok := c.Get(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

// GetUserUUID はコンテキストからユーザーIDをUUIDとして取得します
func GetUserUUID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(GetUserID(c))
	if err != nil {
		return uuid.Nil, apperror.NewInvalidRequestError("invalid user id")
	}
	return id, nil
}

// GetWorkspaceID はコンテキストからワークスペースIDを取得します
func GetWorkspaceID(c echo.Context) string {
	if id, ok := c.Get(ContextKeyWorkspaceID).(string); ok {
		return id
	}
	return ""
}
