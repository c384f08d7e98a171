package handler

import (
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/audio-ingest/internal/interface/dto/request"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/dto/response"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/middleware"
	"github.com/Hiro-mackay/audio-ingest/internal/interface/presenter"
	uploadcmd "github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/command"
	uploadqry "github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/query"
	"github.com/Hiro-mackay/audio-ingest/pkg/apperror"
)

// UploadHandler はアップロード関連のHTTPハンドラーです
type UploadHandler struct {
	initiateUploadCommand   *uploadcmd.InitiateUploadCommand
	uploadFileCommand       *uploadcmd.UploadFileCommand
	uploadChunkCommand      *uploadcmd.UploadChunkCommand
	registerPartCommand     *uploadcmd.RegisterPartCommand
	cancelUploadCommand     *uploadcmd.CancelUploadCommand
	getUploadStatusQuery    *uploadqry.GetUploadStatusQuery
	generateUploadURLsQuery *uploadqry.GenerateUploadURLsQuery
	listUploadsQuery        *uploadqry.ListUploadsQuery
}

// NewUploadHandler は新しいUploadHandlerを作成します
func NewUploadHandler(
	initiateUploadCommand *uploadcmd.InitiateUploadCommand,
	uploadFileCommand *uploadcmd.UploadFileCommand,
	uploadChunkCommand *uploadcmd.UploadChunkCommand,
	registerPartCommand *uploadcmd.RegisterPartCommand,
	cancelUploadCommand *uploadcmd.CancelUploadCommand,
	getUploadStatusQuery *uploadqry.GetUploadStatusQuery,
	generateUploadURLsQuery *uploadqry.GenerateUploadURLsQuery,
	listUploadsQuery *uploadqry.ListUploadsQuery,
) *UploadHandler {
	return &UploadHandler{
		initiateUploadCommand:   initiateUploadCommand,
		uploadFileCommand:       uploadFileCommand,
		uploadChunkCommand:      uploadChunkCommand,
		registerPartCommand:     registerPartCommand,
		cancelUploadCommand:     cancelUploadCommand,
		getUploadStatusQuery:    getUploadStatusQuery,
		generateUploadURLsQuery: generateUploadURLsQuery,
		listUploadsQuery:        listUploadsQuery,
	}
}

// InitiateUpload はアップロードを初期化します
// POST /uploads
func (h *UploadHandler) InitiateUpload(c echo.Context) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req request.InitiateUploadRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.initiateUploadCommand.Execute(c.Request().Context(), uploadcmd.InitiateUploadInput{
		UserID:      userID,
		WorkspaceID: middleware.GetWorkspaceID(c),
		FileName:    req.FileName,
		MimeType:    req.MimeType,
		FileSize:    req.FileSize,
		Metadata:    req.Metadata,
		Strategy:    req.Strategy,
	})
	if err != nil {
		return err
	}

	return presenter.Created(c, response.ToInitiateUploadResponse(output))
}

// UploadFile は閾値以下のファイルを単発でアップロードします
// PUT /uploads/:uploadId/file
func (h *UploadHandler) UploadFile(c echo.Context) error {
	uploadID, err := parseUploadID(c)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperror.NewValidationError("failed to read request body", nil)
	}

	output, err := h.uploadFileCommand.Execute(c.Request().Context(), uploadcmd.UploadFileInput{
		UploadID: uploadID,
		Data:     data,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToUploadFileResponse(output))
}

// UploadChunk はチャンクを受信します
// PUT /uploads/:uploadId/chunks/:chunkIndex?totalChunks=N
func (h *UploadHandler) UploadChunk(c echo.Context) error {
	uploadID, err := parseUploadID(c)
	if err != nil {
		return err
	}

	chunkIndex, err := strconv.Atoi(c.Param("chunkIndex"))
	if err != nil {
		return apperror.NewValidationError("invalid chunk index", nil)
	}

	totalChunks, err := strconv.Atoi(c.QueryParam("totalChunks"))
	if err != nil {
		return apperror.NewValidationError("totalChunks query parameter is required", nil)
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperror.NewValidationError("failed to read chunk body", nil)
	}

	output, err := h.uploadChunkCommand.Execute(c.Request().Context(), uploadcmd.UploadChunkInput{
		UploadID:    uploadID,
		ChunkIndex:  chunkIndex,
		TotalChunks: totalChunks,
		Data:        data,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToChunkResponse(output))
}

// RegisterPart はclient_direct方式のパート完了報告を受け付けます
// POST /uploads/:uploadId/parts
func (h *UploadHandler) RegisterPart(c echo.Context) error {
	uploadID, err := parseUploadID(c)
	if err != nil {
		return err
	}

	var req request.RegisterPartRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.registerPartCommand.Execute(c.Request().Context(), uploadcmd.RegisterPartInput{
		UploadID:    uploadID,
		ChunkIndex:  req.ChunkIndex,
		TotalChunks: req.TotalChunks,
		Size:        req.Size,
		ETag:        req.ETag,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToRegisterPartResponse(output))
}

// GenerateUploadURLs はclient_direct方式のパートURLを一括生成します
// POST /uploads/:uploadId/urls
func (h *UploadHandler) GenerateUploadURLs(c echo.Context) error {
	uploadID, err := parseUploadID(c)
	if err != nil {
		return err
	}

	var req request.GenerateUploadURLsRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.generateUploadURLsQuery.Execute(c.Request().Context(), uploadqry.GenerateUploadURLsInput{
		UploadID:    uploadID,
		TotalChunks: req.TotalChunks,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToGenerateUploadURLsResponse(output))
}

// GetUploadStatus はアップロードステータスを取得します
// GET /uploads/:uploadId
func (h *UploadHandler) GetUploadStatus(c echo.Context) error {
	uploadID, err := parseUploadID(c)
	if err != nil {
		return err
	}

	output, err := h.getUploadStatusQuery.Execute(c.Request().Context(), uploadqry.GetUploadStatusInput{
		UploadID: uploadID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToUploadStatusResponse(output))
}

// CancelUpload はアップロードをキャンセルします
// DELETE /uploads/:uploadId
func (h *UploadHandler) CancelUpload(c echo.Context) error {
	uploadID, err := parseUploadID(c)
	if err != nil {
		return err
	}

	output, err := h.cancelUploadCommand.Execute(c.Request().Context(), uploadcmd.CancelUploadInput{
		UploadID: uploadID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.CancelUploadResponse{
		UploadID: output.UploadID.String(),
		Status:   output.Status,
	})
}

// ListUploads はアップロード一覧を取得します
// GET /uploads
func (h *UploadHandler) ListUploads(c echo.Context) error {
	input := uploadqry.ListUploadsInput{
		WorkspaceID: middleware.GetWorkspaceID(c),
	}

	// ワークスペース未指定の場合は呼び出しユーザーの一覧
	if input.WorkspaceID == "" {
		userID, err := middleware.GetUserUUID(c)
		if err != nil {
			return err
		}
		input.UserID = userID
	}

	output, err := h.listUploadsQuery.Execute(c.Request().Context(), input)
	if err != nil {
		return err
	}

	summaries := response.ToUploadSummaryResponses(output)
	return presenter.List(c, summaries, len(summaries))
}

// parseUploadID はパスパラメータからuploadIdを取得します
func parseUploadID(c echo.Context) (uuid.UUID, error) {
	uploadID, err := uuid.Parse(c.Param("uploadId"))
	if err != nil {
		return uuid.Nil, apperror.NewValidationError("invalid upload ID", nil)
	}
	return uploadID, nil
}
