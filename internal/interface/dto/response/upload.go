package response

import (
	"time"

	"github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/command"
	"github.com/Hiro-mackay/audio-ingest/internal/usecase/upload/query"
)

// InitiateUploadResponse はアップロード初期化レスポンスです
type InitiateUploadResponse struct {
	UploadID    string `json:"uploadId"`
	Strategy    string `json:"strategy"`
	IsMultipart bool   `json:"isMultipart"`
	ChunkSize   int64  `json:"chunkSize,omitempty"`
	TotalChunks int    `json:"totalChunks,omitempty"`
}

// ToInitiateUploadResponse は初期化出力をレスポンスへ変換します
func ToInitiateUploadResponse(output *command.InitiateUploadOutput) InitiateUploadResponse {
	return InitiateUploadResponse{
		UploadID:    output.UploadID.String(),
		Strategy:    string(output.Strategy),
		IsMultipart: output.IsMultipart,
		ChunkSize:   output.ChunkSize,
		TotalChunks: output.TotalChunks,
	}
}

// UploadFileResponse は単発アップロードレスポンスです
type UploadFileResponse struct {
	UploadID   string `json:"uploadId"`
	Status     string `json:"status"`
	StorageURL string `json:"storageUrl"`
	CDNURL     string `json:"cdnUrl,omitempty"`
	Checksum   string `json:"checksum"`
}

// ToUploadFileResponse は単発アップロード出力をレスポンスへ変換します
func ToUploadFileResponse(output *command.UploadFileOutput) UploadFileResponse {
	return UploadFileResponse{
		UploadID:   output.UploadID.String(),
		Status:     "completed",
		StorageURL: output.StorageURL,
		CDNURL:     output.CDNURL,
		Checksum:   output.Checksum,
	}
}

// ChunkResponse はチャンク受信・パート報告レスポンスです
type ChunkResponse struct {
	PartNumber     int    `json:"partNumber"`
	ETag           string `json:"etag"`
	Size           int64  `json:"size"`
	ReceivedChunks int    `json:"receivedChunks"`
	Progress       int    `json:"progress"`
	Completed      bool   `json:"completed"`
}

// ToChunkResponse はチャンク受信出力をレスポンスへ変換します
func ToChunkResponse(output *command.UploadChunkOutput) ChunkResponse {
	return ChunkResponse{
		PartNumber:     output.PartNumber,
		ETag:           output.ETag,
		Size:           output.Size,
		ReceivedChunks: output.ReceivedChunks,
		Progress:       output.Progress,
		Completed:      output.Completed,
	}
}

// ToRegisterPartResponse はパート報告出力をレスポンスへ変換します
func ToRegisterPartResponse(output *command.RegisterPartOutput) ChunkResponse {
	return ChunkResponse{
		PartNumber:     output.PartNumber,
		ETag:           output.ETag,
		Size:           output.Size,
		ReceivedChunks: output.ReceivedChunks,
		Progress:       output.Progress,
		Completed:      output.Completed,
	}
}

// UploadStatusResponse はアップロードステータスレスポンスです
type UploadStatusResponse struct {
	UploadID       string                `json:"uploadId"`
	FileName       string                `json:"fileName"`
	FileSize       int64                 `json:"fileSize"`
	MimeType       string                `json:"mimeType"`
	Strategy       string                `json:"strategy"`
	Status         string                `json:"status"`
	Progress       int                   `json:"progress"`
	ReceivedChunks int                   `json:"receivedChunks"`
	Chunks         []ChunkDetailResponse `json:"chunks,omitempty"`
	StorageURL     string                `json:"storageUrl,omitempty"`
	CDNURL         string                `json:"cdnUrl,omitempty"`
	Checksum       string                `json:"checksum,omitempty"`
	FailureReason  string                `json:"failureReason,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// ChunkDetailResponse は受信済みチャンクのレスポンスです
type ChunkDetailResponse struct {
	ChunkIndex int       `json:"chunkIndex"`
	RangeStart int64     `json:"rangeStart"`
	RangeEnd   int64     `json:"rangeEnd"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ToUploadStatusResponse はステータス出力をレスポンスへ変換します
func ToUploadStatusResponse(output *query.GetUploadStatusOutput) UploadStatusResponse {
	chunks := make([]ChunkDetailResponse, 0, len(output.Chunks))
	for _, c := range output.Chunks {
		chunks = append(chunks, ChunkDetailResponse{
			ChunkIndex: c.ChunkIndex,
			RangeStart: c.RangeStart,
			RangeEnd:   c.RangeEnd,
			Size:       c.Size,
			UploadedAt: c.UploadedAt,
		})
	}

	return UploadStatusResponse{
		UploadID:       output.UploadID.String(),
		FileName:       output.FileName,
		FileSize:       output.FileSize,
		MimeType:       output.MimeType,
		Strategy:       output.Strategy,
		Status:         output.Status,
		Progress:       output.Progress,
		ReceivedChunks: output.ReceivedChunks,
		Chunks:         chunks,
		StorageURL:     output.StorageURL,
		CDNURL:         output.CDNURL,
		Checksum:       output.Checksum,
		FailureReason:  output.FailureReason,
		CreatedAt:      output.CreatedAt,
		UpdatedAt:      output.UpdatedAt,
	}
}

// UploadURLResponse はパートアップロード用URLレスポンスです
type UploadURLResponse struct {
	PartNumber int       `json:"partNumber"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// GenerateUploadURLsResponse はPresigned URL一括生成レスポンスです
type GenerateUploadURLsResponse struct {
	UploadID   string              `json:"uploadId"`
	UploadURLs []UploadURLResponse `json:"uploadUrls"`
	ExpiresAt  time.Time           `json:"expiresAt"`
}

// ToGenerateUploadURLsResponse はURL生成出力をレスポンスへ変換します
func ToGenerateUploadURLsResponse(output *query.GenerateUploadURLsOutput) GenerateUploadURLsResponse {
	urls := make([]UploadURLResponse, 0, len(output.UploadURLs))
	for _, u := range output.UploadURLs {
		urls = append(urls, UploadURLResponse{
			PartNumber: u.PartNumber,
			URL:        u.URL,
			ExpiresAt:  u.ExpiresAt,
		})
	}
	return GenerateUploadURLsResponse{
		UploadID:   output.UploadID.String(),
		UploadURLs: urls,
		ExpiresAt:  output.ExpiresAt,
	}
}

// CancelUploadResponse はキャンセルレスポンスです
type CancelUploadResponse struct {
	UploadID string `json:"uploadId"`
	Status   string `json:"status"`
}

// UploadSummaryResponse は一覧用のアップロード概要です
type UploadSummaryResponse struct {
	UploadID  string    `json:"uploadId"`
	FileName  string    `json:"fileName"`
	FileSize  int64     `json:"fileSize"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUploadSummaryResponses は一覧出力をレスポンスへ変換します
func ToUploadSummaryResponses(output *query.ListUploadsOutput) []UploadSummaryResponse {
	summaries := make([]UploadSummaryResponse, 0, len(output.Uploads))
	for _, u := range output.Uploads {
		summaries = append(summaries, UploadSummaryResponse{
			UploadID:  u.UploadID.String(),
			FileName:  u.FileName,
			FileSize:  u.FileSize,
			Status:    u.Status,
			Progress:  u.Progress,
			CreatedAt: u.CreatedAt,
		})
	}
	return summaries
}
