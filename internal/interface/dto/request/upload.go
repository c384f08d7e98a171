package request

// InitiateUploadRequest はアップロード初期化リクエストです
type InitiateUploadRequest struct {
	FileName string            `json:"fileName" validate:"required,filename"`
	MimeType string            `json:"mimeType" validate:"required,mimetype"`
	FileSize int64             `json:"fileSize" validate:"required,gt=0"`
	Strategy string            `json:"strategy" validate:"omitempty,oneof=server_proxied client_direct"`
	Metadata map[string]string `json:"metadata"`
}

// RegisterPartRequest はclient_direct方式のパート完了報告リクエストです
type RegisterPartRequest struct {
	ChunkIndex  int    `json:"chunkIndex" validate:"gte=0"`
	TotalChunks int    `json:"totalChunks" validate:"required,gt=0"`
	Size        int64  `json:"size" validate:"required,gt=0"`
	ETag        string `json:"etag" validate:"required"`
}

// GenerateUploadURLsRequest はPresigned URL一括生成リクエストです
type GenerateUploadURLsRequest struct {
	TotalChunks int `json:"totalChunks" validate:"required,gt=0"`
}
