package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
)

// CompletedPart は完了したパート情報を表します
type CompletedPart struct {
	PartNumber int
	ETag       string
}

// PresignedPartURL はパートアップロード用Presigned URLを表します
type PresignedPartURL struct {
	PartNumber int
	URL        string
	ExpiresAt  time.Time
}

// MultipartService はS3互換マルチパートアップロードを提供します
// minio-goのCore APIを使用し、パートはストレージ側のuploadIdに紐付きます。
type MultipartService struct {
	core       *minio.Core
	bucketName string
}

// NewMultipartService は新しいMultipartServiceを作成します
func NewMultipartService(client *MinIOClient) *MultipartService {
	return &MultipartService{
		core:       client.Core(),
		bucketName: client.BucketName(),
	}
}

// Create はマルチパートアップロードを開始し、ストレージ側のuploadIdを返します
func (s *MultipartService) Create(ctx context.Context, objectKey string, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}

	uploadID, err := s.core.NewMultipartUpload(ctx, s.bucketName, objectKey, opts)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart upload: %w", err)
	}

	return uploadID, nil
}

// UploadPart は単一パートをアップロードし、ETagを返します
func (s *MultipartService) UploadPart(
	ctx context.Context,
	objectKey string,
	uploadID string,
	partNumber int,
	body []byte,
) (string, error) {
	part, err := s.core.PutObjectPart(
		ctx,
		s.bucketName,
		objectKey,
		uploadID,
		partNumber,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectPartOptions{},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload part %d: %w", partNumber, err)
	}

	return part.ETag, nil
}

// Complete はマルチパートアップロードを完了します
// パートはpartNumber昇順で送信しなければなりません。
func (s *MultipartService) Complete(
	ctx context.Context,
	objectKey string,
	uploadID string,
	parts []CompletedPart,
) error {
	sorted := make([]CompletedPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	completeParts := make([]minio.CompletePart, len(sorted))
	for i, p := range sorted {
		completeParts[i] = minio.CompletePart{
			PartNumber: p.PartNumber,
			ETag:       p.ETag,
		}
	}

	_, err := s.core.CompleteMultipartUpload(
		ctx,
		s.bucketName,
		objectKey,
		uploadID,
		completeParts,
		minio.PutObjectOptions{},
	)
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}

	return nil
}

// Abort はマルチパートアップロードを中止し、アップロード済みパートを破棄します
func (s *MultipartService) Abort(ctx context.Context, objectKey string, uploadID string) error {
	if err := s.core.AbortMultipartUpload(ctx, s.bucketName, objectKey, uploadID); err != nil {
		return fmt.Errorf("failed to abort multipart upload: %w", err)
	}
	return nil
}

// GeneratePartURL はパートアップロード用Presigned URLを生成します
// クライアントはこのURLに対してPUTすることでストレージへ直接パートを送信します。
func (s *MultipartService) GeneratePartURL(
	ctx context.Context,
	objectKey string,
	uploadID string,
	partNumber int,
	expiry time.Duration,
) (*PresignedPartURL, error) {
	reqParams := make(url.Values)
	reqParams.Set("uploadId", uploadID)
	reqParams.Set("partNumber", strconv.Itoa(partNumber))

	presignedURL, err := s.core.Client.Presign(
		ctx,
		"PUT",
		s.bucketName,
		objectKey,
		expiry,
		reqParams,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate part upload URL: %w", err)
	}

	return &PresignedPartURL{
		PartNumber: partNumber,
		URL:        presignedURL.String(),
		ExpiresAt:  time.Now().Add(expiry),
	}, nil
}
