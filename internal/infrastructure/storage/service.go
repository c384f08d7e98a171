package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// ObjectInfo はオブジェクト情報を表します
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
	Metadata     map[string]string
}

// StorageService はストレージ操作を提供する統合サービスです
type StorageService struct {
	client     *minio.Client
	config     Config
	bucketName string
	multipart  *MultipartService
}

// NewStorageService は新しいStorageServiceを作成します
func NewStorageService(client *MinIOClient) *StorageService {
	return &StorageService{
		client:     client.Client(),
		config:     client.Config(),
		bucketName: client.BucketName(),
		multipart:  NewMultipartService(client),
	}
}

// Multipart はマルチパートサービスを返します
func (s *StorageService) Multipart() *MultipartService {
	return s.multipart
}

// PutObject はオブジェクトを単発でアップロードします
func (s *StorageService) PutObject(
	ctx context.Context,
	objectKey string,
	body []byte,
	contentType string,
	metadata map[string]string,
) error {
	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// ObjectExists はオブジェクトが存在するか確認します
func (s *StorageService) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// GetObjectInfo はオブジェクト情報を取得します
func (s *StorageService) GetObjectInfo(ctx context.Context, objectKey string) (*ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object info: %w", err)
	}

	return &ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
		Metadata:     info.UserMetadata,
	}, nil
}

// DeleteObject はオブジェクトを削除します
func (s *StorageService) DeleteObject(ctx context.Context, objectKey string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ObjectURL はオブジェクトの恒久URLを返します
func (s *StorageService) ObjectURL(objectKey string) string {
	scheme := "http"
	if s.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.config.Endpoint, s.bucketName, objectKey)
}

// CDNURL はCDN経由の配信URLを返します
// CDNエンドポイントが未設定の場合は空文字を返します。
func (s *StorageService) CDNURL(objectKey string) string {
	if s.config.CDNEndpoint == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.CDNEndpoint, "/"), objectKey)
}
