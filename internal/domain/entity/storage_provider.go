package entity

import (
	"time"

	"github.com/google/uuid"
)

// StorageProviderType はプロバイダー種別を表します
type StorageProviderType string

const (
	StorageProviderTypeS3    StorageProviderType = "s3"
	StorageProviderTypeMinIO StorageProviderType = "minio"
)

// StorageProvider はオブジェクトストレージプロバイダーのディスクリプタです
// find-or-createで解決され、FileStorageから参照されます。
type StorageProvider struct {
	ID                uuid.UUID
	Name              string
	Type              StorageProviderType
	Endpoint          string
	Region            string
	Bucket            string
	CDNEndpoint       string
	SupportsMultipart bool
	SupportsPresigned bool
	CreatedAt         time.Time
}

// NewStorageProvider は新しいStorageProviderを作成します
func NewStorageProvider(
	name string,
	providerType StorageProviderType,
	endpoint string,
	region string,
	bucket string,
	cdnEndpoint string,
) *StorageProvider {
	return &StorageProvider{
		ID:                uuid.New(),
		Name:              name,
		Type:              providerType,
		Endpoint:          endpoint,
		Region:            region,
		Bucket:            bucket,
		CDNEndpoint:       cdnEndpoint,
		SupportsMultipart: true,
		SupportsPresigned: true,
		CreatedAt:         time.Now(),
	}
}

// ReconstructStorageProvider はDBからStorageProviderを復元します
func ReconstructStorageProvider(
	id uuid.UUID,
	name string,
	providerType StorageProviderType,
	endpoint string,
	region string,
	bucket string,
	cdnEndpoint string,
	supportsMultipart bool,
	supportsPresigned bool,
	createdAt time.Time,
) *StorageProvider {
	return &StorageProvider{
		ID:                id,
		Name:              name,
		Type:              providerType,
		Endpoint:          endpoint,
		Region:            region,
		Bucket:            bucket,
		CDNEndpoint:       cdnEndpoint,
		SupportsMultipart: supportsMultipart,
		SupportsPresigned: supportsPresigned,
		CreatedAt:         createdAt,
	}
}
