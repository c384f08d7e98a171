package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	StorageKeyMaxBytes = 1024
	storageKeyPrefix   = "audio"
)

var (
	ErrInvalidStorageKey = errors.New("invalid storage key")
)

// StorageKey はオブジェクトストレージ内のキーを表す値オブジェクト
// 形式: audio/{workspace_id}/{user_id}/{uniquifier}/{file_name}
// workspace/user/ファイル名に対して決定的でありつつ、uniquifier（UUID）で
// 同名ファイルの衝突を回避します。
type StorageKey struct {
	value string
}

// NewStorageKey はworkspace/user/ファイル名からStorageKeyを生成します
// uniquifierは呼び出しごとに新規生成されます。
func NewStorageKey(workspaceID string, userID uuid.UUID, fileName FileName) StorageKey {
	return StorageKey{
		value: fmt.Sprintf("%s/%s/%s/%s/%s",
			storageKeyPrefix, workspaceID, userID, uuid.New(), fileName),
	}
}

// NewStorageKeyFromString は文字列からStorageKeyを復元します
func NewStorageKeyFromString(key string) (StorageKey, error) {
	if key == "" {
		return StorageKey{}, fmt.Errorf("%w: empty key", ErrInvalidStorageKey)
	}

	if len(key) > StorageKeyMaxBytes {
		return StorageKey{}, fmt.Errorf("%w: key too long", ErrInvalidStorageKey)
	}

	parts := strings.Split(key, "/")
	if len(parts) < 5 || parts[0] != storageKeyPrefix {
		return StorageKey{}, fmt.Errorf("%w: %s", ErrInvalidStorageKey, key)
	}

	if _, err := uuid.Parse(parts[2]); err != nil {
		return StorageKey{}, fmt.Errorf("%w: invalid user id: %v", ErrInvalidStorageKey, err)
	}

	if _, err := uuid.Parse(parts[3]); err != nil {
		return StorageKey{}, fmt.Errorf("%w: invalid uniquifier: %v", ErrInvalidStorageKey, err)
	}

	return StorageKey{value: key}, nil
}

// Value はキー文字列を返します
func (k StorageKey) Value() string {
	return k.value
}

// String はキー文字列を返します（Stringerインターフェース）
func (k StorageKey) String() string {
	return k.value
}

// IsEmpty はキーが空かどうかを判定します
func (k StorageKey) IsEmpty() bool {
	return k.value == ""
}

// WorkspaceID はキーからworkspace IDを取り出します
func (k StorageKey) WorkspaceID() string {
	parts := strings.Split(k.value, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// FileName はキーからファイル名部分を取り出します
func (k StorageKey) FileName() string {
	parts := strings.Split(k.value, "/")
	if len(parts) < 5 {
		return ""
	}
	return strings.Join(parts[4:], "/")
}
