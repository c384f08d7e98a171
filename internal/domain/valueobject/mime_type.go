package valueobject

import (
	"errors"
	"strings"
)

var (
	ErrInvalidMimeType = errors.New("invalid MIME type")
)

// MimeCategory はMIMEタイプのカテゴリを表す
type MimeCategory string

const (
	MimeCategoryAudio MimeCategory = "audio"
	MimeCategoryVideo MimeCategory = "video"
	MimeCategoryOther MimeCategory = "other"
)

// MimeType はMIMEタイプを表す値オブジェクト
type MimeType struct {
	value    string
	category MimeCategory
}

// NewMimeType は文字列からMimeTypeを生成します
func NewMimeType(mimeType string) (MimeType, error) {
	trimmed := strings.TrimSpace(mimeType)

	if trimmed == "" {
		return MimeType{}, ErrInvalidMimeType
	}

	// 基本的な形式チェック（type/subtype）
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return MimeType{}, ErrInvalidMimeType
	}

	value := strings.ToLower(trimmed)

	return MimeType{value: value, category: categorize(value)}, nil
}

// categorize はMIMEタイプからカテゴリを判定します
func categorize(mimeType string) MimeCategory {
	switch strings.SplitN(mimeType, "/", 2)[0] {
	case "audio":
		return MimeCategoryAudio
	case "video":
		return MimeCategoryVideo
	default:
		return MimeCategoryOther
	}
}

// Value は値を返します
func (m MimeType) Value() string {
	return m.value
}

// Category はカテゴリを返します
func (m MimeType) Category() MimeCategory {
	return m.category
}

// String は文字列を返します（Stringerインターフェース）
func (m MimeType) String() string {
	return m.value
}

// IsAudio は音声MIMEタイプかどうかを判定します
func (m MimeType) IsAudio() bool {
	return m.category == MimeCategoryAudio
}

// IsVideo は動画MIMEタイプかどうかを判定します
func (m MimeType) IsVideo() bool {
	return m.category == MimeCategoryVideo
}

// Equals は等価性を判定します
func (m MimeType) Equals(other MimeType) bool {
	return m.value == other.value
}

// 一般的なMIMEタイプ定数
var (
	MimeTypeOctetStream = MimeType{value: "application/octet-stream", category: MimeCategoryOther}
	MimeTypeAudioMP3    = MimeType{value: "audio/mpeg", category: MimeCategoryAudio}
	MimeTypeAudioWAV    = MimeType{value: "audio/wav", category: MimeCategoryAudio}
	MimeTypeAudioFLAC   = MimeType{value: "audio/flac", category: MimeCategoryAudio}
	MimeTypeAudioOgg    = MimeType{value: "audio/ogg", category: MimeCategoryAudio}
)
