package entity

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
)

// CompletedPart はアップロード済みパートを表します
type CompletedPart struct {
	PartNumber int
	ETag       string
	Size       int64
	Checksum   string
}

// MultipartSession は進行中マルチパートアップロードのインメモリ状態です
// uploadIdごとに最大1つ存在し、initializeUploadで生成され、
// finalizeまたはcancelUploadで破棄されます。
//
// パート記録と完了判定はセッション内部のミューテックスで直列化されます。
// 同一uploadIdのチャンクは並行に到着し得るため、「パート追加→完了チェック」を
// 1クリティカルセクションで行わないと、更新消失や二重finalizeが起こります。
type MultipartSession struct {
	UploadID       uuid.UUID
	RemoteUploadID string
	StorageKey     valueobject.StorageKey
	Strategy       UploadStrategy

	mu         sync.Mutex
	parts      map[int]CompletedPart // partNumberをキーとする
	finalizing bool
}

// NewMultipartSession は新しいMultipartSessionを作成します
func NewMultipartSession(
	uploadID uuid.UUID,
	remoteUploadID string,
	storageKey valueobject.StorageKey,
	strategy UploadStrategy,
) *MultipartSession {
	return &MultipartSession{
		UploadID:       uploadID,
		RemoteUploadID: remoteUploadID,
		StorageKey:     storageKey,
		Strategy:       strategy,
		parts:          make(map[int]CompletedPart),
	}
}

// RecordPart はパートを記録し、記録済みの重複しないパート数と
// finalizeを開始すべきかどうかを返します
// 同じpartNumberの再記録は前回のETagを上書きします（パート単位で冪等）。
// shouldFinalizeがtrueになるのは、重複しないパート数がtotalChunksに達した
// 最初の呼び出しの1回だけです。並行呼び出しが両方完了を観測しても、
// finalizeの起動は単一の勝者に限定されます。
func (s *MultipartSession) RecordPart(part CompletedPart, totalChunks int) (count int, shouldFinalize bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.parts[part.PartNumber] = part
	count = len(s.parts)

	if count == totalChunks && !s.finalizing {
		s.finalizing = true
		shouldFinalize = true
	}

	return count, shouldFinalize
}

// PartCount は記録済みの重複しないパート数を返します
func (s *MultipartSession) PartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parts)
}

// SortedParts はpartNumber昇順のパート一覧のコピーを返します
// partNumberはマップのキーなので一意性は構成上保証されています。
func (s *MultipartSession) SortedParts() []CompletedPart {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := make([]CompletedPart, 0, len(s.parts))
	for _, part := range s.parts {
		parts = append(parts, part)
	}

	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})

	return parts
}

// TotalSize は記録済みパートの合計サイズを返します
func (s *MultipartSession) TotalSize() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, part := range s.parts {
		total += part.Size
	}
	return total
}

// IsFinalizing はfinalizeが開始済みかどうかを判定します
func (s *MultipartSession) IsFinalizing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizing
}

// IsServerProxied はコーディネーター経由方式かどうかを判定します
func (s *MultipartSession) IsServerProxied() bool {
	return s.Strategy == UploadStrategyServerProxied
}

// IsClientDirect はクライアント直接方式かどうかを判定します
func (s *MultipartSession) IsClientDirect() bool {
	return s.Strategy == UploadStrategyClientDirect
}
