package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/service"
)

const shardCount = 16

// shard はテーブルの1分割を表します
type shard struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entity.MultipartSession
}

// Table はアクティブなマルチパートセッションのインメモリテーブルです
// uploadIdのハッシュでシャーディングし、ロック競合を抑えます。
// プロセス再起動でセッションは失われます。進行中のアップロードは
// クライアントが再初期化する前提です。
type Table struct {
	shards [shardCount]*shard
}

// NewTable は新しいTableを作成します
func NewTable() *Table {
	t := &Table{}
	for i := range t.shards {
		t.shards[i] = &shard{
			sessions: make(map[uuid.UUID]*entity.MultipartSession),
		}
	}
	return t
}

var _ service.SessionTable = (*Table)(nil)

func (t *Table) shardFor(uploadID uuid.UUID) *shard {
	// UUIDの最終バイトで十分に分散する
	return t.shards[int(uploadID[15])%shardCount]
}

// Register はセッションを登録します。既に存在する場合はfalseを返します
func (t *Table) Register(session *entity.MultipartSession) bool {
	s := t.shardFor(session.UploadID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.UploadID]; exists {
		return false
	}
	s.sessions[session.UploadID] = session
	return true
}

// Get はuploadIdのセッションを返します
func (t *Table) Get(uploadID uuid.UUID) (*entity.MultipartSession, bool) {
	s := t.shardFor(uploadID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[uploadID]
	return session, ok
}

// Remove はセッションを破棄します。存在した場合trueを返します
func (t *Table) Remove(uploadID uuid.UUID) bool {
	s := t.shardFor(uploadID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[uploadID]; !exists {
		return false
	}
	delete(s.sessions, uploadID)
	return true
}

// Len は登録中のセッション数を返します
func (t *Table) Len() int {
	total := 0
	for _, s := range t.shards {
		s.mu.RLock()
		total += len(s.sessions)
		s.mu.RUnlock()
	}
	return total
}
