package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/entity"
	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
)

func newSession(t *testing.T) *entity.MultipartSession {
	t.Helper()
	fileName, err := valueobject.NewFileName("interview.flac")
	if err != nil {
		t.Fatal(err)
	}
	key := valueobject.NewStorageKey("ws1", uuid.New(), fileName)
	return entity.NewMultipartSession(uuid.New(), "remote-id", key, entity.UploadStrategyServerProxied)
}

func TestTable_RegisterAndGet(t *testing.T) {
	table := NewTable()
	s := newSession(t)

	if !table.Register(s) {
		t.Fatal("first register should succeed")
	}
	if table.Register(s) {
		t.Error("duplicate register should fail")
	}

	got, ok := table.Get(s.UploadID)
	if !ok || got != s {
		t.Error("expected to get back the registered session")
	}
	if table.Len() != 1 {
		t.Errorf("got len %d, want 1", table.Len())
	}
}

func TestTable_GetUnknownUploadID(t *testing.T) {
	table := NewTable()

	if _, ok := table.Get(uuid.New()); ok {
		t.Error("unknown uploadId must not resolve to a session")
	}
}

func TestTable_Remove(t *testing.T) {
	table := NewTable()
	s := newSession(t)
	table.Register(s)

	if !table.Remove(s.UploadID) {
		t.Error("remove of registered session should return true")
	}
	if table.Remove(s.UploadID) {
		t.Error("second remove should return false")
	}
	if _, ok := table.Get(s.UploadID); ok {
		t.Error("removed session must not be resolvable")
	}
}

func TestTable_ConcurrentAccess(t *testing.T) {
	table := NewTable()
	const n = 64

	var wg sync.WaitGroup
	sessions := make([]*entity.MultipartSession, n)
	for i := 0; i < n; i++ {
		sessions[i] = newSession(t)
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(s *entity.MultipartSession) {
			defer wg.Done()
			table.Register(s)
			table.Get(s.UploadID)
		}(sessions[i])
	}
	wg.Wait()

	if table.Len() != n {
		t.Errorf("got len %d, want %d", table.Len(), n)
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(s *entity.MultipartSession) {
			defer wg.Done()
			table.Remove(s.UploadID)
		}(sessions[i])
	}
	wg.Wait()

	if table.Len() != 0 {
		t.Errorf("got len %d after removal, want 0", table.Len())
	}
}
