package entity

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/audio-ingest/internal/domain/valueobject"
)

func newTestSession(strategy UploadStrategy) *MultipartSession {
	userID := uuid.New()
	fileName, _ := valueobject.NewFileName("podcast.wav")
	key := valueobject.NewStorageKey("ws1", userID, fileName)
	return NewMultipartSession(uuid.New(), "remote-upload-id", key, strategy)
}

func TestMultipartSession_RecordPart_CountsDistinctParts(t *testing.T) {
	s := newTestSession(UploadStrategyServerProxied)

	count, finalize := s.RecordPart(CompletedPart{PartNumber: 1, ETag: "etag-1", Size: 100}, 3)
	if count != 1 || finalize {
		t.Errorf("got count=%d finalize=%v, want count=1 finalize=false", count, finalize)
	}

	count, finalize = s.RecordPart(CompletedPart{PartNumber: 2, ETag: "etag-2", Size: 100}, 3)
	if count != 2 || finalize {
		t.Errorf("got count=%d finalize=%v, want count=2 finalize=false", count, finalize)
	}
}

func TestMultipartSession_RecordPart_SamePartOverwritesETag(t *testing.T) {
	s := newTestSession(UploadStrategyServerProxied)

	s.RecordPart(CompletedPart{PartNumber: 1, ETag: "old", Size: 100}, 3)
	count, finalize := s.RecordPart(CompletedPart{PartNumber: 1, ETag: "new", Size: 100}, 3)

	if count != 1 {
		t.Errorf("got count %d, want 1 (re-upload must not duplicate)", count)
	}
	if finalize {
		t.Error("re-upload of a single part must not trigger finalize")
	}

	parts := s.SortedParts()
	if len(parts) != 1 || parts[0].ETag != "new" {
		t.Errorf("expected single part with overwritten etag, got: %+v", parts)
	}
}

func TestMultipartSession_RecordPart_LastDistinctPartTriggersFinalizeOnce(t *testing.T) {
	s := newTestSession(UploadStrategyServerProxied)

	s.RecordPart(CompletedPart{PartNumber: 1, ETag: "e1"}, 2)
	_, finalize := s.RecordPart(CompletedPart{PartNumber: 2, ETag: "e2"}, 2)
	if !finalize {
		t.Fatal("expected finalize to be triggered on last distinct part")
	}

	// 完了後の再記録でfinalizeが再発火してはならない
	_, finalize = s.RecordPart(CompletedPart{PartNumber: 2, ETag: "e2b"}, 2)
	if finalize {
		t.Error("finalize must only be triggered once")
	}
}

func TestMultipartSession_SortedParts_AscendingRegardlessOfArrival(t *testing.T) {
	s := newTestSession(UploadStrategyServerProxied)

	// 到着順 3, 1, 2
	s.RecordPart(CompletedPart{PartNumber: 3, ETag: "e3"}, 3)
	s.RecordPart(CompletedPart{PartNumber: 1, ETag: "e1"}, 3)
	s.RecordPart(CompletedPart{PartNumber: 2, ETag: "e2"}, 3)

	parts := s.SortedParts()
	for i, part := range parts {
		if part.PartNumber != i+1 {
			t.Fatalf("parts not ascending: %+v", parts)
		}
	}
}

func TestMultipartSession_RecordPart_ConcurrentSingleWinner(t *testing.T) {
	const totalChunks = 32
	s := newTestSession(UploadStrategyServerProxied)

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < totalChunks; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, finalize := s.RecordPart(CompletedPart{
				PartNumber: idx + 1,
				ETag:       fmt.Sprintf("etag-%d", idx+1),
				Size:       1,
			}, totalChunks)
			if finalize {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("got %d finalize winners, want exactly 1", winners)
	}
	if s.PartCount() != totalChunks {
		t.Errorf("got %d parts, want %d", s.PartCount(), totalChunks)
	}
}

func TestMultipartSession_TotalSize_SumsParts(t *testing.T) {
	s := newTestSession(UploadStrategyServerProxied)

	s.RecordPart(CompletedPart{PartNumber: 1, ETag: "e1", Size: 100}, 3)
	s.RecordPart(CompletedPart{PartNumber: 2, ETag: "e2", Size: 250}, 3)

	if s.TotalSize() != 350 {
		t.Errorf("got total size %d, want 350", s.TotalSize())
	}
}

func TestMultipartSession_StrategyPredicates(t *testing.T) {
	proxied := newTestSession(UploadStrategyServerProxied)
	direct := newTestSession(UploadStrategyClientDirect)

	if !proxied.IsServerProxied() || proxied.IsClientDirect() {
		t.Error("expected server-proxied session")
	}
	if !direct.IsClientDirect() || direct.IsServerProxied() {
		t.Error("expected client-direct session")
	}
}
