package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// FakeProgressCache is an in-memory stand-in for service.ProgressCache
type FakeProgressCache struct {
	mu       sync.Mutex
	progress map[uuid.UUID]int
}

func NewFakeProgressCache() *FakeProgressCache {
	return &FakeProgressCache{progress: make(map[uuid.UUID]int)}
}

func (f *FakeProgressCache) SetProgress(_ context.Context, uploadID uuid.UUID, progress int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress[uploadID] = progress
}

func (f *FakeProgressCache) GetProgress(_ context.Context, uploadID uuid.UUID) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.progress[uploadID]
	return p, ok
}

func (f *FakeProgressCache) Delete(_ context.Context, uploadID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.progress, uploadID)
}
