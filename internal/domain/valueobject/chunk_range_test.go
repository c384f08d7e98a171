package valueobject

import (
	"testing"
)

const testNominalChunkSize = 10 * 1024 * 1024

func TestNewChunkRange_FirstChunk_StartsAtZero(t *testing.T) {
	r, err := NewChunkRange(0, testNominalChunkSize, testNominalChunkSize)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Start() != 0 {
		t.Errorf("got start %d, want 0", r.Start())
	}
	if r.End() != testNominalChunkSize {
		t.Errorf("got end %d, want %d", r.End(), testNominalChunkSize)
	}
}

func TestNewChunkRange_OffsetUsesNominalSize(t *testing.T) {
	r, err := NewChunkRange(3, testNominalChunkSize, testNominalChunkSize)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Start() != 3*testNominalChunkSize {
		t.Errorf("got start %d, want %d", r.Start(), 3*testNominalChunkSize)
	}
}

func TestNewChunkRange_ShortFinalChunk_UsesActualSize(t *testing.T) {
	const actual = 1234567

	r, err := NewChunkRange(2, testNominalChunkSize, actual)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Length() != actual {
		t.Errorf("got length %d, want %d", r.Length(), actual)
	}
	if r.End() != 2*testNominalChunkSize+actual {
		t.Errorf("got end %d, want %d", r.End(), 2*testNominalChunkSize+actual)
	}
}

func TestNewChunkRange_NegativeIndex_ReturnsError(t *testing.T) {
	_, err := NewChunkRange(-1, testNominalChunkSize, testNominalChunkSize)

	if err != ErrInvalidChunkIndex {
		t.Errorf("expected ErrInvalidChunkIndex, got: %v", err)
	}
}

func TestNewChunkRange_ZeroSize_ReturnsError(t *testing.T) {
	_, err := NewChunkRange(0, testNominalChunkSize, 0)

	if err != ErrInvalidChunkSize {
		t.Errorf("expected ErrInvalidChunkSize, got: %v", err)
	}
}
