package valueobject

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewStorageKey_ContainsWorkspaceUserAndFileName(t *testing.T) {
	userID := uuid.New()
	fileName, _ := NewFileName("clip.mp3")

	key := NewStorageKey("ws1", userID, fileName)

	if !strings.HasPrefix(key.Value(), "audio/ws1/"+userID.String()+"/") {
		t.Errorf("unexpected key prefix: %q", key.Value())
	}
	if !strings.HasSuffix(key.Value(), "/clip.mp3") {
		t.Errorf("expected key to end with file name, got: %q", key.Value())
	}
}

func TestNewStorageKey_SameInputsProduceDistinctKeys(t *testing.T) {
	userID := uuid.New()
	fileName, _ := NewFileName("clip.mp3")

	a := NewStorageKey("ws1", userID, fileName)
	b := NewStorageKey("ws1", userID, fileName)

	if a.Value() == b.Value() {
		t.Errorf("expected uniquified keys, got identical: %q", a.Value())
	}
}

func TestNewStorageKeyFromString_RoundTrip(t *testing.T) {
	userID := uuid.New()
	fileName, _ := NewFileName("clip.mp3")
	original := NewStorageKey("ws1", userID, fileName)

	parsed, err := NewStorageKeyFromString(original.Value())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Value() != original.Value() {
		t.Errorf("got %q, want %q", parsed.Value(), original.Value())
	}
	if parsed.WorkspaceID() != "ws1" {
		t.Errorf("got workspace %q, want %q", parsed.WorkspaceID(), "ws1")
	}
	if parsed.FileName() != "clip.mp3" {
		t.Errorf("got file name %q, want %q", parsed.FileName(), "clip.mp3")
	}
}

func TestNewStorageKeyFromString_EmptyKey_ReturnsError(t *testing.T) {
	_, err := NewStorageKeyFromString("")

	if err == nil {
		t.Error("expected error for empty key")
	}
}

func TestNewStorageKeyFromString_WrongPrefix_ReturnsError(t *testing.T) {
	_, err := NewStorageKeyFromString("video/ws1/" + uuid.NewString() + "/" + uuid.NewString() + "/clip.mp3")

	if err == nil {
		t.Error("expected error for wrong prefix")
	}
}

func TestNewStorageKeyFromString_InvalidUniquifier_ReturnsError(t *testing.T) {
	_, err := NewStorageKeyFromString("audio/ws1/" + uuid.NewString() + "/not-a-uuid/clip.mp3")

	if err == nil {
		t.Error("expected error for invalid uniquifier")
	}
}
