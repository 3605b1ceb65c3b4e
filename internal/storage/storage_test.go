package storage

import (
	"testing"
	"time"

	"github.com/lotverify/docscan/internal/workflow"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	store := New()

	id := NewSessionID()
	if id == "" {
		t.Fatal("Expected a non-empty session ID")
	}
	if other := NewSessionID(); other == id {
		t.Fatal("Session IDs must be unique")
	}

	session := &ScanSession{
		ID:        id,
		State:     workflow.StateReviewed,
		CreatedAt: time.Now(),
	}
	store.Set(id, session)

	got, exists := store.Get(id)
	if !exists {
		t.Fatal("Expected session to exist after Set")
	}
	if got.State != workflow.StateReviewed {
		t.Errorf("Expected reviewed state, got %q", got.State)
	}
}

func TestSessionStoreGetMissing(t *testing.T) {
	store := New()

	if _, exists := store.Get("nope"); exists {
		t.Error("Expected missing session to report exists=false")
	}
}

func TestSessionStoreGetAll(t *testing.T) {
	store := New()
	store.Set("a", &ScanSession{ID: "a", State: workflow.StateEmpty})
	store.Set("b", &ScanSession{ID: "b", State: workflow.StateError})

	all := store.GetAll()
	if len(all) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(all))
	}

	// The returned map is a copy; mutating it must not affect the store.
	delete(all, "a")
	if _, exists := store.Get("a"); !exists {
		t.Error("Deleting from the GetAll copy must not touch the store")
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := New()
	store.Set("a", &ScanSession{ID: "a"})

	store.Delete("a")

	if _, exists := store.Get("a"); exists {
		t.Error("Expected session gone after Delete")
	}
}
