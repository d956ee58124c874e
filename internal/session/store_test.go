package session

import (
	"context"
	"testing"
	"time"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/hotzone"
	"github.com/dgallion1/docstruct/internal/logging"
)

func newTestStore(ttl time.Duration) *Store {
	return NewStore(ttl, hotzone.DefaultConfig(), logging.NewNop(), nil)
}

func testDocument() *doctree.Document {
	return &doctree.Document{Title: "Notes", Root: doctree.Doc(doctree.Paragraph("x"))}
}

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestStore_CreateGet(t *testing.T) {
	store := newTestStore(time.Hour)
	sess, created := store.Create(testDocument(), "notes.md", "abc")
	if !created {
		t.Fatal("expected a new session")
	}
	if sess.ID == "" {
		t.Fatal("expected a session ID")
	}

	got := store.Get(sess.ID)
	if got == nil {
		t.Fatal("expected to find session")
	}
	if got.Filename != "notes.md" {
		t.Errorf("expected filename %q, got %q", "notes.md", got.Filename)
	}
	if got.Title != "Notes" {
		t.Errorf("expected title %q, got %q", "Notes", got.Title)
	}
	if v := got.Version(); v != 1 {
		t.Errorf("expected version 1, got %d", v)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing session")
	}
}

func TestStore_DedupByContentHash(t *testing.T) {
	store := newTestStore(time.Hour)
	first, _ := store.Create(testDocument(), "a.md", "same")
	second, created := store.Create(testDocument(), "b.md", "same")
	if created {
		t.Error("expected identical content to reuse the session")
	}
	if second.ID != first.ID {
		t.Errorf("expected session %q, got %q", first.ID, second.ID)
	}

	third, created := store.Create(testDocument(), "c.md", "")
	if !created || third.ID == first.ID {
		t.Error("expected an unhashed upload to get its own session")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", store.Len())
	}
}

func TestStore_IDsAreUniqueAndOrdered(t *testing.T) {
	store := newTestStore(time.Hour)
	prev := ""
	for range 50 {
		sess, _ := store.Create(testDocument(), "", "")
		if sess.ID <= prev {
			t.Fatalf("expected increasing IDs, got %q after %q", sess.ID, prev)
		}
		prev = sess.ID
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(time.Hour)
	sess, _ := store.Create(testDocument(), "a.md", "h1")
	if !store.Delete(sess.ID) {
		t.Fatal("expected delete to report an existing session")
	}
	if store.Delete(sess.ID) {
		t.Error("expected second delete to report nothing removed")
	}

	// The hash index goes with the session.
	again, created := store.Create(testDocument(), "a.md", "h1")
	if !created || again.ID == sess.ID {
		t.Error("expected a fresh session after delete")
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	store := newTestStore(time.Millisecond)
	store.Create(testDocument(), "", "old")

	time.Sleep(5 * time.Millisecond)
	if n := store.Cleanup(); n != 1 {
		t.Errorf("expected 1 evicted session, got %d", n)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestStore_CleanupKeepsRecent(t *testing.T) {
	store := newTestStore(time.Hour)
	store.Create(testDocument(), "", "")
	if n := store.Cleanup(); n != 0 {
		t.Errorf("expected nothing evicted, got %d", n)
	}
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	store := newTestStore(time.Millisecond)
	store.Create(testDocument(), "", "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.After(time.Second)
	for store.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("janitor did not evict the idle session")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
