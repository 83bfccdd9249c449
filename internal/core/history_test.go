package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func newTestHistoryStore(t *testing.T) (*HistoryStore, string) {
	t.Helper()

	dir := t.TempDir()
	h, err := NewHistoryStore(dir, DefaultHistoryLimit, newTestLogger())
	if err != nil {
		t.Fatalf("failed to create history store: %v", err)
	}
	return h, dir
}

func TestSanitizeRoomName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"general", "general"},
		{"dev-team_2", "dev-team_2"},
		{"../../etc/passwd", "etcpasswd"},
		{"room with spaces", "roomwithspaces"},
		{"!!!", "general"},
		{"", "general"},
	}
	for _, tc := range cases {
		if got := SanitizeRoomName(tc.in); got != tc.want {
			t.Errorf("SanitizeRoomName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	// Sanitization must be idempotent.
	for _, tc := range cases {
		once := SanitizeRoomName(tc.in)
		if twice := SanitizeRoomName(once); twice != once {
			t.Errorf("SanitizeRoomName not idempotent for %q: %q -> %q", tc.in, once, twice)
		}
	}
}

func TestAppendAndCachedKeepsOrder(t *testing.T) {
	h, _ := newTestHistoryStore(t)

	for i := 0; i < 10; i++ {
		msg := NewMessage("alice", fmt.Sprintf("msg-%d", i), "general")
		if err := h.Append("general", msg); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	cached := h.Cached("general")
	if len(cached) != 10 {
		t.Fatalf("expected 10 cached entries, got %d", len(cached))
	}
	for i, msg := range cached {
		if want := fmt.Sprintf("msg-%d", i); msg.Text != want {
			t.Fatalf("entry %d: got %q, want %q", i, msg.Text, want)
		}
	}
}

func TestCacheEvictsOldestPastLimit(t *testing.T) {
	h, _ := newTestHistoryStore(t)

	total := DefaultHistoryLimit + 20
	for i := 0; i < total; i++ {
		if err := h.Append("general", NewMessage("alice", fmt.Sprintf("msg-%d", i), "general")); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	cached := h.Cached("general")
	if len(cached) != DefaultHistoryLimit {
		t.Fatalf("expected %d cached entries, got %d", DefaultHistoryLimit, len(cached))
	}
	if want := fmt.Sprintf("msg-%d", total-DefaultHistoryLimit); cached[0].Text != want {
		t.Fatalf("oldest cached entry is %q, want %q", cached[0].Text, want)
	}
	if want := fmt.Sprintf("msg-%d", total-1); cached[len(cached)-1].Text != want {
		t.Fatalf("newest cached entry is %q, want %q", cached[len(cached)-1].Text, want)
	}
}

func TestLoadReturnsTailOfDurableLog(t *testing.T) {
	h, _ := newTestHistoryStore(t)

	total := DefaultHistoryLimit + 5
	for i := 0; i < total; i++ {
		if err := h.Append("general", NewMessage("alice", fmt.Sprintf("msg-%d", i), "general")); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	loaded := h.Load("general")
	if len(loaded) != DefaultHistoryLimit {
		t.Fatalf("expected %d loaded entries, got %d", DefaultHistoryLimit, len(loaded))
	}
	if want := fmt.Sprintf("msg-%d", total-1); loaded[len(loaded)-1].Text != want {
		t.Fatalf("newest loaded entry is %q, want %q", loaded[len(loaded)-1].Text, want)
	}
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	h, _ := newTestHistoryStore(t)

	if got := h.Load("nonexistent"); len(got) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(got))
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	h, dir := newTestHistoryStore(t)

	path := filepath.Join(dir, "history_general.jsonl")
	content := `{"type":"message","from":"alice","text":"ok","ts":1,"room":"general"}
not json at all
{"type":"message","from":"bob","text":"fine","ts":2,"room":"general"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loaded := h.Load("general")
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries after skipping malformed line, got %d", len(loaded))
	}
	if loaded[0].From != "alice" || loaded[1].From != "bob" {
		t.Fatalf("unexpected entries: %+v", loaded)
	}
}

func TestCachedPopulatesLazilyFromDisk(t *testing.T) {
	h, dir := newTestHistoryStore(t)

	if err := h.Append("dev", NewMessage("alice", "early", "dev")); err != nil {
		t.Fatalf("append: %v", err)
	}

	// A fresh store over the same directory must pick the log up on first reference.
	h2, err := NewHistoryStore(dir, DefaultHistoryLimit, newTestLogger())
	if err != nil {
		t.Fatalf("reopen history store: %v", err)
	}
	cached := h2.Cached("dev")
	if len(cached) != 1 || cached[0].Text != "early" {
		t.Fatalf("unexpected cache after lazy load: %+v", cached)
	}
}

func TestRoomsOnDisk(t *testing.T) {
	h, _ := newTestHistoryStore(t)

	if err := h.Append("dev", NewMessage("alice", "a", "dev")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := h.Append("ops", NewMessage("alice", "b", "ops")); err != nil {
		t.Fatalf("append: %v", err)
	}

	rooms := h.RoomsOnDisk()
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms on disk, got %v", rooms)
	}
}

func TestSanitizedNamesMayCollide(t *testing.T) {
	h, _ := newTestHistoryStore(t)

	// "dev!" and "dev" collapse to the same log file. Documented behavior.
	if err := h.Append("dev!", NewMessage("alice", "first", "dev!")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := h.Append("dev", NewMessage("bob", "second", "dev")); err != nil {
		t.Fatalf("append: %v", err)
	}

	loaded := h.Load("dev")
	if len(loaded) != 2 {
		t.Fatalf("expected colliding rooms to share a log, got %d entries", len(loaded))
	}
}
