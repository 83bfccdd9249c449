package core

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	// DefaultHistoryLimit caps both the in-memory cache and history replay.
	DefaultHistoryLimit = 50

	historyFilePrefix = "history_"
	historyFileSuffix = ".jsonl"
)

// SanitizeRoomName strips everything but alphanumerics, '-' and '_' from a
// room name. An empty result falls back to "general". Distinct unsafe names
// may collapse to the same sanitized name; that is accepted behavior.
func SanitizeRoomName(name string) string {
	var b strings.Builder
	for _, ch := range name {
		if ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '-' || ch == '_' {
			b.WriteRune(ch)
		}
	}
	safe := strings.TrimSpace(b.String())
	if safe == "" {
		return "general"
	}
	return safe
}

// HistoryStore persists room messages as one append-only JSONL file per room
// and keeps a bounded in-memory cache of the most recent entries.
type HistoryStore struct {
	dir   string
	limit int
	log   *zerolog.Logger

	mu    sync.Mutex
	cache map[string][]Message
	locks map[string]*sync.Mutex // per-room file append lock
}

// NewHistoryStore creates the data directory if needed and returns a store.
func NewHistoryStore(dir string, limit int, logger *zerolog.Logger) (*HistoryStore, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &HistoryStore{
		dir:   dir,
		limit: limit,
		log:   logger,
		cache: make(map[string][]Message),
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (h *HistoryStore) logPath(room string) string {
	return filepath.Join(h.dir, historyFilePrefix+SanitizeRoomName(room)+historyFileSuffix)
}

func (h *HistoryStore) roomLock(room string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()

	safe := SanitizeRoomName(room)
	lock, ok := h.locks[safe]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[safe] = lock
	}
	return lock
}

// Load reads the durable log for a room and returns at most the last limit
// entries in chronological order. Malformed lines are skipped; an absent or
// unreadable log yields an empty slice, never an error.
func (h *HistoryStore) Load(room string) []Message {
	f, err := os.Open(h.logPath(room))
	if err != nil {
		if !os.IsNotExist(err) {
			h.log.Warn().Err(err).Str("room", room).Msg("open history log")
		}
		return nil
	}
	defer f.Close()

	var out []Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			h.log.Debug().Str("room", room).Msg("skipping malformed history line")
			continue
		}
		out = append(out, msg)
		if len(out) > h.limit {
			out = out[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		h.log.Warn().Err(err).Str("room", room).Msg("read history log")
	}
	return out
}

// Cached returns the in-memory tail for a room, populating it lazily from
// disk on first reference.
func (h *HistoryStore) Cached(room string) []Message {
	h.mu.Lock()
	entries, ok := h.cache[room]
	h.mu.Unlock()
	if ok {
		return entries
	}

	loaded := h.Load(room)

	h.mu.Lock()
	defer h.mu.Unlock()
	if entries, ok := h.cache[room]; ok {
		return entries
	}
	if loaded == nil {
		loaded = []Message{}
	}
	h.cache[room] = loaded
	return loaded
}

// Append writes one record to the room's durable log, then to the cache,
// evicting the oldest cached entry past the limit.
func (h *HistoryStore) Append(room string, msg Message) error {
	line, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}

	lock := h.roomLock(room)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.OpenFile(h.logPath(room), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history log: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append history record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close history log: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	entries := append(h.cache[room], msg)
	if len(entries) > h.limit {
		entries = entries[1:]
	}
	h.cache[room] = entries
	return nil
}

// RoomsOnDisk derives room names from existing history log files. A room with
// a log on disk is discoverable even when nobody is currently a member.
func (h *HistoryStore) RoomsOnDisk() []string {
	matches, err := filepath.Glob(filepath.Join(h.dir, historyFilePrefix+"*"+historyFileSuffix))
	if err != nil {
		return nil
	}
	var rooms []string
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), historyFilePrefix), historyFileSuffix)
		if name != "" {
			rooms = append(rooms, name)
		}
	}
	return rooms
}
