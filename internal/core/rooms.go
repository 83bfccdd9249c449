package core

import (
	"sort"
	"sync"
)

// DefaultRoom is where every session lands right after login.
const DefaultRoom = "general"

// RoomRegistry tracks which usernames occupy which room. Rooms are created
// lazily on first reference and never destroyed.
type RoomRegistry struct {
	history *HistoryStore

	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

// NewRoomRegistry returns a registry pre-seeded with the default room.
func NewRoomRegistry(history *HistoryStore) *RoomRegistry {
	return &RoomRegistry{
		history: history,
		rooms: map[string]map[string]struct{}{
			DefaultRoom: {},
		},
	}
}

// Ensure lazily creates an empty member set for the room and warms its
// history cache from disk if not already cached.
func (r *RoomRegistry) Ensure(room string) {
	r.mu.Lock()
	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[string]struct{})
	}
	r.mu.Unlock()

	r.history.Cached(room)
}

// Members returns the sorted usernames in a room, empty if the room is unknown.
func (r *RoomRegistry) Members(room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := make([]string, 0, len(r.rooms[room]))
	for u := range r.rooms[room] {
		members = append(members, u)
	}
	sort.Strings(members)
	return members
}

// AddMember inserts a username into a room's member set. No-op if present.
func (r *RoomRegistry) AddMember(room, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[string]struct{})
	}
	r.rooms[room][username] = struct{}{}
}

// RemoveMember deletes a username from a room's member set. No-op if absent.
func (r *RoomRegistry) RemoveMember(room, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms[room], username)
}

// Names returns the sorted names of all rooms the registry knows about.
func (r *RoomRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.rooms))
	for name := range r.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
