package core

import "testing"

func newTestRoomRegistry(t *testing.T) *RoomRegistry {
	t.Helper()

	history, err := NewHistoryStore(t.TempDir(), DefaultHistoryLimit, newTestLogger())
	if err != nil {
		t.Fatalf("failed to create history store: %v", err)
	}
	return NewRoomRegistry(history)
}

func TestEnsureCreatesRoomLazily(t *testing.T) {
	rooms := newTestRoomRegistry(t)

	rooms.Ensure("dev")
	rooms.Ensure("dev")

	names := rooms.Names()
	if len(names) != 2 || names[0] != "dev" || names[1] != DefaultRoom {
		t.Fatalf("unexpected room names: %v", names)
	}
}

func TestMembersUnknownRoomEmpty(t *testing.T) {
	rooms := newTestRoomRegistry(t)

	if got := rooms.Members("ghost"); len(got) != 0 {
		t.Fatalf("expected no members, got %v", got)
	}
}

func TestAddRemoveMember(t *testing.T) {
	rooms := newTestRoomRegistry(t)

	rooms.AddMember("dev", "zoe")
	rooms.AddMember("dev", "alice")
	rooms.AddMember("dev", "alice") // no-op

	got := rooms.Members("dev")
	if len(got) != 2 || got[0] != "alice" || got[1] != "zoe" {
		t.Fatalf("unexpected members: %v", got)
	}

	rooms.RemoveMember("dev", "alice")
	rooms.RemoveMember("dev", "alice") // no-op
	rooms.RemoveMember("ghost", "alice")

	got = rooms.Members("dev")
	if len(got) != 1 || got[0] != "zoe" {
		t.Fatalf("unexpected members after removal: %v", got)
	}
}

func TestEmptyRoomPersists(t *testing.T) {
	rooms := newTestRoomRegistry(t)

	rooms.AddMember("dev", "alice")
	rooms.RemoveMember("dev", "alice")

	names := rooms.Names()
	if len(names) != 2 {
		t.Fatalf("empty room should persist in registry, got %v", names)
	}
}
