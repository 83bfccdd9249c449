package core

import (
	"errors"
	"testing"
)

func TestRegisterEnforcesUniqueness(t *testing.T) {
	reg := NewSessionRegistry()

	if err := reg.Register(NewSession("alice")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := reg.Register(NewSession("alice")); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if !reg.IsOnline("alice") {
		t.Fatal("alice should be online")
	}
	if reg.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", reg.Count())
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	reg := NewSessionRegistry()

	if err := reg.Register(NewSession("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	reg.Unregister("alice")
	reg.Unregister("alice")
	reg.Unregister("ghost")

	if reg.IsOnline("alice") {
		t.Fatal("alice should be offline")
	}
}

func TestOnlineUsernamesSorted(t *testing.T) {
	reg := NewSessionRegistry()

	for _, name := range []string{"zoe", "alice", "mike"} {
		if err := reg.Register(NewSession(name)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	got := reg.OnlineUsernames()
	want := []string{"alice", "mike", "zoe"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSessionSendDropsWhenFull(t *testing.T) {
	sess := NewSession("alice")

	for i := 0; i < sessionEventBuffer; i++ {
		if !sess.Send(&Event{Kind: EventInfo}) {
			t.Fatalf("send %d should have succeeded", i)
		}
	}
	if sess.Send(&Event{Kind: EventInfo}) {
		t.Fatal("send past capacity should be dropped")
	}
}
