package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lezgec/relay/internal/metrics"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newTestRelay(t *testing.T) *Relay {
	t.Helper()

	logger := newTestLogger()
	history, err := NewHistoryStore(t.TempDir(), DefaultHistoryLimit, logger)
	if err != nil {
		t.Fatalf("failed to create history store: %v", err)
	}
	return NewRelay(history, metrics.New(), logger)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got kind %v", ev.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func drain(ch <-chan *Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
