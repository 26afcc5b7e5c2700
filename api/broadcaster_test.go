package api

import (
	"testing"
	"time"
)

func TestBroadcasterDeliversToMatchingSession(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-1")
	defer b.Unsubscribe(sub)

	b.BroadcastState("sess-1", map[string]interface{}{"event": "loaded"})

	select {
	case ev := <-sub.Channel:
		if ev.SessionID != "sess-1" {
			t.Errorf("SessionID = %q, want sess-1", ev.SessionID)
		}
	case <-time.After(time.Second):
		t.Fatal("expected event on matching subscription")
	}
}

func TestBroadcasterFiltersOtherSessions(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-1")
	defer b.Unsubscribe(sub)

	b.BroadcastState("sess-2", map[string]interface{}{"event": "loaded"})

	select {
	case ev := <-sub.Channel:
		t.Fatalf("unexpected event for other session: %+v", ev)
	default:
	}
}

func TestBroadcasterWildcardSubscriptionSeesEverything(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("")
	defer b.Unsubscribe(sub)

	b.BroadcastOutput("sess-9", "hello")

	select {
	case ev := <-sub.Channel:
		if ev.Type != EventTypeOutput {
			t.Errorf("Type = %v, want %v", ev.Type, EventTypeOutput)
		}
	case <-time.After(time.Second):
		t.Fatal("expected event on wildcard subscription")
	}
}

func TestEventWriterBroadcastsOutput(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-1")
	defer b.Unsubscribe(sub)

	w := NewEventWriter("sess-1", b)
	n, err := w.Write([]byte("guest output"))
	if err != nil || n != len("guest output") {
		t.Fatalf("Write = (%d, %v)", n, err)
	}

	select {
	case ev := <-sub.Channel:
		if ev.Data["content"] != "guest output" {
			t.Errorf("content = %v, want %q", ev.Data["content"], "guest output")
		}
	case <-time.After(time.Second):
		t.Fatal("expected output event")
	}
}
