package server

import (
	"testing"
	"time"
)

func TestHubSubscribePublish(t *testing.T) {
	h := newHub()

	id, ch := h.subscribe()
	if id == "" {
		t.Fatal("expected a subscriber id")
	}

	h.publish(event{name: "bridge-stdout", data: "hello"})

	select {
	case ev := <-ch:
		if ev.name != "bridge-stdout" {
			t.Fatalf("expected bridge-stdout, got %q", ev.name)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestHubFanOut(t *testing.T) {
	h := newHub()

	_, ch1 := h.subscribe()
	_, ch2 := h.subscribe()

	h.publish(event{name: "bridge-stderr"})

	for i, ch := range []<-chan event{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never received the event", i)
		}
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := newHub()

	id, ch := h.subscribe()
	h.unsubscribe(id)

	if h.subscriberCount() != 0 {
		t.Fatalf("expected no subscribers, got %d", h.subscriberCount())
	}

	h.publish(event{name: "bridge-stdout"})
	select {
	case ev := <-ch:
		t.Fatalf("unsubscribed channel received %q", ev.name)
	default:
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	h := newHub()

	// A subscriber that never reads: its buffer fills and further events
	// drop instead of stalling the publisher.
	h.subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			h.publish(event{name: "bridge-stdout"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
