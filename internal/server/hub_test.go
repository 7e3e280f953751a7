package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SamhitaKotian/reading-graph/internal/book"
	"github.com/SamhitaKotian/reading-graph/internal/selection"
)

func newHubClient(h *Hub, buffer int) *Client {
	return &Client{hub: h, send: make(chan []byte, buffer)}
}

// awaitRegistered blocks until the hub has drained its register queue.
// Registration is asynchronous, so tests must not broadcast before it lands.
func awaitRegistered(t *testing.T, h *Hub) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for len(h.register) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("hub never processed registration")
		}
		time.Sleep(time.Millisecond)
	}
}

func recv(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hub message")
		return nil
	}
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	a := newHubClient(h, 4)
	b := newHubClient(h, 4)
	h.Register(a)
	h.Register(b)
	awaitRegistered(t, h)

	h.Broadcast([]byte("hello"))

	if got := string(recv(t, a.send)); got != "hello" {
		t.Errorf("client a got %q", got)
	}
	if got := string(recv(t, b.send)); got != "hello" {
		t.Errorf("client b got %q", got)
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := newHubClient(h, 4)
	h.Register(c)
	awaitRegistered(t, h)
	h.Unregister(c)

	// The send channel closes once the hub processes the unregister.
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("received message after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}

func TestHubPublishEncodesSelectionEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := newHubClient(h, 4)
	h.Register(c)
	awaitRegistered(t, h)

	h.Publish(selection.Event{Type: selection.EventNodeSelected, NodeID: "book-a"})

	var ev selection.Event
	if err := json.Unmarshal(recv(t, c.send), &ev); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if ev.Type != selection.EventNodeSelected || ev.NodeID != "book-a" {
		t.Errorf("event = %+v", ev)
	}
}

func TestRecentNodeIDs(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	books := []book.Record{
		{ID: "fresh", DateRead: "2026/08/30"},
		{ID: "stale", DateRead: "2025/01/01"},
		{ID: "undated"},
	}

	ids := recentNodeIDs(books, now)
	if len(ids) != 1 || ids[0] != "fresh" {
		t.Errorf("recent ids = %v, want [fresh]", ids)
	}
}
