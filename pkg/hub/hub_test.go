package hub

import (
	"encoding/json"
	"testing"
	"time"
)

// fakeClient builds a client without a websocket connection. Register,
// unregister, and broadcast never touch the connection, only the send
// channel; the pumps are not started.
func fakeClient(h *Hub) *Client {
	return &Client{
		hub:  h,
		conn: nil,
		send: make(chan Message, 4),
	}
}

func TestHub_ClientCount(t *testing.T) {
	h := New("test")
	go h.Run()

	if got := h.ClientCount(); got != 0 {
		t.Errorf("Expected 0 clients, got %d", got)
	}

	a := fakeClient(h)
	b := fakeClient(h)
	h.register <- a
	h.register <- b

	waitForCount(t, h, 2)

	h.unregister <- a
	waitForCount(t, h, 1)

	// The hub closes the send channel of unregistered clients.
	select {
	case _, ok := <-a.send:
		if ok {
			t.Error("Expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Error("Send channel never closed")
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h := New("test")
	go h.Run()

	a := fakeClient(h)
	b := fakeClient(h)
	h.register <- a
	h.register <- b
	waitForCount(t, h, 2)

	if err := h.BroadcastJSON(map[string]int{"viewers": 2}); err != nil {
		t.Fatalf("BroadcastJSON failed: %v", err)
	}

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if msg.Type != JSONMessage {
				t.Errorf("Expected JSON message, got type %d", msg.Type)
			}
			var decoded map[string]int
			if err := json.Unmarshal(msg.Data, &decoded); err != nil {
				t.Errorf("Broadcast payload not JSON: %v", err)
			}
			if decoded["viewers"] != 2 {
				t.Errorf("Payload = %v", decoded)
			}
		case <-time.After(time.Second):
			t.Fatal("Client never received the broadcast")
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := New("test")
	go h.Run()

	slow := &Client{hub: h, send: make(chan Message)} // No buffer, never read
	h.register <- slow
	waitForCount(t, h, 1)

	h.BroadcastBinary([]byte{0x01})
	waitForCount(t, h, 0)
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for h.ClientCount() != want {
		select {
		case <-deadline:
			t.Fatalf("Client count stuck at %d, want %d", h.ClientCount(), want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}
