// Package feedclient is a Go client for the dashboard's live status
// stream, for external displays and integration tests.
package feedclient

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Status is one decoded update from /ws/status. Field tags mirror the
// dashboard's wire format; this package deliberately does not import
// the server.
type Status struct {
	CameraConnected bool    `json:"camera_connected"`
	Sampling        bool    `json:"sampling"`
	Committing      bool    `json:"committing"`
	ActiveSlot      int     `json:"active_slot"`
	PhotoCount      int     `json:"photo_count"`
	Verdict         string  `json:"verdict"`
	Feedback        string  `json:"feedback"`
	Brightness      float64 `json:"brightness"`
	Sharpness       float64 `json:"sharpness"`
	Coverage        float64 `json:"coverage"`
	Viewers         int     `json:"viewers"`
}

// Client consumes the live status stream.
type Client struct {
	ws *websocket.Conn

	updates chan Status

	mu     sync.Mutex
	closed bool
}

// Dial connects to a dashboard status endpoint, e.g.
// ws://localhost:8090/ws/status, and starts reading updates.
func Dial(url string) (*Client, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	ws, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial status feed: %w", err)
	}

	c := &Client{
		ws:      ws,
		updates: make(chan Status, 16),
	}
	go c.readLoop()
	return c, nil
}

// Updates returns the stream of decoded status updates. The channel
// closes when the connection drops or Close is called. Updates are
// best-effort: if the consumer lags, older updates are dropped in
// favor of newer ones.
func (c *Client) Updates() <-chan Status {
	return c.updates
}

func (c *Client) readLoop() {
	defer close(c.updates)

	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var st Status
		if err := json.Unmarshal(msg, &st); err != nil {
			// Not a status payload; ignore and keep reading.
			continue
		}

		select {
		case c.updates <- st:
		default:
			// Consumer is behind: drop the oldest, keep the newest.
			select {
			case <-c.updates:
			default:
			}
			select {
			case c.updates <- st:
			default:
			}
		}
	}
}

// Close shuts down the connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}
