package realtime

import (
	"net/http"
	"time"

	"github.com/mcoot/rpsgame-go/internal/model"
)

const (
	// Time between SSE keepalive comments
	keepalivePeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one connection registered with the hub. playerID is empty for
// anonymous connections, which still receive broadcasts.
type Client struct {
	id          string
	playerID    model.PlayerID
	send        chan Message
	connectedAt time.Time
}

// NewClient creates a new client for the given connection id
func NewClient(id string, playerID model.PlayerID) *Client {
	return &Client{
		id:          id,
		playerID:    playerID,
		send:        make(chan Message, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the connection id
func (c *Client) ID() string {
	return c.id
}

// PlayerID returns the player bound to the connection, if any
func (c *Client) PlayerID() model.PlayerID {
	return c.playerID
}

// Send returns the outgoing message channel. It is closed when the client is
// unregistered or the hub stops.
func (c *Client) Send() <-chan Message {
	return c.send
}

// ServeSSE streams hub messages to the client as server-sent events until
// the request ends or the hub closes the client
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, client *Client) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	hub.Register(client)
	defer hub.Unregister(client)

	connected, _ := NewMessage("connected", map[string]string{
		"session_id": client.id,
		"player_id":  string(client.playerID),
	})
	_, _ = w.Write(connected.SSE())
	flusher.Flush()

	ticker := time.NewTicker(keepalivePeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message.SSE()); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
