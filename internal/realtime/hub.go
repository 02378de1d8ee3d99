package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/rpsgame-go/internal/model"
)

const (
	// Buffer size for messages waiting to be routed by the hub
	hubBufferSize = 256
)

// target selects which clients a delivery reaches
type target int

const (
	targetAll target = iota
	targetPlayer
	targetClient
)

type delivery struct {
	target   target
	playerID model.PlayerID
	clientID string
	message  Message
}

// Hub routes messages to every connected client, websocket or SSE.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	deliveries chan delivery
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub. Call Run to start routing.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		logger:     logger.With(slog.String("component", "realtime-hub")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, hubBufferSize),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns once Close is called
func (h *Hub) Run() {
	h.logger.Info("hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("player_id", string(client.playerID)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.clients[client.id]; ok && existing == client {
				delete(h.clients, client.id)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("client unregistered",
					slog.String("client_id", client.id),
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case d := <-h.deliveries:
			h.route(d)

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) route(d delivery) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sentCount := 0
	droppedCount := 0
	for _, client := range h.clients {
		switch d.target {
		case targetPlayer:
			if client.playerID != d.playerID {
				continue
			}
		case targetClient:
			if client.id != d.clientID {
				continue
			}
		}

		select {
		case client.send <- d.message:
			sentCount++
		default:
			droppedCount++
			h.logger.Warn("message dropped - client buffer full",
				slog.String("client_id", client.id),
				slog.String("event", string(d.message.Event)))
		}
	}

	if droppedCount > 0 {
		h.logger.Warn("delivery partial failure",
			slog.String("event", string(d.message.Event)),
			slog.Int("sent", sentCount),
			slog.Int("dropped", droppedCount))
	}
}

// Register adds a client to the hub. No-op once the hub is closed.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every client
func (h *Hub) Broadcast(message Message) {
	h.enqueue(delivery{target: targetAll, message: message})
}

// SendToPlayer queues a message for every client bound to the player
func (h *Hub) SendToPlayer(playerID model.PlayerID, message Message) {
	h.enqueue(delivery{target: targetPlayer, playerID: playerID, message: message})
}

// SendToClient queues a message for a single client
func (h *Hub) SendToClient(clientID string, message Message) {
	h.enqueue(delivery{target: targetClient, clientID: clientID, message: message})
}

// enqueue never blocks; routing is best-effort
func (h *Hub) enqueue(d delivery) {
	select {
	case h.deliveries <- d:
	default:
		h.logger.Warn("delivery dropped - hub buffer full",
			slog.String("event", string(d.message.Event)))
	}
}

// Close shuts down the hub, closing every client's send channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PlayerClientCount returns the number of clients bound to the player
func (h *Hub) PlayerClientCount(playerID model.PlayerID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, client := range h.clients {
		if client.playerID == playerID {
			count++
		}
	}
	return count
}
