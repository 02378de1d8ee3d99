package realtime

import (
	"log/slog"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Publisher encodes event payloads and hands them to the hub. It is the
// outbound channel between match resolution and the transports.
type Publisher struct {
	hub    *Hub
	logger *slog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(hub *Hub, logger *slog.Logger) *Publisher {
	return &Publisher{
		hub:    hub,
		logger: logger.With(slog.String("component", "realtime-publisher")),
	}
}

// SendToAll delivers the event to every connection
func (p *Publisher) SendToAll(event model.EventName, payload any) {
	if msg, ok := p.encode(event, payload); ok {
		p.hub.Broadcast(msg)
	}
}

// SendToPlayer delivers the event to each of the player's connections
func (p *Publisher) SendToPlayer(playerID model.PlayerID, event model.EventName, payload any) {
	if msg, ok := p.encode(event, payload); ok {
		p.hub.SendToPlayer(playerID, msg)
	}
}

// SendToSession delivers the event to one connection
func (p *Publisher) SendToSession(sessionID string, event model.EventName, payload any) {
	if msg, ok := p.encode(event, payload); ok {
		p.hub.SendToClient(sessionID, msg)
	}
}

func (p *Publisher) encode(event model.EventName, payload any) (Message, bool) {
	msg, err := NewMessage(event, payload)
	if err != nil {
		p.logger.Error("failed to encode event",
			slog.String("event", string(event)),
			slog.Any("error", err))
		return Message{}, false
	}
	return msg, true
}
