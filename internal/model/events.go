package model

import "time"

// EventName identifies a message pushed to clients
type EventName string

const (
	EventPlayerJoined   EventName = "player_joined"
	EventPlayerLeft     EventName = "player_left"
	EventMoveRegistered EventName = "move_registered"
	EventRoundResult    EventName = "round_result"
	EventRankingUpdated EventName = "ranking_updated"
	EventError          EventName = "error"
)

// PlayerJoinedPayload is broadcast to everyone when a player joins
type PlayerJoinedPayload struct {
	PlayerID PlayerID  `json:"player_id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

// PlayerJoinedFromState builds the payload from a registry snapshot
func PlayerJoinedFromState(p *PlayerState) PlayerJoinedPayload {
	return PlayerJoinedPayload{
		PlayerID: p.ID,
		Name:     p.Name,
		Score:    p.Score,
		IsOnline: p.IsOnline,
		LastSeen: p.LastSeen,
	}
}

// PlayerLeftPayload is broadcast to everyone when a player disconnects
type PlayerLeftPayload struct {
	PlayerID PlayerID `json:"player_id"`
}

// MoveRegisteredPayload acknowledges a queued move to its submitter
type MoveRegisteredPayload struct {
	Move      Move      `json:"move"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorPayload reports a rejected action to the caller
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
