package model

import "time"

// PlayerID uniquely identifies a player across the system.
// It is assigned externally (the auth subject) and never changes.
type PlayerID string

// UnknownPlayerName is the placeholder display name given to players
// created before their real name is known
const UnknownPlayerName = "Unknown"

// PlayerState is the live registry record for a player
type PlayerState struct {
	ID        PlayerID
	Name      string
	Score     int // never negative
	IsOnline  bool
	LastSeen  time.Time
	SessionID string // empty when offline
}

// HasSentinelName reports whether the player is still using the placeholder name
func (p *PlayerState) HasSentinelName() bool {
	return p.Name == UnknownPlayerName
}

// ClampScore returns score if it is non-negative, otherwise 0
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	return score
}
