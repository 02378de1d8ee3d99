package response

import (
	"time"

	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
	"github.com/mcoot/rpsgame-go/internal/services/bot"
)

// Health is the response for the health check
type Health struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// Registered is the response for account registration
type Registered struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// Token is the response for login
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenFromAuth converts an issued token
func TokenFromAuth(t *auth.Token) Token {
	return Token{
		AccessToken: t.AccessToken,
		ExpiresAt:   t.ExpiresAt,
	}
}

// Me describes the authenticated account
type Me struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// MeFromAccount converts a model.Account
func MeFromAccount(a *model.Account) Me {
	return Me{
		ID:          string(a.ID),
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
	}
}

// Player represents a registry entry in API responses
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

// PlayerFromModel converts a model.PlayerState
func PlayerFromModel(p *model.PlayerState) Player {
	return Player{
		ID:       string(p.ID),
		Name:     p.Name,
		Score:    p.Score,
		IsOnline: p.IsOnline,
		LastSeen: p.LastSeen,
	}
}

// PlayersFromModel converts a slice of players
func PlayersFromModel(players []*model.PlayerState) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// HubInfo describes how to talk to the game gateway
type HubInfo struct {
	WebsocketURL           string      `json:"websocket_url"`
	EventsURL              string      `json:"events_url"`
	RequiresAuthentication bool        `json:"requires_authentication"`
	ClientActions          []HubAction `json:"client_actions"`
	ServerEvents           []HubEvent  `json:"server_events"`
	ErrorCodes             []string    `json:"error_codes"`
}

// HubAction is one action a client may send
type HubAction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  []HubParameter `json:"parameters"`
}

// HubParameter is one field of an action's data
type HubParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// HubEvent is one event the server pushes
type HubEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Payload     string `json:"payload"`
}

// BotChallenge describes a queued bot move. The move itself stays hidden
// until the match resolves.
type BotChallenge struct {
	BotID    string    `json:"bot_id"`
	BotName  string    `json:"bot_name"`
	Strategy string    `json:"strategy"`
	QueuedAt time.Time `json:"queued_at"`
}

// BotChallengeFromModel converts a bot.Challenge
func BotChallengeFromModel(strategy string, c *bot.Challenge) BotChallenge {
	return BotChallenge{
		BotID:    string(c.Bot.ID),
		BotName:  c.Bot.Name,
		Strategy: strategy,
		QueuedAt: c.Pending.SubmittedAt,
	}
}
