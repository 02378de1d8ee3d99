package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Registered:
		o.printRegistered(v)
	case TokenResult:
		o.printToken(v)
	case Me:
		o.printMe(v)
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case Ranking:
		o.printRanking(v)
	case RoundResult:
		o.printRoundResult(v)
	case BotChallenge:
		o.printBotChallenge(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Registered response type (matches API)
type Registered struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// TokenResult response type
type TokenResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Me response type
type Me struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Player response type
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

// PlayerList is the registry listing
type PlayerList []Player

// RankingEntry response type
type RankingEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IsOnline bool   `json:"is_online"`
}

// Ranking is the ordered leaderboard
type Ranking []RankingEntry

// RoundResult is the payload of a round_result event
type RoundResult struct {
	You          string `json:"you"`
	Opponent     string `json:"opponent"`
	YourMove     string `json:"your_move"`
	OpponentMove string `json:"opponent_move"`
	Result       string `json:"result"`
	DeltaScore   int    `json:"delta_score"`
}

// BotChallenge response type
type BotChallenge struct {
	BotID    string    `json:"bot_id"`
	BotName  string    `json:"bot_name"`
	Strategy string    `json:"strategy"`
	QueuedAt time.Time `json:"queued_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRegistered(r Registered) {
	fmt.Println(r.Message)
	fmt.Printf("User ID: %s\n", r.UserID)
}

func (o *Output) printToken(t TokenResult) {
	fmt.Printf("Token: %s\n", t.AccessToken)
	fmt.Printf("Expires: %s\n", t.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
}

func (o *Output) printMe(m Me) {
	fmt.Printf("Account: %s (%s)\n", m.Username, m.ID)
	if m.Email != "" {
		fmt.Printf("Email: %s\n", m.Email)
	}
	if m.DisplayName != "" {
		fmt.Printf("Display Name: %s\n", m.DisplayName)
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Score: %d\n", p.Score)
	fmt.Printf("Online: %s\n", yesNo(p.IsOnline))
}

func (o *Output) printPlayerList(players PlayerList) {
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		fmt.Printf("  - %s (%s) - %d pts, online: %s\n", p.Name, p.ID, p.Score, yesNo(p.IsOnline))
	}
}

func (o *Output) printRanking(entries Ranking) {
	if len(entries) == 0 {
		fmt.Println("No players yet")
		return
	}
	for i, e := range entries {
		online := ""
		if e.IsOnline {
			online = " *"
		}
		fmt.Printf("%3d. %-20s %5d%s\n", i+1, e.Name, e.Score, online)
	}
}

func (o *Output) printRoundResult(r RoundResult) {
	fmt.Printf("%s (%s) vs %s (%s): %s, %+d pts\n",
		r.You, r.YourMove, r.Opponent, r.OpponentMove, strings.ToUpper(r.Result), r.DeltaScore)
}

func (o *Output) printBotChallenge(b BotChallenge) {
	fmt.Printf("%s queued a move (%s)\n", b.BotName, b.BotID)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
