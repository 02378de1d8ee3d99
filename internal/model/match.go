package model

import "time"

// PendingMove is a single queued submission awaiting an opponent
type PendingMove struct {
	PlayerID    PlayerID
	Move        Move
	SubmittedAt time.Time
}

// MatchOutcome is the resolved result of pairing two pending moves.
// It is computed, broadcast and discarded.
type MatchOutcome struct {
	Player1 PlayerID
	Player2 PlayerID
	Move1   Move
	Move2   Move
	Result1 Result
	Result2 Result
	Delta1  int
	Delta2  int
}

// RoundResult is the per-player view of a match outcome
type RoundResult struct {
	You          string `json:"you"`
	Opponent     string `json:"opponent"`
	YourMove     Move   `json:"your_move"`
	OpponentMove Move   `json:"opponent_move"`
	Result       Result `json:"result"`
	DeltaScore   int    `json:"delta_score"`
}
