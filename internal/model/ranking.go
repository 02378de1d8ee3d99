package model

// RankingEntry is a read-only projection of a player for the leaderboard
type RankingEntry struct {
	PlayerID PlayerID `json:"player_id"`
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	IsOnline bool     `json:"is_online"`
}
