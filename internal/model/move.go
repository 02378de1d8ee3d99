package model

import (
	"fmt"
	"strings"
)

// Move is a canonical rock/paper/scissors move
type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
)

// AllMoves lists every valid move
var AllMoves = []Move{MoveRock, MovePaper, MoveScissors}

// ParseMove canonicalizes a raw move string, case-insensitively
func ParseMove(raw string) (Move, error) {
	switch m := Move(strings.ToLower(raw)); m {
	case MoveRock, MovePaper, MoveScissors:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMove, raw)
	}
}

// Beats reports whether m defeats other
func (m Move) Beats(other Move) bool {
	switch m {
	case MoveRock:
		return other == MoveScissors
	case MoveScissors:
		return other == MovePaper
	case MovePaper:
		return other == MoveRock
	}
	return false
}

// Result is the outcome of a round from one player's perspective
type Result string

const (
	ResultWin  Result = "win"
	ResultLose Result = "lose"
	ResultDraw Result = "draw"
)

// Versus returns the result of playing m against other
func (m Move) Versus(other Move) Result {
	switch {
	case m == other:
		return ResultDraw
	case m.Beats(other):
		return ResultWin
	default:
		return ResultLose
	}
}
