package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		raw      string
		expected Move
	}{
		{"rock", MoveRock},
		{"Rock", MoveRock},
		{"PAPER", MovePaper},
		{"sCiSsOrS", MoveScissors},
		{"SCISSORS", MoveScissors},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			move, err := ParseMove(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, move)
		})
	}
}

func TestParseMoveRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "lizard", "spock", " rock", "rocks", "r"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseMove(raw)
			assert.ErrorIs(t, err, ErrInvalidMove)
		})
	}
}

func TestMoveBeatsIsCyclic(t *testing.T) {
	assert.True(t, MoveRock.Beats(MoveScissors))
	assert.True(t, MoveScissors.Beats(MovePaper))
	assert.True(t, MovePaper.Beats(MoveRock))

	assert.False(t, MoveScissors.Beats(MoveRock))
	assert.False(t, MovePaper.Beats(MoveScissors))
	assert.False(t, MoveRock.Beats(MovePaper))

	for _, m := range AllMoves {
		assert.False(t, m.Beats(m), "%s should not beat itself", m)
	}
}

func TestMoveVersusIsAntisymmetric(t *testing.T) {
	for _, a := range AllMoves {
		for _, b := range AllMoves {
			ra, rb := a.Versus(b), b.Versus(a)
			switch {
			case a == b:
				assert.Equal(t, ResultDraw, ra)
				assert.Equal(t, ResultDraw, rb)
			case ra == ResultWin:
				assert.Equal(t, ResultLose, rb, "%s vs %s", a, b)
			default:
				assert.Equal(t, ResultLose, ra, "%s vs %s", a, b)
				assert.Equal(t, ResultWin, rb, "%s vs %s", a, b)
			}
		}
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 0, ClampScore(0))
	assert.Equal(t, 7, ClampScore(7))
}
