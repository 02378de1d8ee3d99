package bot

import (
	"sync"

	"github.com/mcoot/rpsgame-go/internal/dependencies/random"
	"github.com/mcoot/rpsgame-go/internal/model"
)

// RandomStrategy picks a uniformly random move
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseMove returns a random move
func (s *RandomStrategy) ChooseMove() model.Move {
	return model.AllMoves[s.random.Intn(len(model.AllMoves))]
}

// CycleStrategy plays rock, paper, scissors in turn
type CycleStrategy struct {
	mu   sync.Mutex
	next int
}

// NewCycleStrategy creates a new CycleStrategy starting at rock
func NewCycleStrategy() *CycleStrategy {
	return &CycleStrategy{}
}

// ChooseMove returns the next move in the cycle
func (s *CycleStrategy) ChooseMove() model.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	move := model.AllMoves[s.next%len(model.AllMoves)]
	s.next++
	return move
}
