package match

import "github.com/mcoot/rpsgame-go/internal/model"

// moveQueue is a FIFO of pending moves. Not safe for concurrent use; the
// Engine guards it with its mutex.
type moveQueue struct {
	items []model.PendingMove
}

func (q *moveQueue) push(m model.PendingMove) {
	q.items = append(q.items, m)
}

func (q *moveQueue) len() int {
	return len(q.items)
}

// popPair removes and returns the two oldest entries if at least two are queued
func (q *moveQueue) popPair() (model.PendingMove, model.PendingMove, bool) {
	if len(q.items) < 2 {
		return model.PendingMove{}, model.PendingMove{}, false
	}
	first, second := q.items[0], q.items[1]

	// Shift down rather than reslice so the backing array does not grow forever
	n := copy(q.items, q.items[2:])
	clear(q.items[n:])
	q.items = q.items[:n]

	return first, second, true
}

func (q *moveQueue) snapshot() []model.PendingMove {
	out := make([]model.PendingMove, len(q.items))
	copy(out, q.items)
	return out
}
