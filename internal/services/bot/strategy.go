package bot

import "github.com/mcoot/rpsgame-go/internal/model"

// Strategy defines how a bot chooses its next move
type Strategy interface {
	// ChooseMove selects the move to queue
	ChooseMove() model.Move
}
