package bot

import (
	"math/rand"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
)

// fixedColumn is what the deterministic strategy plays while it can.
const fixedColumn = 1

// calculateFixedMove always plays column 1, falling back to the first
// column with room. End-to-end tests rely on it being predictable.
func calculateFixedMove(board domain.Board, _ domain.Mover) int {
	if !board.IsColumnFull(fixedColumn) {
		return fixedColumn
	}
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return -1
	}
	return validColumns[0]
}

func calculateRandomMove(board domain.Board, _ domain.Mover) int {
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return -1
	}
	return validColumns[rand.Intn(len(validColumns))]
}

// calculateEasyMove wins if it can, blocks if it must, otherwise plays at random
func calculateEasyMove(board domain.Board, bot domain.Mover) int {
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return -1
	}

	if winning := findWinningMoves(&board, bot); len(winning) > 0 {
		return winning[0]
	}

	if blocking := findWinningMoves(&board, bot.Opponent()); len(blocking) > 0 {
		return blocking[0]
	}

	return validColumns[rand.Intn(len(validColumns))]
}
