package bot

import (
	"math"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
)

const (
	MINIMAX_DEPTH       = 6
	MINIMAX_WIN         = 1000000
	MINIMAX_LOSS        = -1000000
	POSITION_WEIGHT     = 10
	TWO_IN_ROW_WEIGHT   = 50
	THREE_IN_ROW_WEIGHT = 500
)

// searchOrder tries center columns first so alpha-beta cuts earlier.
var searchOrder = [domain.Columns]int{3, 2, 4, 1, 5, 0, 6}

// calculateHardMove runs minimax with alpha-beta pruning
func calculateHardMove(board domain.Board, bot domain.Mover) int {
	validColumns := orderedMoves(&board)
	if len(validColumns) == 0 {
		return -1
	}

	bestCol := validColumns[0]
	bestScore := math.MinInt32
	alpha := math.MinInt32
	beta := math.MaxInt32
	opponent := bot.Opponent()

	for _, col := range validColumns {
		testBoard, row, _ := board.SimulateMove(col, bot)

		// If this move wins immediately, take it
		if testBoard.CheckWin(row, col, bot) {
			return col
		}

		score := minimax(&testBoard, MINIMAX_DEPTH-1, alpha, beta, false, bot, opponent)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}

	return bestCol
}

func minimax(board *domain.Board, depth int, alpha, beta int, isMaximizing bool, bot, opponent domain.Mover) int {
	validColumns := orderedMoves(board)

	if depth == 0 || len(validColumns) == 0 {
		return evaluateBoard(board, bot, opponent)
	}

	if isMaximizing {
		maxEval := math.MinInt32
		for _, col := range validColumns {
			testBoard, row, _ := board.SimulateMove(col, bot)
			if testBoard.CheckWin(row, col, bot) {
				return MINIMAX_WIN - (MINIMAX_DEPTH - depth) // prefer quicker wins
			}

			eval := minimax(&testBoard, depth-1, alpha, beta, false, bot, opponent)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return maxEval
	}

	minEval := math.MaxInt32
	for _, col := range validColumns {
		testBoard, row, _ := board.SimulateMove(col, opponent)
		if testBoard.CheckWin(row, col, opponent) {
			return MINIMAX_LOSS + (MINIMAX_DEPTH - depth) // prefer delaying losses
		}

		eval := minimax(&testBoard, depth-1, alpha, beta, true, bot, opponent)
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return minEval
}

func orderedMoves(board *domain.Board) []int {
	moves := make([]int, 0, domain.Columns)
	for _, col := range searchOrder {
		if !board.IsColumnFull(col) {
			moves = append(moves, col)
		}
	}
	return moves
}
