package bot

import (
	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
)

type simulation struct {
	board domain.Board
	row   int
}

func calculateMediumMove(board domain.Board, bot domain.Mover) int {
	validColumns := board.ValidMoves()
	if len(validColumns) == 0 {
		return -1
	}

	opponent := bot.Opponent()
	scores := make(map[int]int, len(validColumns))

	// simulate each column once for both movers
	botSimulations := make(map[int]simulation, len(validColumns))
	oppSimulations := make(map[int]simulation, len(validColumns))
	for _, col := range validColumns {
		scores[col] = 0

		botBoard, botRow, _ := board.SimulateMove(col, bot)
		botSimulations[col] = simulation{botBoard, botRow}

		oppBoard, oppRow, _ := board.SimulateMove(col, opponent)
		oppSimulations[col] = simulation{oppBoard, oppRow}
	}

	currentOpponentThreat := evaluateWinningThreat(&board, opponent, bot)

	for _, col := range validColumns {
		botSim := botSimulations[col]
		oppSim := oppSimulations[col]

		// === PHASE 1: immediate wins ===
		if botSim.board.CheckWin(botSim.row, col, bot) {
			scores[col] += SCORE_WIN_NOW
		}

		// === PHASE 2: block opponent's immediate wins ===
		if oppSim.board.CheckWin(oppSim.row, col, opponent) {
			scores[col] += SCORE_BLOCK_WIN
		}

		// === PHASE 3: create winning threats ===
		scores[col] += evaluateWinningThreat(&botSim.board, bot, opponent)

		// === PHASE 4: reduce opponent's winning threats ===
		if evaluateWinningThreat(&botSim.board, opponent, bot) < currentOpponentThreat {
			scores[col] += SCORE_BLOCK_WIN_THREAT
		}

		// === PHASE 5: line strength, blocking counts half ===
		scores[col] += evaluateThreats(&botSim.board, botSim.row, col, bot)
		scores[col] += evaluateThreats(&oppSim.board, oppSim.row, col, opponent) / 2

		// === PHASE 6: positional bonus ===
		switch abs(col - domain.Columns/2) {
		case 0:
			scores[col] += SCORE_CENTER
		case 1:
			scores[col] += SCORE_NEAR_CENTER
		case 2:
			scores[col] += SCORE_EDGE
		}
	}

	return findBestColumn(scores)
}

// findBestColumn picks the highest score, ties going to the column closer
// to the center
func findBestColumn(scores map[int]int) int {
	maxScore := -999999
	bestColumn := domain.Columns / 2
	center := domain.Columns / 2

	for col := 0; col < domain.Columns; col++ {
		score, exists := scores[col]
		if !exists {
			continue
		}

		if score > maxScore {
			maxScore = score
			bestColumn = col
		} else if score == maxScore && abs(col-center) < abs(bestColumn-center) {
			bestColumn = col
		}
	}

	return bestColumn
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
