package bot

import (
	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
)

const (
	// Score priorities (from highest to lowest)
	SCORE_WIN_NOW           = 100000 // Bot can win immediately
	SCORE_BLOCK_WIN         = 10000  // Block opponent's immediate win
	SCORE_CREATE_WIN_THREAT = 8000   // Create a position where bot can win next move
	SCORE_BLOCK_WIN_THREAT  = 5000   // Block opponent's potential win setup
	SCORE_THREE_IN_ROW      = 400
	SCORE_TWO_IN_ROW        = 100
	SCORE_SINGLE            = 25
	SCORE_CENTER            = 30
	SCORE_NEAR_CENTER       = 20
	SCORE_EDGE              = 5
)

// (deltaRow, deltaCol)
var lineDirections = [][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal /
	{1, -1}, // diagonal \
}

// evaluateBoard calculates a heuristic score for the current board position
func evaluateBoard(board *domain.Board, bot, opponent domain.Mover) int {
	score := 0

	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			switch board[row][col] {
			case bot:
				score += evaluatePosition(board, row, col, bot)
			case opponent:
				score -= evaluatePosition(board, row, col, opponent)
			}
		}
	}

	// Center column preference
	centerCol := domain.Columns / 2
	for row := 0; row < domain.Rows; row++ {
		switch board[row][centerCol] {
		case bot:
			score += POSITION_WEIGHT * 2
		case opponent:
			score -= POSITION_WEIGHT * 2
		}
	}

	return score
}

// evaluatePosition evaluates a single position's contribution to the score
func evaluatePosition(board *domain.Board, row, col int, mover domain.Mover) int {
	score := POSITION_WEIGHT

	for _, dir := range lineDirections {
		dRow, dCol := dir[0], dir[1]

		posCount := board.CountDiskInDirection(row, col, dRow, dCol, mover)
		negCount := board.CountDiskInDirection(row, col, -dRow, -dCol, mover)
		total := posCount + negCount

		if !checkSpaceForExtension(board, row, col, dRow, dCol, posCount, negCount) {
			continue
		}
		if total >= 3 {
			score += THREE_IN_ROW_WEIGHT
		} else if total == 2 {
			score += TWO_IN_ROW_WEIGHT
		}
	}

	return score
}

// evaluateThreats scores the lines running through a freshly placed coin
func evaluateThreats(board *domain.Board, row, col int, mover domain.Mover) int {
	score := 0

	for _, dir := range lineDirections {
		dRow, dCol := dir[0], dir[1]

		posCount := board.CountDiskInDirection(row, col, dRow, dCol, mover)
		negCount := board.CountDiskInDirection(row, col, -dRow, -dCol, mover)
		total := posCount + negCount

		// no point in counting if the line can't be extended
		if !checkSpaceForExtension(board, row, col, dRow, dCol, posCount, negCount) {
			continue
		}

		switch {
		case total >= 3:
			score += SCORE_THREE_IN_ROW
		case total == 2:
			score += SCORE_TWO_IN_ROW
		case total == 1:
			score += SCORE_SINGLE
		}
	}

	return score
}

// evaluateWinningThreat scores how many immediate wins mover has and whether
// the opponent can block them
func evaluateWinningThreat(board *domain.Board, mover, opponent domain.Mover) int {
	winningMoves := findWinningMoves(board, mover)

	// two or more winning moves can't all be blocked
	if len(winningMoves) >= 2 {
		return SCORE_CREATE_WIN_THREAT
	}

	if len(winningMoves) == 1 {
		blockBoard, _, _ := board.SimulateMove(winningMoves[0], opponent)
		if len(findWinningMoves(&blockBoard, mover)) > 0 {
			return SCORE_CREATE_WIN_THREAT / 2
		}
		return SCORE_CREATE_WIN_THREAT / 4
	}

	return 0
}

func findWinningMoves(board *domain.Board, mover domain.Mover) []int {
	var winning []int
	for _, col := range board.ValidMoves() {
		testBoard, row, err := board.SimulateMove(col, mover)
		if err != nil {
			continue
		}
		if testBoard.CheckWin(row, col, mover) {
			winning = append(winning, col)
		}
	}
	return winning
}

// checkSpaceForExtension reports whether either end of a line is an empty,
// playable cell
func checkSpaceForExtension(board *domain.Board, row, col, dRow, dCol, posCount, negCount int) bool {
	posRow := row + dRow*(posCount+1)
	posCol := col + dCol*(posCount+1)
	if domain.InBounds(posRow, posCol) && board[posRow][posCol] == domain.Empty && isPlayableSpace(board, posRow, posCol) {
		return true
	}

	negRow := row - dRow*(negCount+1)
	negCol := col - dCol*(negCount+1)
	if domain.InBounds(negRow, negCol) && board[negRow][negCol] == domain.Empty && isPlayableSpace(board, negRow, negCol) {
		return true
	}

	return false
}

// isPlayableSpace respects gravity: the bottom row is always playable,
// anything else needs a coin directly below
func isPlayableSpace(board *domain.Board, row, col int) bool {
	if row == 0 {
		return true
	}
	return board[row-1][col] != domain.Empty
}
