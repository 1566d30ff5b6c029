package domain

// direction is expressed as (deltaCol, deltaRow).
type direction struct {
	dx, dy int
}

// Fixed scan order: horizontal, vertical, diagonal /, diagonal \.
var winDirections = [...]direction{
	{dx: 1, dy: 0},
	{dx: 0, dy: 1},
	{dx: 1, dy: 1},
	{dx: 1, dy: -1},
}

// Winner scans every cell as a potential line start and returns the occupant
// of the first four-in-a-row found, or Empty when there is none.
func (b *Board) Winner() Cell {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			for _, dir := range winDirections {
				if b.checkWinningLine(row, col, dir) {
					return b[row][col]
				}
			}
		}
	}
	return Empty
}

func (b *Board) checkWinningLine(row, col int, dir direction) bool {
	initial := b[row][col]
	if initial == Empty {
		return false
	}

	for i := 1; i < ToWin; i++ {
		r := row + i*dir.dy
		c := col + i*dir.dx
		if !InBounds(r, c) || b[r][c] != initial {
			return false
		}
	}
	return true
}

// CheckWin only looks at lines through (row, column). The bot search uses it
// after every simulated drop since a full-board scan would be wasted work.
func (b *Board) CheckWin(row, column int, mover Mover) bool {
	for _, dir := range winDirections {
		total := 1 +
			b.CountDiskInDirection(row, column, dir.dy, dir.dx, mover) +
			b.CountDiskInDirection(row, column, -dir.dy, -dir.dx, mover)
		if total >= ToWin {
			return true
		}
	}
	return false
}

// Status evaluates the board as a whole.
func (b *Board) Status() (GameStatus, Cell) {
	if winner := b.Winner(); winner != Empty {
		return StatusWon, winner
	}
	if b.IsFull() {
		return StatusDraw, Empty
	}
	return StatusInProgress, Empty
}
