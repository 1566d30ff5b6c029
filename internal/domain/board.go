package domain

// Board is indexed as Board[row][column]; row 0 is the bottom row.
type Board [Rows][Columns]Cell

func NewBoard() Board {
	return Board{}
}

func IsValidColumn(column int) bool {
	return column >= 0 && column < Columns
}

// IsColumnFull reports whether the top row of the column is occupied.
// Columns outside the board count as full.
func (b *Board) IsColumnFull(column int) bool {
	return !IsValidColumn(column) || b[Rows-1][column] != Empty
}

// DropCoin places mover in the lowest empty row of column and returns that row.
// The board is left untouched on error.
func (b *Board) DropCoin(column int, mover Mover) (int, error) {
	if !IsValidColumn(column) {
		return -1, ErrColumnOutOfRange
	}
	if !mover.IsMover() {
		return -1, ErrInvalidMover
	}

	for row := 0; row < Rows; row++ {
		if b[row][column] == Empty {
			b[row][column] = mover
			return row, nil
		}
	}

	return -1, ErrColumnFull
}

func (b *Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if !b.IsColumnFull(c) {
			return false
		}
	}
	return true
}

// ValidMoves lists the columns that still accept a coin, left to right.
func (b *Board) ValidMoves() []int {
	validMoves := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if !b.IsColumnFull(col) {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

// SimulateMove drops a coin on a copy of the board.
func (b Board) SimulateMove(column int, mover Mover) (Board, int, error) {
	row, err := b.DropCoin(column, mover)
	if err != nil {
		return b, -1, err
	}
	return b, row, nil
}

// CountMoves returns the number of coins on the board.
func (b *Board) CountMoves() int {
	count := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			if b[row][col] != Empty {
				count++
			}
		}
	}
	return count
}

// CountDiskInDirection counts consecutive coins of mover starting one step
// away from (row, column) and moving by (deltaRow, deltaCol).
func (b *Board) CountDiskInDirection(row, column, deltaRow, deltaCol int, mover Mover) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for InBounds(r, c) && b[r][c] == mover {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

func InBounds(row, column int) bool {
	return row >= 0 && row < Rows && column >= 0 && column < Columns
}

// checkGravity verifies that no empty cell sits below a coin.
func (b *Board) checkGravity() bool {
	for col := 0; col < Columns; col++ {
		seenEmpty := false
		for row := 0; row < Rows; row++ {
			if b[row][col] == Empty {
				seenEmpty = true
			} else if seenEmpty {
				return false
			}
		}
	}
	return true
}
