package domain

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const rowSeparator = "|"

// Encode serializes the board for the move provider: rows bottom to top
// separated by '|', one of P, C or E per cell.
func (b *Board) Encode() string {
	var sb strings.Builder
	sb.Grow(Rows*Columns + Rows - 1)

	for row := 0; row < Rows; row++ {
		if row > 0 {
			sb.WriteString(rowSeparator)
		}
		for col := 0; col < Columns; col++ {
			switch b[row][col] {
			case Player:
				sb.WriteByte('P')
			case Computer:
				sb.WriteByte('C')
			case Empty:
				sb.WriteByte('E')
			default:
				log.Error().
					Str("component", "board").
					Int("row", row).
					Int("col", col).
					Int("cell", int(b[row][col])).
					Msg("Got unknown cell state")
				sb.WriteByte('?')
			}
		}
	}
	return sb.String()
}

func (b Board) String() string {
	return b.Encode()
}

// DecodeBoard parses an encoded board and checks its shape, characters and
// gravity.
func DecodeBoard(encoded string) (Board, error) {
	var board Board

	rows := strings.Split(encoded, rowSeparator)
	if len(rows) != Rows {
		return board, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(rows))
	}

	for r, line := range rows {
		if len(line) != Columns {
			return board, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, r, len(line))
		}
		for c := 0; c < Columns; c++ {
			switch line[c] {
			case 'P':
				board[r][c] = Player
			case 'C':
				board[r][c] = Computer
			case 'E':
				board[r][c] = Empty
			default:
				return board, fmt.Errorf("%w: unknown cell %q at row %d col %d", ErrInvalidBoard, line[c], r, c)
			}
		}
	}

	if !board.checkGravity() {
		return board, fmt.Errorf("%w: floating coin", ErrInvalidBoard)
	}
	return board, nil
}
