package domain

// Cell is the occupant of a single board position.
type Cell int

const (
	Empty    Cell = 0
	Player   Cell = 1
	Computer Cell = 2
)

// Mover identifies whose coin is being dropped. Only Player and Computer
// are valid movers; Empty is rejected by DropCoin.
type Mover = Cell

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Player:
		return "player"
	case Computer:
		return "computer"
	default:
		return "unknown"
	}
}

// IsMover reports whether c can own a dropped coin.
func (c Cell) IsMover() bool {
	return c == Player || c == Computer
}

// Opponent returns the other mover.
func (c Cell) Opponent() Cell {
	if c == Player {
		return Computer
	}
	return Player
}

func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty", "":
		*c = Empty
	case "player":
		*c = Player
	case "computer":
		*c = Computer
	default:
		return ErrInvalidMover
	}
	return nil
}

// to represent the game status
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusDraw       GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrColumnOutOfRange    Error = "column out of range"
	ErrColumnFull          Error = "column is full"
	ErrInvalidMover        Error = "invalid mover"
	ErrInvalidBoard        Error = "invalid board encoding"
	ErrNoValidMoves        Error = "no valid moves"
	ErrGameOver            Error = "game is already over"
	ErrIllegalComputerMove Error = "illegal computer move"
	ErrUnknownDifficulty   Error = "unknown difficulty"
	ErrMatchNotFound       Error = "match not found"
	ErrCacheMiss           Error = "cache miss"
)
