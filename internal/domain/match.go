package domain

import "time"

// Move is a placement recorded during a match.
type Move struct {
	Whose Mover `json:"whose"`
	Row   int   `json:"row"`
	Col   int   `json:"col"`
}

// MatchResult is what gets stored once a match reaches a terminal state.
type MatchResult struct {
	ID         string    `json:"id"`
	Winner     Cell      `json:"winner"` // Empty for a draw
	Reason     string    `json:"reason"` // "connect_four" or "draw"
	Difficulty string    `json:"difficulty,omitempty"`
	Moves      []Move    `json:"moves"`
	TotalMoves int       `json:"total_moves"`
	FinalBoard string    `json:"final_board"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

const (
	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
)

func (m *MatchResult) DurationSeconds() int {
	return int(m.FinishedAt.Sub(m.StartedAt).Seconds())
}
