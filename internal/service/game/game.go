package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	"github.com/LoSiuVincent/connect-four-mcts/internal/events"
)

// Game owns the board of one match against the computer and is its only
// mutator. State changes are broadcast through the embedded hub after the
// lock is released, so listeners are free to query the game.
type Game struct {
	board              domain.Board
	status             domain.GameStatus
	winner             domain.Cell
	moveCount          int
	isComputerThinking bool
	isEnded            bool

	provider          MoveProvider
	computerMoveDelay time.Duration
	hub               *events.Hub
	logger            zerolog.Logger
	mu                sync.Mutex
}

// NewGame starts a match on an empty board. computerMoveDelay is the minimum
// time MakeComputerMove takes; zero disables the padding.
func NewGame(provider MoveProvider, computerMoveDelay time.Duration) *Game {
	return &Game{
		board:             domain.NewBoard(),
		status:            domain.StatusInProgress,
		winner:            domain.Empty,
		provider:          provider,
		computerMoveDelay: computerMoveDelay,
		hub:               events.NewHub(),
		logger:            log.With().Str("component", "game").Logger(),
	}
}

func (g *Game) AddListener(event string, listener events.Listener) {
	g.hub.AddListener(event, listener)
}

func (g *Game) Notify(ctx context.Context, event string, payload any) error {
	return g.hub.Notify(ctx, event, payload)
}

func (g *Game) CellState(row, col int) domain.Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board[row][col]
}

// Board returns a copy of the current grid.
func (g *Game) Board() domain.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

func (g *Game) EncodedBoard() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Encode()
}

func (g *Game) IsColumnFull(col int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.IsColumnFull(col)
}

// Winner is a pure query over the board; Empty means no winner.
func (g *Game) Winner() domain.Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Winner()
}

func (g *Game) Status() domain.GameStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Game) MoveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moveCount
}

func (g *Game) IsComputerThinking() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isComputerThinking
}

func (g *Game) IsEnded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isEnded
}

// DropCoin drops mover's coin into column and returns the landing row.
// Out-of-range columns, full columns and invalid movers are rejected without
// touching the board or notifying anyone.
func (g *Game) DropCoin(ctx context.Context, column int, mover domain.Mover) (int, error) {
	g.mu.Lock()
	if g.isEnded {
		g.logger.Warn().Int("column", column).Str("mover", mover.String()).Msg("Move applied after the game ended")
	}

	row, err := g.board.DropCoin(column, mover)
	if err != nil {
		g.mu.Unlock()
		g.logger.Error().Err(err).Int("column", column).Str("mover", mover.String()).Msg("Rejected coin drop")
		return -1, fmt.Errorf("drop coin in column %d: %w", column, err)
	}
	g.moveCount++

	status, winner := g.board.Status()
	if status != domain.StatusInProgress {
		g.status = status
		g.winner = winner
		g.isEnded = true
	}
	g.mu.Unlock()

	g.notify(ctx, domain.EventDropCoin, domain.DropCoinEvent{Whose: mover, Row: row, Col: column})

	switch status {
	case domain.StatusWon:
		g.logger.Info().Str("winner", winner.String()).Msg("Game won")
		g.notify(ctx, domain.EventHasWinner, domain.HasWinnerEvent{Winner: winner})
	case domain.StatusDraw:
		g.logger.Info().Msg("Game ended in a draw")
		g.notify(ctx, domain.EventDraw, domain.NoPayload{})
	}

	return row, nil
}

// MakeComputerMove asks the provider for a column and plays it for the
// computer. When the provider answers faster than the configured delay the
// call waits out the remainder. A winning computer move leaves the thinking
// flag set and does not emit computerStopThinking.
func (g *Game) MakeComputerMove(ctx context.Context) error {
	g.mu.Lock()
	g.isComputerThinking = true
	encoded := g.board.Encode()
	g.mu.Unlock()

	g.notify(ctx, domain.EventComputerStartThinking, domain.NoPayload{})

	startTime := time.Now()
	column, err := g.provider.GetComputerMove(ctx, encoded)
	if err != nil {
		g.logger.Error().Err(err).Str("board", encoded).Msg("Move provider failed")
		g.stopThinking(ctx)
		return fmt.Errorf("get computer move: %w", err)
	}

	if remaining := g.computerMoveDelay - time.Since(startTime); remaining > 0 {
		timer := time.NewTimer(remaining)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			g.stopThinking(ctx)
			return ctx.Err()
		}
	}

	if _, err := g.DropCoin(ctx, column, domain.Computer); err != nil {
		g.stopThinking(ctx)
		return fmt.Errorf("%w: %w", domain.ErrIllegalComputerMove, err)
	}

	if g.Winner() == domain.Computer {
		return nil
	}

	g.stopThinking(ctx)
	return nil
}

func (g *Game) stopThinking(ctx context.Context) {
	g.mu.Lock()
	g.isComputerThinking = false
	g.mu.Unlock()

	g.notify(ctx, domain.EventComputerStopThinking, domain.NoPayload{})
}

func (g *Game) notify(ctx context.Context, event string, payload any) {
	if err := g.hub.Notify(ctx, event, payload); err != nil {
		g.logger.Warn().Err(err).Str("event", event).Msg("Listener failed")
	}
}
