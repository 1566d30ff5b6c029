// Package controller turns pointer input from the view into game moves and
// runs the player-then-computer turn sequence.
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	"github.com/LoSiuVincent/connect-four-mcts/internal/events"
)

// Game is the part of the game state machine the controller drives.
type Game interface {
	DropCoin(ctx context.Context, column int, mover domain.Mover) (int, error)
	MakeComputerMove(ctx context.Context) error
	IsColumnFull(column int) bool
	IsComputerThinking() bool
	IsEnded() bool
	Winner() domain.Cell
}

// View is the rendering collaborator that owns the canvas geometry.
type View interface {
	IsInsideCanvas(x, y int) bool
	CellLength() int
	AddListener(event string, listener events.Listener)
}

type Controller struct {
	game   Game
	view   View
	turnMu sync.Mutex // held for a whole player+computer turn
	logger zerolog.Logger
}

// New creates a controller and subscribes it to the view's mouse clicks.
func New(game Game, view View) *Controller {
	c := &Controller{
		game:   game,
		view:   view,
		logger: log.With().Str("component", "controller").Logger(),
	}
	view.AddListener(domain.EventMouseClick, c)
	return c
}

// Update handles view notifications. Clicks are dropped while the computer
// is thinking or once the game has ended.
func (c *Controller) Update(ctx context.Context, event string, payload any) error {
	if event != domain.EventMouseClick {
		return nil
	}
	click, ok := payload.(domain.MouseClickEvent)
	if !ok {
		return fmt.Errorf("unexpected %s payload %T", event, payload)
	}

	if c.game.IsComputerThinking() || c.game.IsEnded() {
		return nil
	}
	return c.HandleMouseClick(ctx, click.X, click.Y)
}

// HandleMouseClick plays the player's coin in the clicked column and then
// waits for the computer's reply. A click arriving while a turn is still
// in flight is ignored.
func (c *Controller) HandleMouseClick(ctx context.Context, x, y int) error {
	if !c.view.IsInsideCanvas(x, y) {
		return nil
	}

	if !c.turnMu.TryLock() {
		c.logger.Debug().Int("x", x).Int("y", y).Msg("Turn in progress, click ignored")
		return nil
	}
	defer c.turnMu.Unlock()

	cellLength := c.view.CellLength()
	if cellLength <= 0 {
		return fmt.Errorf("invalid cell length %d", cellLength)
	}
	column := x / cellLength
	if !domain.IsValidColumn(column) {
		return nil
	}
	if c.game.IsColumnFull(column) {
		c.logger.Debug().Int("column", column).Msg("Column full, click ignored")
		return nil
	}

	if _, err := c.game.DropCoin(ctx, column, domain.Player); err != nil {
		return err
	}

	if c.game.IsEnded() || c.game.Winner() != domain.Empty {
		return nil
	}

	return c.game.MakeComputerMove(ctx)
}
