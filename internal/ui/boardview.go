// Package ui renders the Connect Four board in the terminal and turns pointer
// input into mouseClick notifications.
package ui

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	"github.com/LoSiuVincent/connect-four-mcts/internal/events"
)

const (
	DefaultCellLength = 4
	cellHeight        = 2
	borderWidth       = 1

	coinRune  = '●'
	emptyRune = '·'
)

const (
	StatusYourTurn     = "Your turn"
	StatusThinking     = "Thinking ..."
	StatusPlayerWins   = "You win!"
	StatusComputerWins = "Computer wins!"
	StatusDraw         = "Draw!"

	statusHelpSuffix = "   click a column or press 1-7, q to quit"
)

// BoardSource is where the view reads the board it draws.
type BoardSource interface {
	Board() domain.Board
}

type BoardView struct {
	Box *tview.Box

	app        *tview.Application
	source     BoardSource
	statusView *tview.TextView
	hub        *events.Hub
	ctx        context.Context
	cellLength int
	logger     zerolog.Logger

	mu      sync.Mutex
	originX int
	originY int
	status  string

	// dispatch delivers a click; replaced in tests to run synchronously
	dispatch func(func())
}

func NewBoardView(ctx context.Context, app *tview.Application, source BoardSource, statusView *tview.TextView) *BoardView {
	v := &BoardView{
		Box:        tview.NewBox(),
		app:        app,
		source:     source,
		statusView: statusView,
		hub:        events.NewHub(),
		ctx:        ctx,
		cellLength: DefaultCellLength,
		status:     StatusYourTurn,
		logger:     log.With().Str("component", "ui").Logger(),
		dispatch:   func(f func()) { go f() },
	}
	v.Box.SetBorder(true).SetTitle(" Connect Four ")
	v.Box.SetDrawFunc(v.draw)
	v.Box.SetMouseCapture(v.handleMouse)
	v.Box.SetInputCapture(v.handleKey)
	v.renderStatus()
	return v
}

// AddListener subscribes to the view's own notifications (mouseClick).
func (v *BoardView) AddListener(event string, listener events.Listener) {
	v.hub.AddListener(event, listener)
}

func (v *BoardView) CellLength() int {
	return v.cellLength
}

func (v *BoardView) CanvasWidth() int {
	return domain.Columns * v.cellLength
}

func (v *BoardView) CanvasHeight() int {
	return domain.Rows * cellHeight
}

// IsInsideCanvas reports whether a point relative to the board's top-left
// corner lies on the board.
func (v *BoardView) IsInsideCanvas(x, y int) bool {
	return x >= 0 && x < v.CanvasWidth() && y >= 0 && y < v.CanvasHeight()
}

func (v *BoardView) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Update follows the game's notifications to keep the status line current.
func (v *BoardView) Update(_ context.Context, event string, payload any) error {
	switch event {
	case domain.EventComputerStartThinking:
		v.setStatus(StatusThinking)
	case domain.EventComputerStopThinking:
		v.setStatus(StatusYourTurn)
	case domain.EventHasWinner:
		if result, ok := payload.(domain.HasWinnerEvent); ok && result.Winner == domain.Player {
			v.setStatus(StatusPlayerWins)
		} else {
			v.setStatus(StatusComputerWins)
		}
	case domain.EventDraw:
		v.setStatus(StatusDraw)
	}
	v.refresh()
	return nil
}

// Attach subscribes the view to every game event it renders.
func (v *BoardView) Attach(game interface {
	AddListener(event string, listener events.Listener)
}) {
	for _, event := range []string{
		domain.EventDropCoin,
		domain.EventHasWinner,
		domain.EventDraw,
		domain.EventComputerStartThinking,
		domain.EventComputerStopThinking,
	} {
		game.AddListener(event, v)
	}
}

func (v *BoardView) setStatus(status string) {
	v.mu.Lock()
	v.status = status
	v.mu.Unlock()
}

func (v *BoardView) renderStatus() {
	if v.statusView == nil {
		return
	}
	status := v.Status()
	text := status
	if status == StatusYourTurn {
		text += statusHelpSuffix
	}
	v.statusView.SetText(text)
}

// refresh redraws from outside the event loop.
func (v *BoardView) refresh() {
	if v.app == nil {
		v.renderStatus()
		return
	}
	v.app.QueueUpdateDraw(v.renderStatus)
}

func (v *BoardView) handleMouse(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
	if action != tview.MouseLeftClick {
		return action, event
	}
	sx, sy := event.Position()

	v.mu.Lock()
	x, y := sx-v.originX, sy-v.originY
	v.mu.Unlock()

	v.click(x, y)
	return action, nil
}

func (v *BoardView) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	r := event.Rune()
	if r < '1' || r > '0'+domain.Columns {
		return event
	}
	col := int(r - '1')
	v.click(col*v.cellLength+v.cellLength/2, 0)
	return nil
}

// click hands the event to listeners off the UI goroutine; the controller
// blocks for the whole computer turn.
func (v *BoardView) click(x, y int) {
	v.dispatch(func() {
		if err := v.hub.Notify(v.ctx, domain.EventMouseClick, domain.MouseClickEvent{X: x, Y: y}); err != nil {
			v.logger.Error().Err(err).Int("x", x).Int("y", y).Msg("Click handling failed")
		}
	})
}

func (v *BoardView) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	left := x + borderWidth + max(0, (width-2*borderWidth-v.CanvasWidth())/2)
	top := y + borderWidth

	v.mu.Lock()
	v.originX, v.originY = left, top
	v.mu.Unlock()

	board := v.source.Board()
	bg := tcell.StyleDefault.Background(tcell.ColorNavy)

	for screenRow := 0; screenRow < domain.Rows; screenRow++ {
		boardRow := domain.Rows - 1 - screenRow
		for col := 0; col < domain.Columns; col++ {
			style, r := cellStyle(bg, board[boardRow][col])
			cx := left + col*v.cellLength
			cy := top + screenRow*cellHeight
			for dy := 0; dy < cellHeight; dy++ {
				for dx := 0; dx < v.cellLength; dx++ {
					screen.SetContent(cx+dx, cy+dy, ' ', nil, bg)
				}
			}
			screen.SetContent(cx+v.cellLength/2, cy, r, nil, style)
		}
	}

	// column labels under the board
	for col := 0; col < domain.Columns; col++ {
		screen.SetContent(left+col*v.cellLength+v.cellLength/2, top+v.CanvasHeight(), rune('1'+col), nil, tcell.StyleDefault)
	}

	return x + borderWidth, y + borderWidth, width - 2*borderWidth, height - 2*borderWidth
}

func cellStyle(bg tcell.Style, cell domain.Cell) (tcell.Style, rune) {
	switch cell {
	case domain.Player:
		return bg.Foreground(tcell.ColorRed), coinRune
	case domain.Computer:
		return bg.Foreground(tcell.ColorYellow), coinRune
	default:
		return bg.Foreground(tcell.ColorGray), emptyRune
	}
}
