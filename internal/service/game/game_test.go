package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	"github.com/LoSiuVincent/connect-four-mcts/internal/events"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
	drops  []domain.DropCoinEvent
	winner domain.Mover
}

func (l *eventLog) Update(_ context.Context, event string, payload any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	switch p := payload.(type) {
	case domain.DropCoinEvent:
		l.drops = append(l.drops, p)
	case domain.HasWinnerEvent:
		l.winner = p.Winner
	}
	return nil
}

func (l *eventLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func watch(g *Game) *eventLog {
	l := &eventLog{}
	for _, e := range []string{
		domain.EventDropCoin,
		domain.EventHasWinner,
		domain.EventDraw,
		domain.EventComputerStartThinking,
		domain.EventComputerStopThinking,
	} {
		g.AddListener(e, l)
	}
	return l
}

func fixedProvider(col int) MoveProvider {
	return MoveProviderFunc(func(context.Context, string) (int, error) {
		return col, nil
	})
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewGame(t *testing.T) {
	g := NewGame(fixedProvider(0), 0)
	if g.IsEnded() || g.IsComputerThinking() || g.MoveCount() != 0 {
		t.Fatal("new game should be idle")
	}
	if g.Winner() != domain.Empty || g.Status() != domain.StatusInProgress {
		t.Fatal("new game should be in progress")
	}
	if g.Board() != domain.NewBoard() {
		t.Fatal("new game should start on an empty board")
	}
}

func TestIsColumnFullOutsideBoard(t *testing.T) {
	g := NewGame(fixedProvider(0), 0)
	if !g.IsColumnFull(domain.Columns) || !g.IsColumnFull(-1) {
		t.Fatal("columns outside the board should report full")
	}
	if g.IsColumnFull(3) {
		t.Fatal("column 3 of a new game is not full")
	}
}

func TestDropCoinNotifies(t *testing.T) {
	g := NewGame(fixedProvider(0), 0)
	log := watch(g)

	row, err := g.DropCoin(context.Background(), 4, domain.Player)
	if err != nil || row != 0 {
		t.Fatalf("DropCoin = %d, %v", row, err)
	}
	if g.CellState(0, 4) != domain.Player {
		t.Fatal("coin not placed")
	}
	if !equal(log.names(), []string{domain.EventDropCoin}) {
		t.Fatalf("events = %v", log.names())
	}
	if d := log.drops[0]; d.Whose != domain.Player || d.Row != 0 || d.Col != 4 {
		t.Fatalf("payload = %+v", d)
	}
	if g.EncodedBoard() != "EEEEPEE|EEEEEEE|EEEEEEE|EEEEEEE|EEEEEEE|EEEEEEE" {
		t.Fatalf("encoded = %q", g.EncodedBoard())
	}
}

func TestDropCoinRejected(t *testing.T) {
	g := NewGame(fixedProvider(0), 0)
	ctx := context.Background()
	for i := 0; i < domain.Rows; i++ {
		g.DropCoin(ctx, 0, domain.Player+domain.Cell(i%2))
	}
	log := watch(g)
	before := g.Board()

	tests := []struct {
		column int
		mover  domain.Mover
		want   error
	}{
		{7, domain.Player, domain.ErrColumnOutOfRange},
		{-1, domain.Computer, domain.ErrColumnOutOfRange},
		{0, domain.Player, domain.ErrColumnFull},
		{3, domain.Empty, domain.ErrInvalidMover},
	}
	for _, tt := range tests {
		if _, err := g.DropCoin(ctx, tt.column, tt.mover); !errors.Is(err, tt.want) {
			t.Errorf("DropCoin(%d, %v) err = %v, want %v", tt.column, tt.mover, err, tt.want)
		}
	}
	if g.Board() != before || g.MoveCount() != domain.Rows {
		t.Fatal("rejected drops changed the game")
	}
	if len(log.names()) != 0 {
		t.Fatalf("rejected drops notified %v", log.names())
	}
}

func TestPlayerWinEndsGame(t *testing.T) {
	g := NewGame(fixedProvider(0), 0)
	log := watch(g)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		g.DropCoin(ctx, 3, domain.Player)
		g.DropCoin(ctx, 2, domain.Computer)
	}
	if g.IsEnded() {
		t.Fatal("game ended early")
	}
	g.DropCoin(ctx, 3, domain.Player)

	if !g.IsEnded() || g.Winner() != domain.Player || g.Status() != domain.StatusWon {
		t.Fatalf("ended %v winner %v status %s", g.IsEnded(), g.Winner(), g.Status())
	}
	names := log.names()
	if names[len(names)-2] != domain.EventDropCoin || names[len(names)-1] != domain.EventHasWinner {
		t.Fatalf("last events = %v", names[len(names)-2:])
	}
	if log.winner != domain.Player {
		t.Fatalf("hasWinner payload = %v", log.winner)
	}
}

func TestDrawEndsGame(t *testing.T) {
	// plays into the full no-winner layout PPCCPPC|PPCCPPC|CCPPCCP|PPCCPPC|CCPPCCP|CCPPCCP
	layout := [domain.Rows]string{"PPCCPPC", "PPCCPPC", "CCPPCCP", "PPCCPPC", "CCPPCCP", "CCPPCCP"}
	g := NewGame(fixedProvider(0), 0)
	log := watch(g)
	ctx := context.Background()

	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			mover := domain.Player
			if layout[row][col] == 'C' {
				mover = domain.Computer
			}
			if _, err := g.DropCoin(ctx, col, mover); err != nil {
				t.Fatal(err)
			}
		}
	}

	if !g.IsEnded() || g.Status() != domain.StatusDraw || g.Winner() != domain.Empty {
		t.Fatalf("ended %v status %s winner %v", g.IsEnded(), g.Status(), g.Winner())
	}
	names := log.names()
	if names[len(names)-1] != domain.EventDraw {
		t.Fatalf("last event = %s", names[len(names)-1])
	}
	for _, n := range names {
		if n == domain.EventHasWinner {
			t.Fatal("draw must not announce a winner")
		}
	}
}

func TestMakeComputerMoveSequence(t *testing.T) {
	g := NewGame(fixedProvider(5), 0)
	log := watch(g)

	thinkingDuringCall := false
	g.AddListener(domain.EventComputerStartThinking, events.ListenerFunc(func(context.Context, string, any) error {
		thinkingDuringCall = g.IsComputerThinking()
		return nil
	}))

	if err := g.MakeComputerMove(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []string{domain.EventComputerStartThinking, domain.EventDropCoin, domain.EventComputerStopThinking}
	if !equal(log.names(), want) {
		t.Fatalf("events = %v, want %v", log.names(), want)
	}
	if !thinkingDuringCall {
		t.Fatal("thinking flag should be set while the provider runs")
	}
	if g.IsComputerThinking() {
		t.Fatal("thinking flag should be cleared afterwards")
	}
	if g.CellState(0, 5) != domain.Computer {
		t.Fatal("computer coin not placed")
	}
}

func TestMakeComputerMoveSendsEncodedBoard(t *testing.T) {
	var got string
	g := NewGame(MoveProviderFunc(func(_ context.Context, board string) (int, error) {
		got = board
		return 0, nil
	}), 0)
	g.DropCoin(context.Background(), 6, domain.Player)

	if err := g.MakeComputerMove(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != "EEEEEEP|EEEEEEE|EEEEEEE|EEEEEEE|EEEEEEE|EEEEEEE" {
		t.Fatalf("provider got %q", got)
	}
}

func TestMakeComputerMoveWaitsForDelay(t *testing.T) {
	const floor = 200 * time.Millisecond
	g := NewGame(fixedProvider(0), floor)

	start := time.Now()
	if err := g.MakeComputerMove(context.Background()); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)
	if elapsed < floor || elapsed > floor+50*time.Millisecond {
		t.Fatalf("returned after %v, want between %v and %v", elapsed, floor, floor+50*time.Millisecond)
	}
}

func TestMakeComputerMoveSlowProviderNotPadded(t *testing.T) {
	const answer = 150 * time.Millisecond
	provider := MoveProviderFunc(func(context.Context, string) (int, error) {
		time.Sleep(answer)
		return 0, nil
	})
	g := NewGame(provider, 100*time.Millisecond)

	start := time.Now()
	if err := g.MakeComputerMove(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > answer+50*time.Millisecond {
		t.Fatalf("took %v, the delay should not add to a slow provider", elapsed)
	}
}

func TestComputerWinKeepsThinkingFlag(t *testing.T) {
	g := NewGame(fixedProvider(3), 0)
	ctx := context.Background()
	for col := 0; col < 3; col++ {
		g.DropCoin(ctx, col, domain.Computer)
		g.DropCoin(ctx, col, domain.Player)
	}
	log := watch(g)

	if err := g.MakeComputerMove(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{domain.EventComputerStartThinking, domain.EventDropCoin, domain.EventHasWinner}
	if !equal(log.names(), want) {
		t.Fatalf("events = %v, want %v", log.names(), want)
	}
	if !g.IsComputerThinking() {
		t.Fatal("a winning computer move leaves the thinking flag set")
	}
	if g.Winner() != domain.Computer || !g.IsEnded() {
		t.Fatal("computer should have won")
	}
}

func TestMakeComputerMoveProviderError(t *testing.T) {
	boom := errors.New("server unavailable")
	g := NewGame(MoveProviderFunc(func(context.Context, string) (int, error) {
		return -1, boom
	}), 0)
	log := watch(g)

	if err := g.MakeComputerMove(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want provider error", err)
	}
	if g.IsComputerThinking() {
		t.Fatal("thinking flag should be cleared after a provider error")
	}
	want := []string{domain.EventComputerStartThinking, domain.EventComputerStopThinking}
	if !equal(log.names(), want) {
		t.Fatalf("events = %v, want %v", log.names(), want)
	}
	if g.MoveCount() != 0 {
		t.Fatal("no coin should be placed")
	}
}

func TestMakeComputerMoveIllegalColumn(t *testing.T) {
	g := NewGame(fixedProvider(9), 0)
	log := watch(g)

	err := g.MakeComputerMove(context.Background())
	if !errors.Is(err, domain.ErrIllegalComputerMove) || !errors.Is(err, domain.ErrColumnOutOfRange) {
		t.Fatalf("err = %v", err)
	}
	if g.IsComputerThinking() {
		t.Fatal("thinking flag should be cleared")
	}
	for _, n := range log.names() {
		if n == domain.EventDropCoin {
			t.Fatal("illegal column must not be dropped")
		}
	}
}

func TestMakeComputerMoveCancelledDuringDelay(t *testing.T) {
	g := NewGame(fixedProvider(0), time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := g.MakeComputerMove(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if g.MoveCount() != 0 || g.IsComputerThinking() {
		t.Fatal("cancelled move should leave the board untouched and stop thinking")
	}
}
