// Package recorder turns the game's notifications into a stored match.
package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	"github.com/LoSiuVincent/connect-four-mcts/internal/events"
	"github.com/LoSiuVincent/connect-four-mcts/pkg/uid"
)

const saveTimeout = 10 * time.Second

type MatchStore interface {
	SaveMatch(ctx context.Context, match domain.MatchResult) error
}

// Subscriber is the part of the game the recorder attaches to.
type Subscriber interface {
	AddListener(event string, listener events.Listener)
}

// Recorder collects moves and saves the match once it reaches a terminal
// state. Saving runs in the background so a slow store never stalls play.
type Recorder struct {
	store      MatchStore
	difficulty string
	now        func() time.Time
	logger     zerolog.Logger

	mu        sync.Mutex
	board     domain.Board
	moves     []domain.Move
	startedAt time.Time
	recorded  bool
	lastErr   error

	pending sync.WaitGroup
}

func New(store MatchStore, difficulty string) *Recorder {
	return &Recorder{
		store:      store,
		difficulty: difficulty,
		now:        time.Now,
		board:      domain.NewBoard(),
		logger:     log.With().Str("component", "recorder").Logger(),
	}
}

// Attach registers the recorder for the events it needs.
func (r *Recorder) Attach(s Subscriber) {
	for _, event := range []string{domain.EventDropCoin, domain.EventHasWinner, domain.EventDraw} {
		s.AddListener(event, r)
	}
}

func (r *Recorder) Update(ctx context.Context, event string, payload any) error {
	switch event {
	case domain.EventDropCoin:
		move, ok := payload.(domain.DropCoinEvent)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", event, payload)
		}
		r.addMove(move)
	case domain.EventHasWinner:
		result, ok := payload.(domain.HasWinnerEvent)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", event, payload)
		}
		r.finish(ctx, result.Winner, domain.ReasonConnectFour)
	case domain.EventDraw:
		r.finish(ctx, domain.Empty, domain.ReasonDraw)
	}
	return nil
}

func (r *Recorder) addMove(move domain.DropCoinEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recorded {
		return
	}
	if len(r.moves) == 0 {
		r.startedAt = r.now()
	}
	if _, err := r.board.DropCoin(move.Col, move.Whose); err != nil {
		r.logger.Warn().Err(err).Int("col", move.Col).Msg("Replayed move rejected")
	}
	r.moves = append(r.moves, domain.Move{Whose: move.Whose, Row: move.Row, Col: move.Col})
}

func (r *Recorder) finish(ctx context.Context, winner domain.Cell, reason string) {
	r.mu.Lock()
	if r.recorded {
		r.mu.Unlock()
		return
	}
	r.recorded = true

	finishedAt := r.now()
	startedAt := r.startedAt
	if startedAt.IsZero() {
		startedAt = finishedAt
	}
	match := domain.MatchResult{
		ID:         uid.GenerateMatchID(),
		Winner:     winner,
		Reason:     reason,
		Difficulty: r.difficulty,
		Moves:      append([]domain.Move(nil), r.moves...),
		TotalMoves: len(r.moves),
		FinalBoard: r.board.Encode(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	r.mu.Unlock()

	r.pending.Add(1)
	go func() {
		defer r.pending.Done()

		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()

		err := r.store.SaveMatch(saveCtx, match)
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()

		if err != nil {
			r.logger.Error().Err(err).Str("match_id", match.ID).Msg("Failed to save match")
			return
		}
		r.logger.Info().Str("match_id", match.ID).Str("winner", winner.String()).Int("moves", match.TotalMoves).Msg("Match saved")
	}()
}

// Wait blocks until a started save has finished and returns its error.
func (r *Recorder) Wait() error {
	r.pending.Wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
