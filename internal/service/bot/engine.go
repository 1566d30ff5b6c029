package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
)

const (
	DifficultyFixed  = "fixed"
	DifficultyRandom = "random"
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyMCTS   = "mcts"
)

// Difficulties lists every strategy the engine knows.
var Difficulties = []string{
	DifficultyFixed,
	DifficultyRandom,
	DifficultyEasy,
	DifficultyMedium,
	DifficultyHard,
	DifficultyMCTS,
}

func IsValidDifficulty(difficulty string) bool {
	for _, d := range Difficulties {
		if d == difficulty {
			return true
		}
	}
	return false
}

// IsDeterministic reports whether the same board always yields the same move.
func IsDeterministic(difficulty string) bool {
	switch difficulty {
	case DifficultyFixed, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Engine selects moves for a bot mover.
type Engine struct {
	MCTSIterations int
}

func NewEngine(mctsIterations int) *Engine {
	return &Engine{MCTSIterations: mctsIterations}
}

// CalculateBestMove selects a column based on difficulty.
func (e *Engine) CalculateBestMove(board domain.Board, bot domain.Mover, difficulty string) (int, error) {
	if !bot.IsMover() {
		return -1, domain.ErrInvalidMover
	}
	if len(board.ValidMoves()) == 0 {
		return -1, domain.ErrNoValidMoves
	}
	if status, _ := board.Status(); status != domain.StatusInProgress {
		return -1, domain.ErrGameOver
	}

	start := time.Now()
	var col int
	switch difficulty {
	case DifficultyFixed:
		col = calculateFixedMove(board, bot)
	case DifficultyRandom:
		col = calculateRandomMove(board, bot)
	case DifficultyEasy:
		col = calculateEasyMove(board, bot)
	case DifficultyMedium:
		col = calculateMediumMove(board, bot)
	case DifficultyHard:
		col = calculateHardMove(board, bot)
	case DifficultyMCTS:
		col = calculateMCTSMove(board, bot, e.MCTSIterations)
	default:
		return -1, fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, difficulty)
	}

	log.Debug().
		Str("component", "bot").
		Str("difficulty", difficulty).
		Int("column", col).
		Dur("took", time.Since(start)).
		Msg("Move calculated")
	return col, nil
}

var defaultEngine = NewEngine(DefaultMCTSIterations)

// CalculateBestMove uses the default engine settings.
func CalculateBestMove(board domain.Board, bot domain.Mover, difficulty string) (int, error) {
	return defaultEngine.CalculateBestMove(board, bot, difficulty)
}

// Provider answers computer move requests in-process, without a server.
type Provider struct {
	Engine     *Engine
	Difficulty string
}

func NewProvider(engine *Engine, difficulty string) *Provider {
	return &Provider{Engine: engine, Difficulty: difficulty}
}

func (p *Provider) GetComputerMove(ctx context.Context, encodedBoard string) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	board, err := domain.DecodeBoard(encodedBoard)
	if err != nil {
		return -1, err
	}
	return p.Engine.CalculateBestMove(board, domain.Computer, p.Difficulty)
}
