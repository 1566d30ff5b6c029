// Package predict answers move-provider requests for the HTTP and WebSocket
// transports.
package predict

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	"github.com/LoSiuVincent/connect-four-mcts/internal/service/bot"
)

const cacheKeyPrefix = "predict:"

// CacheRepository.Get returns domain.ErrCacheMiss for absent keys.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	engine            *bot.Engine
	cache             CacheRepository // Optional, can be nil
	cacheTTL          time.Duration
	defaultDifficulty string
	logger            zerolog.Logger
}

func NewService(engine *bot.Engine, cache CacheRepository, cacheTTL time.Duration, defaultDifficulty string) *Service {
	return &Service{
		engine:            engine,
		cache:             cache,
		cacheTTL:          cacheTTL,
		defaultDifficulty: defaultDifficulty,
		logger:            log.With().Str("component", "predict").Logger(),
	}
}

// Predict returns the computer's column for an encoded board. Test requests
// always use the fixed strategy.
func (s *Service) Predict(ctx context.Context, encoded string, difficulty string, test bool) (int, error) {
	switch {
	case test:
		difficulty = bot.DifficultyFixed
	case difficulty == "":
		difficulty = s.defaultDifficulty
	}
	if !bot.IsValidDifficulty(difficulty) {
		return -1, fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, difficulty)
	}

	board, err := domain.DecodeBoard(encoded)
	if err != nil {
		return -1, err
	}
	if status, _ := board.Status(); status != domain.StatusInProgress {
		return -1, domain.ErrGameOver
	}

	useCache := s.cache != nil && bot.IsDeterministic(difficulty)
	key := cacheKeyPrefix + difficulty + ":" + encoded
	if useCache {
		if col, ok := s.lookup(ctx, key); ok {
			return col, nil
		}
	}

	start := time.Now()
	col, err := s.engine.CalculateBestMove(board, domain.Computer, difficulty)
	if err != nil {
		return -1, err
	}

	s.logger.Info().
		Str("difficulty", difficulty).
		Str("board", encoded).
		Int("move", col).
		Dur("took", time.Since(start)).
		Msg("Prediction served")

	if useCache {
		if err := s.cache.Set(ctx, key, strconv.Itoa(col), s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache prediction")
		}
	}
	return col, nil
}

func (s *Service) lookup(ctx context.Context, key string) (int, bool) {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("Cache lookup failed")
		}
		return -1, false
	}
	col, err := strconv.Atoi(cached)
	if err != nil || !domain.IsValidColumn(col) {
		s.logger.Warn().Str("key", key).Str("value", cached).Msg("Discarding corrupt cache entry")
		return -1, false
	}
	return col, true
}
