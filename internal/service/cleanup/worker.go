package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type MatchPruner interface {
	DeleteMatchesOlderThan(ctx context.Context, days int) (int64, error)
}

type Worker struct {
	Repo          MatchPruner
	RetentionDays int
	Interval      time.Duration
	logger        zerolog.Logger
}

func NewWorker(repo MatchPruner, retentionDays int, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{
		Repo:          repo,
		RetentionDays: retentionDays,
		Interval:      interval,
		logger:        log.With().Str("component", "cleanup").Logger(),
	}
}

// Start runs one cleanup immediately, then every Interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info().Dur("interval", w.Interval).Int("retention_days", w.RetentionDays).Msg("Background worker started")
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Background worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce prunes matches past the retention window and returns how many
// were removed. A non-positive retention keeps everything.
func (w *Worker) RunOnce(ctx context.Context) int64 {
	if w.RetentionDays <= 0 {
		return 0
	}

	deleted, err := w.Repo.DeleteMatchesOlderThan(ctx, w.RetentionDays)
	if err != nil {
		w.logger.Error().Err(err).Msg("Error cleaning up old matches")
		return 0
	}
	if deleted > 0 {
		w.logger.Info().Int64("deleted", deleted).Msg("Removed expired matches")
	}
	return deleted
}
