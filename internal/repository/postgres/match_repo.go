package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
)

type MatchRepo struct {
	DB *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{DB: db}
}

// SaveMatch inserts a finished match; resubmitting the same ID overwrites it.
func (r *MatchRepo) SaveMatch(ctx context.Context, match domain.MatchResult) error {
	movesJSON, err := json.Marshal(match.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}

	query := `
	INSERT INTO matches (match_id, winner, reason, difficulty, total_moves, duration_seconds, moves, final_board, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (match_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		moves = EXCLUDED.moves,
		final_board = EXCLUDED.final_board,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		match.ID, match.Winner.String(), match.Reason, match.Difficulty,
		match.TotalMoves, match.DurationSeconds(), movesJSON, match.FinalBoard,
		match.StartedAt, match.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match record: %w", err)
	}
	return nil
}

const matchColumns = `match_id, winner, reason, difficulty, total_moves, moves, final_board, started_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (domain.MatchResult, error) {
	var (
		match     domain.MatchResult
		winner    string
		movesJSON []byte
	)
	err := row.Scan(&match.ID, &winner, &match.Reason, &match.Difficulty, &match.TotalMoves,
		&movesJSON, &match.FinalBoard, &match.StartedAt, &match.FinishedAt)
	if err != nil {
		return match, err
	}
	if err := match.Winner.UnmarshalText([]byte(winner)); err != nil {
		return match, fmt.Errorf("match %s: winner %q: %w", match.ID, winner, err)
	}
	if err := json.Unmarshal(movesJSON, &match.Moves); err != nil {
		return match, fmt.Errorf("match %s: failed to unmarshal moves: %w", match.ID, err)
	}
	return match, nil
}

// GetMatch retrieves one match by ID
func (r *MatchRepo) GetMatch(ctx context.Context, matchID string) (*domain.MatchResult, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = $1;`

	match, err := scanMatch(r.DB.QueryRowContext(ctx, query, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &match, nil
}

const defaultListLimit = 20

// ListMatches returns the most recently finished matches first. A limit of
// zero or less falls back to defaultListLimit.
func (r *MatchRepo) ListMatches(ctx context.Context, limit int) ([]domain.MatchResult, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY finished_at DESC LIMIT $1;`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]domain.MatchResult, 0, limit)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// DeleteMatchesOlderThan removes matches finished more than days ago
func (r *MatchRepo) DeleteMatchesOlderThan(ctx context.Context, days int) (int64, error) {
	query := `DELETE FROM matches WHERE finished_at < NOW() - make_interval(days => $1);`

	result, err := r.DB.ExecContext(ctx, query, days)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old matches: %w", err)
	}
	return result.RowsAffected()
}
