package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LoSiuVincent/connect-four-mcts/internal/domain"
	"github.com/LoSiuVincent/connect-four-mcts/pkg/uid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type MatchRepository interface {
	SaveMatch(ctx context.Context, match domain.MatchResult) error
	ListMatches(ctx context.Context, limit int) ([]domain.MatchResult, error)
	GetMatch(ctx context.Context, matchID string) (*domain.MatchResult, error)
}

type MatchHandler struct {
	Repo MatchRepository
}

func NewMatchHandler(repo MatchRepository) *MatchHandler {
	return &MatchHandler{Repo: repo}
}

func (h *MatchHandler) SaveMatch(c *gin.Context) {
	var match domain.MatchResult
	if err := c.ShouldBindJSON(&match); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if msg := validateMatch(&match); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := h.Repo.SaveMatch(c.Request.Context(), match); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": match.ID})
}

func validateMatch(m *domain.MatchResult) string {
	if !uid.IsValidMatchID(m.ID) {
		return "id must be a UUID"
	}
	board, err := domain.DecodeBoard(m.FinalBoard)
	if err != nil {
		return "final_board: " + err.Error()
	}
	status, winner := board.Status()
	switch {
	case status == domain.StatusInProgress:
		return "final_board is not a finished game"
	case winner != m.Winner:
		return "winner does not match final_board"
	case m.Reason != domain.ReasonConnectFour && m.Reason != domain.ReasonDraw:
		return "unknown reason"
	case len(m.Moves) != board.CountMoves():
		return "moves do not match final_board"
	}
	if m.TotalMoves == 0 {
		m.TotalMoves = len(m.Moves)
	}
	if m.FinishedAt.IsZero() {
		m.FinishedAt = time.Now()
	}
	if m.StartedAt.IsZero() || m.StartedAt.After(m.FinishedAt) {
		m.StartedAt = m.FinishedAt
	}
	return ""
}

func (h *MatchHandler) ListMatches(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxListLimit)
	}

	matches, err := h.Repo.ListMatches(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.Repo.GetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, match)
}
