package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Predictor interface {
	Predict(ctx context.Context, encoded string, difficulty string, test bool) (int, error)
}

type PredictRequest struct {
	Board      string `json:"board" binding:"required"`
	Test       bool   `json:"test"`
	Difficulty string `json:"difficulty"`
}

type PredictResponse struct {
	Move int `json:"move"`
}

type PredictHandler struct {
	Service Predictor
}

func NewPredictHandler(service Predictor) *PredictHandler {
	return &PredictHandler{Service: service}
}

func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	move, err := h.Service.Predict(c.Request.Context(), req.Board, req.Difficulty, req.Test)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PredictResponse{Move: move})
}
