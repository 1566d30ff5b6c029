package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LoSiuVincent/connect-four-mcts/internal/transport/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	JWTSecret      string
	Predict        *PredictHandler
	// Matches is nil when no database is configured; the match routes are
	// then not registered.
	Matches   *MatchHandler
	WebSocket gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/predict", cfg.Predict.Predict)

	if cfg.Matches != nil {
		router.GET("/api/matches", cfg.Matches.ListMatches)
		router.GET("/api/matches/:id", cfg.Matches.GetMatch)

		protected := router.Group("/api")
		protected.Use(middleware.ServiceAuthMiddleware(cfg.JWTSecret))
		{
			protected.POST("/matches", cfg.Matches.SaveMatch)
		}
	}

	if cfg.WebSocket != nil {
		router.GET("/ws", cfg.WebSocket)
	}

	return router
}
