package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/config"
	"github.com/LoSiuVincent/connect-four-mcts/internal/repository/postgres"
	"github.com/LoSiuVincent/connect-four-mcts/internal/repository/redis"
	"github.com/LoSiuVincent/connect-four-mcts/internal/service/bot"
	"github.com/LoSiuVincent/connect-four-mcts/internal/service/cleanup"
	"github.com/LoSiuVincent/connect-four-mcts/internal/service/predict"
	transportHttp "github.com/LoSiuVincent/connect-four-mcts/internal/transport/http"
	"github.com/LoSiuVincent/connect-four-mcts/internal/transport/websocket"
	"github.com/LoSiuVincent/connect-four-mcts/pkg/logger"
)

func main() {
	config.LoadEnvFile()
	cfg := config.LoadConfig()
	logger.Init(cfg.LogLevel, os.Stdout)

	if !bot.IsValidDifficulty(cfg.DefaultDifficulty) {
		log.Fatal().Str("difficulty", cfg.DefaultDifficulty).Msg("DEFAULT_DIFFICULTY is not a known difficulty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Prediction cache (optional)
	var cache predict.CacheRepository
	if client := redis.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword); client != nil {
		redisCache := redis.NewRedisCache(client)
		defer redisCache.Close()
		cache = redisCache
	}

	// 2. Services
	engine := bot.NewEngine(cfg.MCTSIterations)
	predictService := predict.NewService(engine, cache, cfg.PredictCacheTTL, cfg.DefaultDifficulty)

	// 3. Match history (optional)
	var matchHandler *transportHttp.MatchHandler
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal().Err(err).Msg("Database unreachable")
		}
		defer db.Close()

		log.Info().Msg("Running database migrations...")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}

		matchRepo := postgres.NewMatchRepo(db)
		matchHandler = transportHttp.NewMatchHandler(matchRepo)

		cleanupWorker := cleanup.NewWorker(matchRepo, cfg.MatchRetentionDays, cfg.CleanupInterval)
		go cleanupWorker.Start(ctx)
	} else {
		log.Warn().Msg("DATABASE_URL not set, match history is disabled")
	}

	// 4. Router
	wsHandler := websocket.NewHandler(predictService)
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
		Predict:        transportHttp.NewPredictHandler(predictService),
		Matches:        matchHandler,
		WebSocket:      wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}
