package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/LoSiuVincent/connect-four-mcts/internal/client"
	"github.com/LoSiuVincent/connect-four-mcts/internal/config"
	"github.com/LoSiuVincent/connect-four-mcts/internal/controller"
	"github.com/LoSiuVincent/connect-four-mcts/internal/service/bot"
	"github.com/LoSiuVincent/connect-four-mcts/internal/service/game"
	"github.com/LoSiuVincent/connect-four-mcts/internal/service/recorder"
	"github.com/LoSiuVincent/connect-four-mcts/internal/ui"
	"github.com/LoSiuVincent/connect-four-mcts/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClientConfig(bot.IsValidDifficulty)
	if err != nil {
		return err
	}

	// the terminal belongs to the board, so logs go to a file
	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.Init(cfg.LogLevel, logFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, closer, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	g := game.NewGame(provider, cfg.MoveDelay())

	app := tview.NewApplication()
	status := tview.NewTextView().SetTextAlign(tview.AlignCenter)
	view := ui.NewBoardView(ctx, app, g, status)
	view.Attach(g)
	controller.New(g, view)

	var rec *recorder.Recorder
	if cfg.Record {
		store := client.NewHTTPClient(cfg.ServerURL, cfg.Difficulty, client.WithServiceSecret(cfg.ServiceSecret))
		rec = recorder.New(store, cfg.Difficulty)
		rec.Attach(g)
	}

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(view.Box, 0, 1, true).
		AddItem(status, 1, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	log.Info().Str("transport", cfg.Transport).Str("difficulty", cfg.Difficulty).Msg("Starting game")
	if err := app.SetRoot(layout, true).EnableMouse(true).Run(); err != nil {
		return err
	}
	cancel()

	if rec != nil {
		if err := rec.Wait(); err != nil {
			log.Error().Err(err).Msg("Match was not recorded")
		}
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newProvider(cfg *config.ClientConfig) (game.MoveProvider, io.Closer, error) {
	switch cfg.Transport {
	case config.TransportHTTP:
		return client.NewHTTPClient(cfg.ServerURL, cfg.Difficulty, client.WithTestMode(cfg.Test)), nopCloser{}, nil
	case config.TransportWS:
		p, err := client.NewWSProvider(cfg.ServerURL, cfg.Difficulty, client.WithWSTestMode(cfg.Test))
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		difficulty := cfg.Difficulty
		if cfg.Test {
			difficulty = bot.DifficultyFixed
		}
		return bot.NewProvider(bot.NewEngine(bot.DefaultMCTSIterations), difficulty), nopCloser{}, nil
	}
}
