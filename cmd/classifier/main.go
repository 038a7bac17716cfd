// Package main replays a recorded classifier session onto the slot board.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/vector-classifier/internal/config"
	"github.com/Faultbox/vector-classifier/internal/display"
	"github.com/Faultbox/vector-classifier/internal/frame"
	"github.com/Faultbox/vector-classifier/internal/logger"
	"github.com/Faultbox/vector-classifier/internal/recording"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Vector Classifier Replay ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.SaveConfigPath(); path != "" {
		if err := saveConfig(cfg, path); err != nil {
			logger.Error("saving config failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
	}

	if err := run(cfg); err != nil {
		logger.Error("replay failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	session, err := recording.Load(cfg.Replay.Session)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	logger.Info("session loaded",
		zap.String("path", cfg.Replay.Session),
		zap.Int("frames", len(session.Frames)),
		zap.Strings("stages", session.StageNames()))

	if len(session.Frames) == 0 {
		logger.Warn("session has no frames", zap.String("path", cfg.Replay.Session))
	}
	if unknown := session.UnknownStages(cfg.Classifier.Stages); len(unknown) > 0 {
		logger.Warn("stages not in session",
			zap.Strings("unknown", unknown),
			zap.Strings("available", session.StageNames()))
		return fmt.Errorf("unknown stages %v", unknown)
	}
	logger.Debug("replaying stages", zap.Strings("stages", cfg.Classifier.Stages))

	board := display.NewBoard(cfg.Classifier.SlotCount)
	board.SetColor(cfg.Display.Color)

	proc := frame.NewProcessor(board, cfg.Thresholds(), logger.Named("frame"))
	runner := frame.NewRunner(session.Replay(cfg.Classifier.Stages...), proc, frame.RunnerConfig{
		Interval: cfg.Replay.Interval,
		Loop:     cfg.Replay.Loop,
		OnUpdate: func(u frame.Update) error {
			if len(u.Changes) == 0 {
				return nil
			}
			if cfg.Display.ShowFrame {
				fmt.Fprintf(os.Stdout, "-- frame %d (%d overlay cells)\n", u.Seq, len(u.Overlay))
			}
			return board.Render(os.Stdout)
		},
	}, logger.Named("runner"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted", zap.Int("frames", runner.Frames()))
		return nil
	}
	return err
}

// saveConfig writes the effective config so a later run can reuse it.
func saveConfig(cfg *config.Config, path string) error {
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config to %s: %w", path, err)
	}
	logger.Info("config saved", zap.String("path", path))
	return nil
}
