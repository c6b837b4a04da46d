package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lndroit/streamlens/internal/config"
	"github.com/lndroit/streamlens/internal/logging"
	"github.com/lndroit/streamlens/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "configs/config.dev.yaml", "Path to the configuration file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "streamlens: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration from %s: %w", configFile, err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting streamlens",
		zap.String("config", configFile),
		zap.String("retention", cfg.Window.Retention),
		zap.Int("window_size", cfg.Window.Size),
		zap.Duration("window_span", cfg.Window.Span),
		zap.Int("max_buffer", cfg.Window.MaxBuffer),
		zap.Bool("require_full", cfg.Window.RequireFull),
		zap.Strings("fields", cfg.Fields),
		zap.String("kafka_topic", cfg.Kafka.Topic),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.String("metrics_addr", cfg.Metrics.Addr),
	)

	pipe, err := pipeline.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to build pipeline", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = pipe.Run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logger.Info("Pipeline shut down cleanly")
		return nil
	default:
		logger.Error("Pipeline stopped unexpectedly", zap.Error(err))
		return err
	}
}
