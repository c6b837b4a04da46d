// Package logging builds the process-wide zap logger from configuration:
// a console core for interactive use, optionally teed with a JSON file core
// rotated by lumberjack.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lndroit/streamlens/internal/config"
)

// NewLogger constructs the logger described by cfg. An unknown level name is
// not fatal: it is reported on stderr and replaced with info, so a typo in
// the config never leaves the process without logging.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARN: unknown log level %q, using info\n", cfg.Level)
		level = zapcore.InfoLevel
	}

	var primary zapcore.Core
	if cfg.Format == "json" {
		primary = jsonCore(zapcore.Lock(os.Stdout), level)
	} else {
		primary = consoleCore(level)
	}

	cores := []zapcore.Core{primary}
	if cfg.FileLoggingEnabled {
		fc, err := fileCore(cfg, level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fc)
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if level == zapcore.DebugLevel {
		opts = append(opts, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

func consoleCore(level zapcore.Level) zapcore.Core {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
}

func jsonCore(sink zapcore.WriteSyncer, level zapcore.Level) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
}

// fileCore writes JSON lines to a size-rotated file under cfg.Directory.
func fileCore(cfg config.LogConfig, level zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", cfg.Directory, err)
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, cfg.Filename),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
	return jsonCore(sink, level), nil
}
