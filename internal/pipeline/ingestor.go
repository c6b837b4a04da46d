package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lndroit/streamlens/internal/config"
	"github.com/lndroit/streamlens/internal/record"
	"github.com/lndroit/streamlens/internal/window"
)

// Ingestor owns the sliding window and is its single writer: every record
// flowing off the input channel is pushed on the ingestor's goroutine, which
// satisfies the window's external-synchronization contract. Event handlers
// attached to the window (the exporter's, for instance) therefore also run
// on this goroutine.
type Ingestor struct {
	win             *window.Window[record.Dynamic]
	input           <-chan record.Dynamic
	fields          []string
	summaryInterval time.Duration
	logger          *zap.Logger
}

// NewIngestor builds the sliding window from configuration and wraps it in
// an ingestor reading from input.
func NewIngestor(cfg config.WindowConfig, fields []string, input <-chan record.Dynamic, logger *zap.Logger) (*Ingestor, error) {
	win, err := window.New[record.Dynamic](toWindowConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIngestorCreationFailed, err)
	}

	logger.Info("Ingestor initialized",
		zap.String("retention", cfg.Retention),
		zap.Int("size", cfg.Size),
		zap.Duration("span", cfg.Span),
		zap.Int("max_buffer", cfg.MaxBuffer),
		zap.Strings("fields", fields),
	)

	return &Ingestor{
		win:             win,
		input:           input,
		fields:          fields,
		summaryInterval: cfg.SummaryInterval,
		logger:          logger,
	}, nil
}

func toWindowConfig(cfg config.WindowConfig) window.Config {
	return window.Config{
		Retention:   window.Retention(cfg.Retention),
		Size:        cfg.Size,
		Span:        cfg.Span,
		SlideEvery:  cfg.SlideEvery,
		TimeField:   cfg.TimeField,
		MaxBuffer:   cfg.MaxBuffer,
		RequireFull: cfg.RequireFull,
	}
}

// Window exposes the underlying sliding window so observers can subscribe to
// its events before Run starts. Mutating the window from another goroutine
// once ingestion has started is not safe.
func (i *Ingestor) Window() *window.Window[record.Dynamic] {
	return i.win
}

// Run starts the ingestion loop. It blocks until the input channel closes or
// the context is cancelled, logging a window summary every summary interval.
func (i *Ingestor) Run(ctx context.Context) error {
	sugar := i.logger.Sugar()
	sugar.Info("Starting ingestor loop...")
	defer sugar.Info("Ingestor loop stopped.")

	ticker := time.NewTicker(i.summaryInterval)
	defer ticker.Stop()

	for {
		select {
		case rec, ok := <-i.input:
			if !ok {
				sugar.Info("Ingestor input channel closed.")
				i.logSummary()
				return nil
			}
			i.win.Push(rec)

		case <-ticker.C:
			i.logSummary()

		case <-ctx.Done():
			sugar.Info("Context cancelled, stopping ingestor.")
			return ctx.Err()
		}
	}
}

// logSummary logs the window occupancy and per-field statistics.
func (i *Ingestor) logSummary() {
	sugar := i.logger.Sugar()
	stats := i.win.Stats()

	sugar.Infow("Window summary",
		zap.Int("window_records", stats.Count),
		zap.Int("window_start", stats.Start),
		zap.Int("window_end", stats.End),
		zap.Int("buffer_records", i.win.BufferLen()),
		zap.Bool("full", i.win.IsFull()),
	)

	for _, field := range i.fields {
		fs := i.win.FieldStats(field)
		if fs == nil {
			continue
		}
		sugar.Debugw("Field summary",
			zap.String("field", field),
			zap.Float64("min", fs.Min),
			zap.Float64("max", fs.Max),
			zap.Float64("sum", fs.Sum),
			zap.Float64("mean", fs.Mean),
			zap.Int("count", fs.Count),
		)
	}
}
