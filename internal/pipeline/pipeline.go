package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lndroit/streamlens/internal/config"
	"github.com/lndroit/streamlens/internal/record"
)

// Pipeline orchestrates the stages: Kafka consumer, JSON parsing, window
// ingestion, and metric export.
type Pipeline struct {
	cfg      *config.Config
	consumer *Consumer
	ingestor *Ingestor
	exporter *Exporter
	logger   *zap.Logger

	rawMessages chan []byte
	records     chan record.Dynamic
}

// New creates and wires up a new streaming window pipeline.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	initLogger := logger.Named("pipeline.init")
	initLogger.Debug("Creating pipeline components...")

	// Create Channels
	const channelBufferSize = 100
	rawMessages := make(chan []byte, channelBufferSize)
	records := make(chan record.Dynamic, channelBufferSize)
	initLogger.Debug("Channels created", zap.Int("bufferSize", channelBufferSize))

	// Initialize Components
	consumerLogger := logger.Named("consumer")
	consumerInstance, err := NewConsumer(cfg.Kafka, rawMessages, consumerLogger)
	if err != nil {
		initLogger.Error("Failed to create consumer", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConsumerCreationFailed, err)
	}
	initLogger.Debug("Consumer created")

	ingestorLogger := logger.Named("ingestor")
	ingestorInstance, err := NewIngestor(cfg.Window, cfg.Fields, records, ingestorLogger)
	if err != nil {
		initLogger.Error("Failed to create ingestor", zap.Error(err))
		return nil, err
	}
	initLogger.Debug("Ingestor created")

	exporterLogger := logger.Named("exporter")
	exporterInstance := NewExporter(cfg.Fields, exporterLogger)
	// Subscriptions must be in place before the first push.
	exporterInstance.Attach(ingestorInstance.Window())
	initLogger.Debug("Exporter created and attached to window events")

	p := &Pipeline{
		cfg:         cfg,
		consumer:    consumerInstance,
		ingestor:    ingestorInstance,
		exporter:    exporterInstance,
		logger:      logger.Named("pipeline"),
		rawMessages: rawMessages,
		records:     records,
	}

	initLogger.Info("Pipeline instance created successfully")
	return p, nil
}

// Run starts all pipeline components and waits for them to complete or
// context cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	sugar := p.logger.Sugar()
	var wg sync.WaitGroup
	pipelineErr := make(chan error, 4) // consumer, parser, ingestor, metrics server

	sugar.Info("Pipeline Run: Starting components...")

	wg.Add(3)
	go p.runConsumer(ctx, &wg, pipelineErr)
	go p.runParser(ctx, &wg)
	go p.runIngestor(ctx, &wg, pipelineErr)

	if p.cfg.Metrics.Enabled {
		wg.Add(1)
		go p.runMetricsServer(ctx, &wg, pipelineErr)
	}

	// Wait for context cancellation or the first error from any component
	var firstErr error
	select {
	case <-ctx.Done():
		sugar.Info("Pipeline Run: Context cancelled. Waiting for components to finish...")
		firstErr = ctx.Err()
	case err := <-pipelineErr:
		sugar.Errorw("Pipeline Run: Received error from a component, initiating shutdown...", zap.Error(err))
		firstErr = err
	}

	sugar.Debug("Pipeline Run: Waiting on WaitGroup...")
	wg.Wait()
	sugar.Info("Pipeline Run: All components finished.")

	if firstErr != nil && !errors.Is(firstErr, context.Canceled) {
		return firstErr
	}
	return nil
}

// runConsumer executes the consumer component logic in a goroutine.
func (p *Pipeline) runConsumer(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()
	defer func() {
		close(p.rawMessages)
		p.logger.Debug("Raw messages channel closed")
	}()

	p.logger.Debug("Starting consumer goroutine...")
	if err := p.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Consumer component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrConsumerRunFailed, err)
	} else if err == nil {
		p.logger.Debug("Consumer goroutine finished normally")
	} else {
		p.logger.Debug("Consumer goroutine cancelled gracefully")
	}
}

// runParser turns raw Kafka payloads into dynamic records, skipping
// malformed JSON: one bad message must never stop the ingestion stream.
func (p *Pipeline) runParser(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer func() {
		close(p.records)
		p.logger.Debug("Records channel closed")
	}()

	parserLogger := p.logger.Named("parser").Sugar()
	parserLogger.Debug("Starting parser goroutine...")

	for {
		select {
		case rawMsg, ok := <-p.rawMessages:
			if !ok {
				parserLogger.Debug("Parser finished (raw message channel closed).")
				return
			}

			rec, err := record.ParseDynamicJSON(rawMsg)
			if err != nil {
				parserLogger.Warnw("Failed to parse record, skipping", zap.Error(err))
				continue
			}

			select {
			case p.records <- rec:

			case <-ctx.Done():
				parserLogger.Debug("Parser context cancelled during send.", zap.Error(ctx.Err()))
				return
			}

		case <-ctx.Done():
			parserLogger.Debug("Parser context cancelled while waiting for raw message.", zap.Error(ctx.Err()))
			return
		}
	}
}

// runIngestor executes the ingestor component logic in a goroutine.
func (p *Pipeline) runIngestor(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	p.logger.Debug("Starting ingestor goroutine...")
	if err := p.ingestor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Error("Ingestor component exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrIngestorRunFailed, err)
	} else if err == nil {
		p.logger.Debug("Ingestor goroutine finished normally")
	} else {
		p.logger.Debug("Ingestor goroutine cancelled gracefully")
	}
}

// runMetricsServer serves the Prometheus endpoint until the context ends.
func (p *Pipeline) runMetricsServer(ctx context.Context, wg *sync.WaitGroup, errCh chan<- error) {
	defer wg.Done()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: p.cfg.Metrics.Addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
	}()

	p.logger.Info("Metrics server listening", zap.String("addr", p.cfg.Metrics.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.logger.Error("Metrics server exited with error", zap.Error(err))
		errCh <- fmt.Errorf("%w: %w", ErrMetricsServerFailed, err)
		return
	}
	p.logger.Debug("Metrics server stopped")
}
