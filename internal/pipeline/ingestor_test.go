package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lndroit/streamlens/internal/config"
	"github.com/lndroit/streamlens/internal/record"
	"github.com/lndroit/streamlens/internal/window"
)

func countWindowConfig(size int) config.WindowConfig {
	return config.WindowConfig{
		Retention:       "count",
		Size:            size,
		SummaryInterval: time.Minute,
	}
}

func TestNewIngestor_RejectsInvalidWindowConfig(t *testing.T) {
	input := make(chan record.Dynamic)
	cfg := config.WindowConfig{Retention: "sessions", SummaryInterval: time.Minute}

	ing, err := NewIngestor(cfg, nil, input, zap.NewNop())
	require.ErrorIs(t, err, ErrIngestorCreationFailed)
	require.ErrorIs(t, err, window.ErrInvalidRetention)
	assert.Nil(t, ing)
}

func TestIngestor_PushesUntilChannelCloses(t *testing.T) {
	input := make(chan record.Dynamic, 10)
	ing, err := NewIngestor(countWindowConfig(3), []string{"value"}, input, zap.NewNop())
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		input <- record.Dynamic{"value": float64(i)}
	}
	close(input)

	require.NoError(t, ing.Run(context.Background()))

	w := ing.Window()
	assert.Equal(t, 5, w.BufferLen())
	assert.Equal(t, 3, w.WindowLen())

	stats := w.FieldStats("value")
	require.NotNil(t, stats)
	assert.Equal(t, float64(3), stats.Min)
	assert.Equal(t, float64(5), stats.Max)
	assert.Equal(t, float64(4), stats.Mean)
}

func TestIngestor_StopsOnContextCancel(t *testing.T) {
	input := make(chan record.Dynamic)
	ing, err := NewIngestor(countWindowConfig(3), nil, input, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ing.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("ingestor did not stop after context cancellation")
	}
}

func TestToWindowConfig_MapsAllFields(t *testing.T) {
	cfg := config.WindowConfig{
		Retention:   "time",
		Size:        7,
		Span:        30 * time.Second,
		SlideEvery:  4,
		TimeField:   "ts",
		MaxBuffer:   123,
		RequireFull: true,
	}

	got := toWindowConfig(cfg)
	assert.Equal(t, window.RetentionTime, got.Retention)
	assert.Equal(t, 7, got.Size)
	assert.Equal(t, 30*time.Second, got.Span)
	assert.Equal(t, 4, got.SlideEvery)
	assert.Equal(t, "ts", got.TimeField)
	assert.Equal(t, 123, got.MaxBuffer)
	assert.True(t, got.RequireFull)
}
