package pipeline

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lndroit/streamlens/internal/record"
	"github.com/lndroit/streamlens/internal/window"
)

// Exporter publishes window state as Prometheus metrics. It is event-driven:
// instead of polling the window, it subscribes to data/slide/empty events and
// refreshes the gauges inside the dispatch. Handlers run synchronously on the
// ingestor goroutine, so reading the window from them is safe.
type Exporter struct {
	fields []string
	logger *zap.Logger
}

// NewExporter creates an exporter for the given field names.
func NewExporter(fields []string, logger *zap.Logger) *Exporter {
	logger.Debug("Exporter initialized", zap.Strings("fields", fields))
	return &Exporter{
		fields: fields,
		logger: logger,
	}
}

// Attach subscribes the exporter to a window's events. It must be called
// before ingestion starts pushing records.
func (e *Exporter) Attach(w *window.Window[record.Dynamic]) {
	w.On(window.EventData, func(ev window.Event[record.Dynamic]) {
		pushesTotal.Inc()
		e.refresh(w, ev)
	})
	w.On(window.EventSlide, func(ev window.Event[record.Dynamic]) {
		slidesTotal.Inc()
		e.logger.Debug("Window slid", zap.Int("window_records", len(ev.Records)))
	})
	w.On(window.EventEmpty, func(window.Event[record.Dynamic]) {
		clearsTotal.Inc()
		e.reset()
	})
}

// refresh recomputes every exported gauge from the current window.
func (e *Exporter) refresh(w *window.Window[record.Dynamic], ev window.Event[record.Dynamic]) {
	windowRecords.Set(float64(len(ev.Records)))
	bufferRecords.Set(float64(w.BufferLen()))
	if w.IsFull() {
		windowFull.Set(1)
	} else {
		windowFull.Set(0)
	}

	for _, field := range e.fields {
		stats := w.FieldStats(field)
		if stats == nil {
			// Empty window: no numeric state worth exporting.
			fieldCount.WithLabelValues(field).Set(0)
			continue
		}
		fieldCount.WithLabelValues(field).Set(float64(stats.Count))
		setGauge(fieldMin, field, stats.Min)
		setGauge(fieldMax, field, stats.Max)
		setGauge(fieldSum, field, stats.Sum)
		setGauge(fieldMean, field, stats.Mean)
	}
}

// reset zeroes the occupancy gauges after a clear.
func (e *Exporter) reset() {
	windowRecords.Set(0)
	bufferRecords.Set(0)
	windowFull.Set(0)
	for _, field := range e.fields {
		fieldCount.WithLabelValues(field).Set(0)
	}
}

// setGauge guards against the window's NaN sentinel for fields with zero
// numeric contributions; Prometheus gauges keep their last sane value instead.
func setGauge(vec *prometheus.GaugeVec, field string, v float64) {
	if math.IsNaN(v) {
		return
	}
	vec.WithLabelValues(field).Set(v)
}
