package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Definition
var (
	windowRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamlens_window_records",
			Help: "Number of records in the current window.",
		},
	)
	bufferRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamlens_buffer_records",
			Help: "Number of records retained in the buffer, including records outside the window.",
		},
	)
	windowFull = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamlens_window_full",
			Help: "Whether the window has stopped growing from buffer start (1) or is still filling (0).",
		},
	)
	pushesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamlens_pushes_total",
			Help: "Total number of records pushed into the window.",
		},
	)
	slidesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamlens_slides_total",
			Help: "Total number of slide events emitted by the window.",
		},
	)
	clearsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamlens_clears_total",
			Help: "Total number of times the window buffer was cleared.",
		},
	)
	fieldMin = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamlens_field_window_min",
			Help: "Minimum numeric value of a field within the current window.",
		},
		[]string{"field"},
	)
	fieldMax = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamlens_field_window_max",
			Help: "Maximum numeric value of a field within the current window.",
		},
		[]string{"field"},
	)
	fieldSum = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamlens_field_window_sum",
			Help: "Sum of numeric values of a field within the current window.",
		},
		[]string{"field"},
	)
	fieldMean = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamlens_field_window_mean",
			Help: "Mean numeric value of a field within the current window.",
		},
		[]string{"field"},
	)
	fieldCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamlens_field_window_count",
			Help: "Number of window records contributing a numeric value for a field.",
		},
		[]string{"field"},
	)
)
