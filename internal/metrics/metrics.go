package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scoring pipeline metrics for production monitoring
var (
	// Record metrics
	RecordsScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomstream_records_scored_total",
			Help: "Total number of records scored",
		},
		[]string{"detector"},
	)

	// Stream metrics
	StreamsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomstream_streams_processed_total",
			Help: "Total number of streams processed",
		},
		[]string{"detector", "status"}, // status: success/error
	)

	StreamScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anomstream_stream_scoring_duration_seconds",
			Help:    "Per-stream scoring duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"detector"},
	)

	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomstream_runs_total",
			Help: "Total number of scoring runs",
		},
		[]string{"status"}, // status: success/error/canceled
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "anomstream_run_duration_seconds",
			Help:    "Full run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~2.5min
		},
	)

	// Worker metrics
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "anomstream_workers_active",
			Help: "Current number of busy scoring workers",
		},
	)
)
