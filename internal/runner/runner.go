package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anomstream/anomstream/internal/corpus"
	"github.com/anomstream/anomstream/internal/detector"
	"github.com/anomstream/anomstream/internal/metrics"
	"github.com/anomstream/anomstream/internal/results"
)

// Package runner executes scoring runs.
//
// Responsibilities:
//   - Load every stream under the data directory
//   - Fan detector/stream pairs across a bounded worker pool
//   - Construct one fresh detector per pair so no state leaks between streams
//   - Write one result file per pair and aggregate per-stream statistics
//   - Persist a run summary when a store is configured

// Options configures a scoring run.
type Options struct {
	// DataDir is the root of the dataset tree.
	DataDir string

	// ResultsDir is the root for result files.
	ResultsDir string

	// Workers is the worker pool size. Zero or negative means one per CPU.
	Workers int

	// Detectors lists the detector kinds to run. Empty means all kinds.
	Detectors []string

	// ProbationPercent is the fraction of each stream treated as warm-up.
	// Scores inside the warm-up are forced to 0.0.
	ProbationPercent float64

	// Per-kind detector tuning. ProbationaryPeriod is overwritten per stream
	// from ProbationPercent and the stream length.
	ZScore   detector.ZScoreConfig
	Ewma     detector.EwmaConfig
	Adaptive detector.AdaptiveConfig

	// Store receives the run summary when non-nil.
	Store results.Store
}

// Runner scores a corpus with a set of detectors.
type Runner struct {
	opts   Options
	logger *zap.Logger
}

// New creates a runner. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{opts: opts, logger: logger}
}

// task pairs one detector kind with one stream.
type task struct {
	kind   string
	stream corpus.Stream
}

// Run loads the corpus, scores every detector/stream pair and returns the run
// summary. Failures on individual pairs are counted and logged, not fatal;
// the summary's Failures field reports them.
func (r *Runner) Run(ctx context.Context) (*results.RunRecord, error) {
	started := time.Now()

	streams, err := corpus.Load(r.opts.DataDir)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(streams) == 0 {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("no data streams under %s", r.opts.DataDir)
	}

	kinds := r.opts.Detectors
	if len(kinds) == 0 {
		kinds = detector.Kinds()
	}
	for _, kind := range kinds {
		if !detector.ValidKind(kind) {
			metrics.RunsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("unknown detector %q", kind)
		}
	}

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if total := len(kinds) * len(streams); workers > total {
		workers = total
	}

	runID := uuid.New().String()
	writer := results.NewWriter(r.opts.ResultsDir)

	r.logger.Info("run started",
		zap.String("run_id", runID),
		zap.Strings("detectors", kinds),
		zap.Int("streams", len(streams)),
		zap.Int("workers", workers),
	)

	var (
		mu          sync.Mutex
		streamStats []results.StreamResult
		records     int
		failures    int
	)

	tasks := make(chan task)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if ctx.Err() != nil {
					continue
				}
				metrics.WorkersActive.Inc()
				stat, err := r.scoreStream(runID, writer, t)
				metrics.WorkersActive.Dec()

				mu.Lock()
				if err != nil {
					failures++
				} else {
					streamStats = append(streamStats, stat)
					records += stat.Records
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, kind := range kinds {
		for _, stream := range streams {
			select {
			case tasks <- task{kind: kind, stream: stream}:
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		metrics.RunsTotal.WithLabelValues("canceled").Inc()
		r.logger.Warn("run canceled",
			zap.String("run_id", runID),
			zap.Duration("elapsed", time.Since(started)),
		)
		return nil, err
	}

	run := &results.RunRecord{
		ID:         runID,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
		Detectors:  kinds,
		Streams:    len(streams),
		Records:    records,
		Failures:   failures,
	}

	if r.opts.Store != nil {
		if err := r.opts.Store.SaveRun(ctx, run, streamStats); err != nil {
			metrics.RunsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("save run %s: %w", runID, err)
		}
	}

	status := "success"
	if failures > 0 {
		status = "error"
	}
	metrics.RunsTotal.WithLabelValues(status).Inc()
	metrics.RunDuration.Observe(time.Since(started).Seconds())

	r.logger.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("records", records),
		zap.Int("failures", failures),
		zap.Duration("duration", time.Since(started)),
	)

	return run, nil
}

// scoreStream scores one detector/stream pair and writes its result file.
func (r *Runner) scoreStream(runID string, writer *results.Writer, t task) (results.StreamResult, error) {
	start := time.Now()

	det, err := r.newDetector(t.kind, len(t.stream.Records))
	if err != nil {
		metrics.StreamsProcessedTotal.WithLabelValues(t.kind, "error").Inc()
		r.logger.Error("detector construction failed",
			zap.String("detector", t.kind),
			zap.String("stream", t.stream.Name),
			zap.Error(err),
		)
		return results.StreamResult{}, err
	}

	rows := make([]results.Row, len(t.stream.Records))
	var maxScore, sum float64
	for i, rec := range t.stream.Records {
		score := det.HandleRecord(rec.Value)
		rows[i] = results.Row{Timestamp: rec.Timestamp, Value: rec.Value, Score: score}
		if score > maxScore {
			maxScore = score
		}
		sum += score
	}

	if err := writer.WriteStream(t.kind, t.stream.Name, rows); err != nil {
		metrics.StreamsProcessedTotal.WithLabelValues(t.kind, "error").Inc()
		r.logger.Error("result write failed",
			zap.String("detector", t.kind),
			zap.String("stream", t.stream.Name),
			zap.Error(err),
		)
		return results.StreamResult{}, err
	}

	duration := time.Since(start)
	metrics.RecordsScoredTotal.WithLabelValues(t.kind).Add(float64(len(rows)))
	metrics.StreamScoringDuration.WithLabelValues(t.kind).Observe(duration.Seconds())
	metrics.StreamsProcessedTotal.WithLabelValues(t.kind, "success").Inc()

	var mean float64
	if len(rows) > 0 {
		mean = sum / float64(len(rows))
	}

	r.logger.Debug("stream scored",
		zap.String("detector", t.kind),
		zap.String("stream", t.stream.Name),
		zap.Int("records", len(rows)),
		zap.Float64("max_score", maxScore),
		zap.Duration("duration", duration),
	)

	return results.StreamResult{
		RunID:     runID,
		Detector:  t.kind,
		Stream:    t.stream.Name,
		Records:   len(rows),
		MaxScore:  maxScore,
		MeanScore: mean,
		Duration:  duration,
	}, nil
}

// newDetector builds a fresh detector for one stream. The probationary period
// is derived from the stream length so short streams warm up proportionally
// and long streams cap out.
func (r *Runner) newDetector(kind string, streamLen int) (detector.Detector, error) {
	probation := corpus.ProbationLength(r.opts.ProbationPercent, streamLen)

	switch kind {
	case detector.KindZScore:
		cfg := r.opts.ZScore
		cfg.ProbationaryPeriod = probation
		return detector.NewZScore(cfg)
	case detector.KindEwma:
		cfg := r.opts.Ewma
		cfg.ProbationaryPeriod = probation
		return detector.NewEwma(cfg)
	case detector.KindAdaptive:
		cfg := r.opts.Adaptive
		cfg.ProbationaryPeriod = probation
		return detector.NewAdaptive(cfg)
	default:
		return nil, fmt.Errorf("unknown detector %q", kind)
	}
}
