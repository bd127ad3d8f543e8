package results

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)
)

// RunRecord summarizes one benchmark run.
type RunRecord struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Detectors  []string  `json:"detectors"`
	Streams    int       `json:"streams"`
	Records    int       `json:"records"`
	Failures   int       `json:"failures"`
}

// StreamResult is the per-(detector, stream) summary of a run.
type StreamResult struct {
	RunID     string        `json:"run_id"`
	Detector  string        `json:"detector"`
	Stream    string        `json:"stream"`
	Records   int           `json:"records"`
	MaxScore  float64       `json:"max_score"`
	MeanScore float64       `json:"mean_score"`
	Duration  time.Duration `json:"duration"`
}

// Store keeps a history of benchmark runs.
type Store interface {
	// SaveRun persists a run summary together with its per-stream results.
	SaveRun(ctx context.Context, run *RunRecord, streams []StreamResult) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// StreamResults returns the per-stream results of one run, ordered by
	// detector then stream.
	StreamResults(ctx context.Context, runID string) ([]StreamResult, error)

	// Close releases database resources.
	Close() error
}

var migrations = []struct {
	version int
	sql     string
}{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_versions (
    version     INTEGER PRIMARY KEY,
    applied_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  DATETIME NOT NULL,
    finished_at DATETIME NOT NULL,
    detectors   TEXT NOT NULL DEFAULT '',
    streams     INTEGER NOT NULL DEFAULT 0,
    records     INTEGER NOT NULL DEFAULT 0,
    failures    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);

CREATE TABLE IF NOT EXISTS stream_results (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    detector    TEXT NOT NULL,
    stream      TEXT NOT NULL,
    records     INTEGER NOT NULL DEFAULT 0,
    max_score   REAL NOT NULL DEFAULT 0.0,
    mean_score  REAL NOT NULL DEFAULT 0.0,
    duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_stream_results_run ON stream_results(run_id, detector, stream);
`,
	},
}

// sqliteStore is the SQLite-backed implementation of Store.
type sqliteStore struct {
	db *sql.DB
}

// NewStore opens (or creates) a SQLite database at the given path and runs
// all pending schema migrations. Pass ":memory:" for an in-memory store.
func NewStore(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite allows one writer at a time, and an in-memory database exists
	// per connection, so the pool is pinned to a single connection.
	db.SetMaxOpenConns(1)

	// WAL for better concurrency, and enforce our FK cascade.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &sqliteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate applies any unapplied migrations in order.
func (s *sqliteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_versions (
        version    INTEGER PRIMARY KEY,
        applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_versions WHERE version = ?`, m.version).Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if count > 0 {
			continue // already applied
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_versions(version) VALUES(?)`, m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}

func (s *sqliteStore) SaveRun(ctx context.Context, run *RunRecord, streams []StreamResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO runs(id, started_at, finished_at, detectors, streams, records, failures)
        VALUES(?,?,?,?,?,?,?)
    `,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		strings.Join(run.Detectors, ","), run.Streams, run.Records, run.Failures,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, sr := range streams {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO stream_results(run_id, detector, stream, records, max_score, mean_score, duration_ms)
            VALUES(?,?,?,?,?,?,?)
        `,
			run.ID, sr.Detector, sr.Stream, sr.Records,
			sr.MaxScore, sr.MeanScore, sr.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert stream result %s/%s: %w", sr.Detector, sr.Stream, err)
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, started_at, finished_at, detectors, streams, records, failures
        FROM runs ORDER BY started_at DESC LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedAt, finishedAt, detectors string
		if err := rows.Scan(&rec.ID, &startedAt, &finishedAt, &detectors,
			&rec.Streams, &rec.Records, &rec.Failures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt, _ = parseTime(startedAt)
		rec.FinishedAt, _ = parseTime(finishedAt)
		if detectors != "" {
			rec.Detectors = strings.Split(detectors, ",")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) StreamResults(ctx context.Context, runID string) ([]StreamResult, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT run_id, detector, stream, records, max_score, mean_score, duration_ms
        FROM stream_results WHERE run_id = ? ORDER BY detector, stream
    `, runID)
	if err != nil {
		return nil, fmt.Errorf("query stream results: %w", err)
	}
	defer rows.Close()

	var out []StreamResult
	for rows.Next() {
		var sr StreamResult
		var durationMS int64
		if err := rows.Scan(&sr.RunID, &sr.Detector, &sr.Stream, &sr.Records,
			&sr.MaxScore, &sr.MeanScore, &durationMS); err != nil {
			return nil, fmt.Errorf("scan stream result: %w", err)
		}
		sr.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func parseTime(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}
