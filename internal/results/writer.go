// Package results persists detection output: per-stream score files in the
// benchmark result layout, and an optional SQLite history of run summaries.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anomstream/anomstream/internal/corpus"
)

// Row is one scored record of a stream.
type Row struct {
	Timestamp time.Time
	Value     float64
	Score     float64
}

// Writer writes score files under a results root. Layout, one file per
// (detector, stream):
//
//	<root>/<detector>/<stream dir>/<detector>_<stream base>.csv
//
// with header timestamp,value,anomaly_score and one row per record in
// arrival order.
type Writer struct {
	root string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Path returns the score file path for a detector and stream name.
func (w *Writer) Path(detector, stream string) string {
	rel := filepath.FromSlash(stream)
	base := filepath.Base(rel)
	return filepath.Join(w.root, detector, filepath.Dir(rel), detector+"_"+base)
}

// WriteStream writes (or overwrites) the score file for one stream.
func (w *Writer) WriteStream(detector, stream string, rows []Row) error {
	path := w.Path(detector, stream)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"timestamp", "value", "anomaly_score"}); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Timestamp.UTC().Format(corpus.TimestampLayout),
			strconv.FormatFloat(r.Value, 'f', -1, 64),
			strconv.FormatFloat(r.Score, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
