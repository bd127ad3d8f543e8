// Package corpus loads benchmark datasets: directory trees of CSV files,
// one scalar time series per file, rows ordered by timestamp.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is one observation of a stream.
type Record struct {
	Timestamp time.Time
	Value     float64
}

// Stream is one scalar time series. Name is the file's path relative to the
// data directory (e.g. "realAWSCloudwatch/ec2_cpu_utilization_5f5533.csv")
// and doubles as the stream identifier in results and logs.
type Stream struct {
	Name    string
	Records []Record
}

// ProbationLength returns the number of leading records of an n-record
// stream that fall inside the probationary period: the given fraction of the
// stream length, capped at the same fraction of 5000 records. Detectors are
// constructed with this value so early unreliable scores are suppressed.
func ProbationLength(percent float64, n int) int {
	if percent <= 0 || n <= 0 {
		return 0
	}
	return int(math.Min(math.Floor(percent*float64(n)), percent*5000))
}

// Load walks dir recursively and loads every .csv file as a stream. Streams
// are returned sorted by name. Files that are not CSVs and dotfiles are
// skipped; a malformed CSV fails the whole load.
func Load(dir string) ([]Stream, error) {
	var streams []Stream
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".csv") {
			return nil
		}
		name, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name = filepath.ToSlash(name)
		s, err := loadStream(path, name)
		if err != nil {
			return err
		}
		streams = append(streams, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load data dir %s: %w", dir, err)
	}

	sort.Slice(streams, func(i, j int) bool { return streams[i].Name < streams[j].Name })
	return streams, nil
}

func loadStream(path, name string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stream{}, fmt.Errorf("open stream: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return Stream{}, fmt.Errorf("%s: read header: %w", name, err)
	}
	if len(header) < 2 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "timestamp") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "value") {
		return Stream{}, fmt.Errorf("%s: unexpected header %v, want timestamp,value", name, header)
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Stream{}, fmt.Errorf("%s: line %d: %w", name, line, err)
		}

		ts, err := parseTimestamp(strings.TrimSpace(row[0]))
		if err != nil {
			return Stream{}, fmt.Errorf("%s: line %d: %w", name, line, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return Stream{}, fmt.Errorf("%s: line %d: parse value: %w", name, line, err)
		}
		records = append(records, Record{Timestamp: ts, Value: v})
	}

	if len(records) == 0 {
		return Stream{}, fmt.Errorf("%s: no data rows", name)
	}
	return Stream{Name: name, Records: records}, nil
}

// TimestampLayout is the canonical timestamp format of dataset and result
// files.
const TimestampLayout = "2006-01-02 15:04:05"

func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		TimestampLayout,
		"2006-01-02 15:04:05.999999999",
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}
