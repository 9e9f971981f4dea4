// Package storage implements the partitioned observation log shared by the
// HDFS and local filesystem backends. Both write the same layout:
//
//	<root>/ingest/date=YYYY-MM-DD/<city>.jsonl
//
// with one compact JSON record per line, append-only. Partition files are
// never truncated, rotated, or compacted.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

const (
	// TypeHDFS and TypeLocal identify the backend in health responses.
	TypeHDFS  = "hdfs"
	TypeLocal = "local"

	ingestDir       = "ingest"
	partitionPrefix = "date="
	fileSuffix      = ".jsonl"
)

// WriteError wraps a backend I/O failure during WriteRecord.
type WriteError struct {
	Cause error
}

func (e *WriteError) Error() string {
	return "storage write failed: " + e.Cause.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// ReadError wraps a backend failure that makes the whole scan impossible.
// Per-line and per-partition failures are recovered locally and never
// surface as a ReadError.
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string {
	return "storage read failed: " + e.Cause.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// partitionFor derives the partition directory name from the record's own
// timestamp, so back-filled records land in the partition for their event
// date. Unparsable timestamps fall back to ingestion time.
func partitionFor(rec weather.Record, now time.Time) string {
	ts, err := weather.ParseTimestamp(rec.Timestamp)
	if err != nil {
		ts = now
	}
	return partitionPrefix + ts.Format("2006-01-02")
}

// fileNameFor returns the partition-local file name for a record's city.
func fileNameFor(rec weather.Record) string {
	city := weather.CanonicalCity(rec.City)
	if city == "" {
		city = "unknown"
	}
	return city + fileSuffix
}

// encodeLine serializes a record as one newline-terminated JSON line.
func encodeLine(rec weather.Record) ([]byte, error) {
	line, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}

// matchesSince applies the time filter. Records with unparsable timestamps
// are excluded whenever a filter is active; without a filter everything
// matches.
func matchesSince(rec weather.Record, since time.Time) bool {
	if since.IsZero() {
		return true
	}
	ts, err := weather.ParseTimestamp(rec.Timestamp)
	if err != nil {
		return false
	}
	return !ts.Before(since)
}

// cityFromFileName extracts the city key from a partition file name.
func cityFromFileName(name string) (string, bool) {
	if !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	return strings.TrimSuffix(name, fileSuffix), true
}

// scanLines decodes JSON lines from a partition file, appending records that
// pass the filter. Corrupt lines are skipped and scanning continues; a read
// error mid-file abandons the rest of that file only.
func scanLines(r io.Reader, filter weather.ReadFilter, out []weather.Record) []weather.Record {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec weather.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if !matchesSince(rec, filter.Since) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// sortedCities deduplicates and sorts a set of city keys.
func sortedCities(set map[string]struct{}) []string {
	cities := make([]string, 0, len(set))
	for city := range set {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}
