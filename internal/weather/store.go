package weather

import (
	"context"
	"time"
)

// ReadFilter narrows a storage scan. The zero value matches everything.
type ReadFilter struct {
	// City restricts the scan to one partition file per date when set.
	// Expected to be a canonical (lowercased) city key.
	City string

	// Since drops records whose parsed timestamp is earlier. A zero value
	// disables the filter. Records with unparsable timestamps are excluded
	// whenever Since is set.
	Since time.Time
}

// Store is the contract the partitioned storage backends must satisfy.
// Implementations append one JSON line per record into
// ingest/date=YYYY-MM-DD/<city>.jsonl and scan those partitions back on read.
type Store interface {
	// WriteRecord appends one record to the partition derived from the
	// record's own timestamp. It never overwrites existing lines.
	WriteRecord(rec Record) error

	// ReadRecords returns all records matching the filter, unordered across
	// partitions. Corrupt lines and unreadable partitions are skipped.
	ReadRecords(filter ReadFilter) ([]Record, error)

	// ListCities returns the distinct city keys across all date partitions,
	// derived from file names, sorted ascending.
	ListCities() ([]string, error)

	// Type identifies the active backend ("hdfs" or "local"), for health
	// reporting only.
	Type() string
}

// Source abstracts the upstream weather data service (geocoding plus
// current/past/historical observations).
type Source interface {
	Current(ctx context.Context, city string) (Record, error)
	Past(ctx context.Context, city string, days int) ([]Record, error)
	Historical(ctx context.Context, city, start, end string) ([]Record, error)
}
