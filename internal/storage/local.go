package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

// LocalStore persists partitioned observation logs on the local filesystem.
type LocalStore struct {
	root string
}

// NewLocalStore creates a local backend rooted at dir, creating it if absent.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Type() string {
	return TypeLocal
}

// WriteRecord appends one JSON line to the record's partition file,
// creating the partition directory and file as needed.
func (s *LocalStore) WriteRecord(rec weather.Record) error {
	line, err := encodeLine(rec)
	if err != nil {
		return &WriteError{Cause: err}
	}

	partitionDir := filepath.Join(s.root, ingestDir, partitionFor(rec, time.Now()))
	if err := os.MkdirAll(partitionDir, 0o755); err != nil {
		return &WriteError{Cause: err}
	}

	path := filepath.Join(partitionDir, fileNameFor(rec))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return &WriteError{Cause: err}
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return &WriteError{Cause: err}
	}
	return nil
}

// ReadRecords scans every date partition under the ingest root. A partition
// or file that cannot be read is skipped; the scan continues.
func (s *LocalStore) ReadRecords(filter weather.ReadFilter) ([]weather.Record, error) {
	base := filepath.Join(s.root, ingestDir)
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ReadError{Cause: err}
	}

	var records []weather.Record
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), partitionPrefix) {
			continue
		}
		partition := filepath.Join(base, entry.Name())
		files, err := os.ReadDir(partition)
		if err != nil {
			continue
		}
		for _, file := range files {
			city, ok := cityFromFileName(file.Name())
			if !ok {
				continue
			}
			if filter.City != "" && city != weather.CanonicalCity(filter.City) {
				continue
			}
			f, err := os.Open(filepath.Join(partition, file.Name()))
			if err != nil {
				continue
			}
			records = scanLines(f, filter, records)
			f.Close()
		}
	}
	return records, nil
}

// ListCities derives the distinct city keys from partition file names.
func (s *LocalStore) ListCities() ([]string, error) {
	base := filepath.Join(s.root, ingestDir)
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ReadError{Cause: err}
	}

	set := make(map[string]struct{})
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), partitionPrefix) {
			continue
		}
		files, err := os.ReadDir(filepath.Join(base, entry.Name()))
		if err != nil {
			continue
		}
		for _, file := range files {
			if city, ok := cityFromFileName(file.Name()); ok {
				set[weather.CanonicalCity(city)] = struct{}{}
			}
		}
	}
	return sortedCities(set), nil
}
