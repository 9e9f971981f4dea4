package storage

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/colinmarc/hdfs/v2"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

// HDFSStore persists partitioned observation logs on an HDFS cluster,
// rooted at a configured base path. The on-filesystem layout is identical
// to LocalStore's.
//
// Writes rely on HDFS append semantics; the store itself never serializes
// concurrent writers.
type HDFSStore struct {
	client   *hdfs.Client
	basePath string
}

// NewHDFSStore wraps an already-dialed HDFS client. Reachability probing
// happens once in the factory, not here.
func NewHDFSStore(client *hdfs.Client, basePath string) *HDFSStore {
	return &HDFSStore{
		client:   client,
		basePath: strings.TrimRight(basePath, "/"),
	}
}

func (s *HDFSStore) Type() string {
	return TypeHDFS
}

// WriteRecord appends one JSON line to the record's partition file,
// creating the partition directory and file as needed.
func (s *HDFSStore) WriteRecord(rec weather.Record) error {
	line, err := encodeLine(rec)
	if err != nil {
		return &WriteError{Cause: err}
	}

	partitionDir := path.Join(s.basePath, ingestDir, partitionFor(rec, time.Now()))
	if err := s.client.MkdirAll(partitionDir, 0o755); err != nil {
		return &WriteError{Cause: err}
	}

	filePath := path.Join(partitionDir, fileNameFor(rec))
	w, err := s.client.Append(filePath)
	if err != nil && os.IsNotExist(err) {
		w, err = s.client.Create(filePath)
	}
	if err != nil {
		return &WriteError{Cause: err}
	}
	defer w.Close()

	if _, err := w.Write(line); err != nil {
		return &WriteError{Cause: err}
	}
	return nil
}

// ReadRecords scans every date partition under the ingest root. A partition
// or file that cannot be read is skipped; the scan continues. An unreachable
// namenode surfaces as a ReadError.
func (s *HDFSStore) ReadRecords(filter weather.ReadFilter) ([]weather.Record, error) {
	base := path.Join(s.basePath, ingestDir)
	entries, err := s.client.ReadDir(base)
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
		partition := path.Join(base, entry.Name())
		files, err := s.client.ReadDir(partition)
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
			f, err := s.client.Open(path.Join(partition, file.Name()))
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
func (s *HDFSStore) ListCities() ([]string, error) {
	base := path.Join(s.basePath, ingestDir)
	entries, err := s.client.ReadDir(base)
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
		files, err := s.client.ReadDir(path.Join(base, entry.Name()))
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
