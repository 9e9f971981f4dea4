package storage

import (
	"os"

	"github.com/colinmarc/hdfs/v2"
	"github.com/sirupsen/logrus"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

// Options configures backend selection.
type Options struct {
	// HDFS cluster settings.
	Namenode string // namenode address, host:port
	User     string // HDFS user identity
	BasePath string // root path for the partitioned layout

	// LocalDir is the fallback data directory when HDFS is unreachable.
	LocalDir string
}

// New selects the storage backend exactly once per process: it dials the
// namenode, probes the base path, and falls back to the local filesystem on
// any failure. There is no runtime re-probing; a mid-life HDFS outage
// surfaces as read/write errors, not a silent switch to local.
func New(opts Options, log *logrus.Logger) (weather.Store, error) {
	store, err := tryHDFS(opts)
	if err == nil {
		log.WithFields(logrus.Fields{
			"namenode": opts.Namenode,
			"path":     opts.BasePath,
		}).Info("using hdfs storage")
		return store, nil
	}
	log.WithError(err).Warn("hdfs unavailable, falling back to local storage")

	local, err := NewLocalStore(opts.LocalDir)
	if err != nil {
		return nil, err
	}
	log.WithField("dir", opts.LocalDir).Info("using local storage")
	return local, nil
}

// tryHDFS dials the namenode and runs one lightweight probe against the base
// path, creating it when missing.
func tryHDFS(opts Options) (*HDFSStore, error) {
	client, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses: []string{opts.Namenode},
		User:      opts.User,
	})
	if err != nil {
		return nil, err
	}

	if _, err := client.Stat(opts.BasePath); err != nil {
		if !os.IsNotExist(err) {
			client.Close()
			return nil, err
		}
		if err := client.MkdirAll(opts.BasePath, 0o755); err != nil {
			client.Close()
			return nil, err
		}
	}
	return NewHDFSStore(client, opts.BasePath), nil
}
