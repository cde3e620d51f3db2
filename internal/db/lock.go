package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrDataDirLocked is returned when another process holds the data dir.
var ErrDataDirLocked = errors.New("data directory is in use by another process")

const lockFileName = "talentflow.lock"

// DataDirLock is an exclusive advisory lock on a storage directory so two
// servers never open the same SQLite or Badger files.
type DataDirLock struct {
	flock *flock.Flock
	path  string
}

// LockDataDir creates dir if needed and takes its lock without blocking.
func LockDataDir(dir string) (*DataDirLock, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, lockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDataDirLocked, dir)
	}
	return &DataDirLock{flock: fl, path: path}, nil
}

func (l *DataDirLock) Path() string { return l.path }

func (l *DataDirLock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock on %s: %w", l.path, err)
	}
	return nil
}
