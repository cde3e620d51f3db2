package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soaringjerry/TalentFlow/internal/services"
)

const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

const sqliteFileName = "talentflow.db"

// Handle is an opened store plus the data-dir lock guarding it.
type Handle struct {
	Store  services.AssessmentStore
	closer func() error
	lock   *DataDirLock
}

func (h *Handle) Close() error {
	var errs []error
	if h.closer != nil {
		errs = append(errs, h.closer())
	}
	if h.lock != nil {
		errs = append(errs, h.lock.Unlock())
	}
	return errors.Join(errs...)
}

// OpenSQLite opens (and migrates) the SQLite database at path.
func OpenSQLite(path, migrationsDir string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.ToSlash(path))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := RunMigrations(sqliteDB, migrationsDir); err != nil {
		logErr("close after failed migration", sqliteDB.Close())
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	store, err := NewSQLiteStore(sqliteDB)
	if err != nil {
		logErr("close after failed init", sqliteDB.Close())
		return nil, err
	}
	return store, nil
}

// Open locks dataDir and opens the store selected by driver inside it.
func Open(driver, dataDir, migrationsDir string, logger *slog.Logger) (*Handle, error) {
	lock, err := LockDataDir(dataDir)
	if err != nil {
		return nil, err
	}
	h := &Handle{lock: lock}
	switch driver {
	case DriverSQLite, "":
		s, err := OpenSQLite(filepath.Join(dataDir, sqliteFileName), migrationsDir)
		if err != nil {
			logErr("unlock data dir", lock.Unlock())
			return nil, err
		}
		h.Store, h.closer = s, s.Close
	case DriverBadger:
		s, err := OpenBadgerStore(BadgerConfig{Path: filepath.Join(dataDir, "badger"), SyncWrites: true, Logger: logger})
		if err != nil {
			logErr("unlock data dir", lock.Unlock())
			return nil, err
		}
		h.Store, h.closer = s, s.Close
	default:
		logErr("unlock data dir", lock.Unlock())
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
	return h, nil
}

// MigrateSQLite locks dataDir and applies pending migrations to its SQLite
// database, returning the names applied.
func MigrateSQLite(dataDir, migrationsDir string) ([]string, error) {
	lock, err := LockDataDir(dataDir)
	if err != nil {
		return nil, err
	}
	defer func() { logErr("unlock data dir", lock.Unlock()) }()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.ToSlash(filepath.Join(dataDir, sqliteFileName)))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { logErr("close sqlite", sqliteDB.Close()) }()
	return RunMigrations(sqliteDB, migrationsDir)
}
