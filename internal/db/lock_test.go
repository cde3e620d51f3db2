package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockDataDirExclusive(t *testing.T) {
	dir := t.TempDir()
	first, err := LockDataDir(dir)
	require.NoError(t, err)

	_, err = LockDataDir(dir)
	assert.True(t, errors.Is(err, ErrDataDirLocked), "got %v", err)

	require.NoError(t, first.Unlock())
	again, err := LockDataDir(dir)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}

func TestOpenSQLiteHandle(t *testing.T) {
	dir := t.TempDir()
	h, err := Open(DriverSQLite, dir, "", nil)
	require.NoError(t, err)

	_, err = Open(DriverBadger, dir, "", nil)
	assert.ErrorIs(t, err, ErrDataDirLocked)

	got, err := h.Store.GetSchema(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, h.Close())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", t.TempDir(), "", nil)
	assert.Error(t, err)
}

func TestMigrateSQLite(t *testing.T) {
	dir := t.TempDir()
	applied, err := MigrateSQLite(dir, "")
	require.NoError(t, err)
	assert.Len(t, applied, 1)

	applied, err = MigrateSQLite(dir, "")
	require.NoError(t, err)
	assert.Empty(t, applied)
}
