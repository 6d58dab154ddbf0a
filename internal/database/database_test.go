package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestConnectCreatesDirectoryAndEnablesForeignKeys(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "ledger.db")
	db, err := Connect(dsn)
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	require.NoError(t, db.Get(&enabled, `PRAGMA foreign_keys`))
	require.Equal(t, 1, enabled)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE things (name TEXT NOT NULL)`)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`INSERT INTO things (name) VALUES (?)`, "a"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM things`))
	require.Zero(t, count)

	err = WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO things (name) VALUES (?)`, "b")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM things`))
	require.Equal(t, 1, count)
}

func TestWithPragmas(t *testing.T) {
	require.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withPragmas("a.db"))
	require.Equal(t, "file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withPragmas("file:a.db?mode=rwc"))
	require.Equal(t, "", filePath(":memory:"))
	require.Equal(t, "a.db", filePath("file:a.db?mode=rwc"))
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "unique.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE things (name TEXT NOT NULL UNIQUE, qty INTEGER CHECK (qty > 0))`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO things (name, qty) VALUES ('a', 1)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO things (name, qty) VALUES ('a', 1)`)
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))

	_, err = db.Exec(`INSERT INTO things (name, qty) VALUES ('b', 0)`)
	require.Error(t, err)
	require.False(t, IsUniqueViolation(err))

	require.False(t, IsUniqueViolation(errors.New("UNIQUE constraint failed")))
	require.False(t, IsUniqueViolation(nil))
}
