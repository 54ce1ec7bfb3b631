// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"gradebook/backend/app/db"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated private sqlite database that lives until the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(db.Config{
		Driver:       db.DriverSQLite,
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1&_busy_timeout=5000",
		MaxOpenConns: 1,
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
