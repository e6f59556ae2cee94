// Package testdb opens migrated, seeded in-memory SQLite databases for tests.
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Eursukkul/restaurant-booking/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New returns a database private to t, migrated and seeded with the
// standard table layout.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(database.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db, database.SeedOptions{AdminPassword: "admin", KasirPassword: "kasir"}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
