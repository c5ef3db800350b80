// Package testutil provides shared helpers for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eChanneling-Revamp/payment-service/internal/infrastructure/database"
)

// NewTestDB opens an isolated in-memory sqlite database with all migrations applied.
// It is closed automatically when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(zap.NewNop()))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// NewTestRepositories wraps NewTestDB with the gorm repositories
func NewTestRepositories(t *testing.T) (*gorm.DB, *database.Repositories) {
	t.Helper()
	db := NewTestDB(t)
	return db, database.NewRepositories(db, zap.NewNop())
}
