package services

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/abstore/internal/config"
	"github.com/example/abstore/internal/database"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestDB opens a private in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(&config.Config{
		DBDriver:     "sqlite",
		DatabaseURL:  "file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	return db
}

// setupFileDB opens a file-backed SQLite database with a real pool, for
// tests that need statements to run on several connections at once.
func setupFileDB(t *testing.T, poolSize int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "abstore.db")
	db, err := database.Connect(&config.Config{
		DBDriver:     "sqlite",
		DatabaseURL:  "file:" + path + "?_busy_timeout=10000&_txlock=immediate",
		MaxOpenConns: poolSize,
		MaxIdleConns: poolSize,
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	return db
}

func strPtr(s string) *string {
	return &s
}
