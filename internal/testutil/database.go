package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/quizbank/config"
	"github.com/lshigami/quizbank/database"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated SQLite database in a temp dir with foreign keys on.
// A single connection keeps every statement inside the caller's transaction.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.db")
	db, err := database.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), config.Database{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
