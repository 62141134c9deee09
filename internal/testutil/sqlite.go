// Package testutil opens throwaway SQLite databases migrated with the
// application schema.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/farellandr/boxoffice/config"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "boxoffice.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := config.Migrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	if err := config.SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return db
}
