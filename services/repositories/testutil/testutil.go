package testutil

import (
	"path/filepath"
	"testing"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a migrated sqlite database in a per-test temp directory.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db := open(tb, filepath.Join(tb.TempDir(), "test.db"))
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// Reopen opens a second, independent connection pool on the file behind db.
func Reopen(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()

	var files []struct {
		Seq  int
		Name string
		File string
	}
	if err := db.Raw("PRAGMA database_list").Scan(&files).Error; err != nil {
		tb.Fatalf("failed to list databases: %v", err)
	}
	for _, f := range files {
		if f.Name == "main" && f.File != "" {
			return open(tb, f.File)
		}
	}
	tb.Fatalf("database is not file backed")
	return nil
}

func open(tb testing.TB, path string) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Tx starts a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("failed to begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { _ = tx.Rollback().Error })
	return tx
}
