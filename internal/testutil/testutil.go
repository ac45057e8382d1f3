package testutil

import (
	"fmt"
	"os"
	"testing"

	"prep_admin_backend/pkg/database"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a private in-memory sqlite database with every table migrated.
// The pool is pinned to one connection so the shared-cache database lives as
// long as the test and writers serialise the way a row lock would.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(gormLogger.Silent))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// PostgresDB connects to TEST_POSTGRES_DSN and skips the test when it is unset.
// Each call truncates the service tables.
func PostgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run postgres integration tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), database.GormConfig(gormLogger.Silent))
	if err != nil {
		tb.Fatalf("open postgres: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	err = db.Exec(`TRUNCATE profiles, learning_paths, curriculum_items, lessons, test_sections,
		questions, exercises, exercise_questions, path_items RESTART IDENTITY`).Error
	if err != nil {
		tb.Fatalf("truncate: %v", err)
	}
	return db
}
