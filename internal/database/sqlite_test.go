package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/contesthub/backend/internal/solutions"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func memoryDSN(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("file:database_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
}

func TestOpenMigratesFreshDatabase(t *testing.T) {
	db, err := Open(memoryDSN(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	defer sqlDB.Close()

	for _, table := range []string{"contests", "bookmarks", "solutions", "db_migrations"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s after Open", table)
		}
	}

	var applied int64
	if err := db.Model(&migrationRecord{}).Count(&applied).Error; err != nil {
		t.Fatalf("failed to count migration records: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected the dedupe migration recorded, got %d records", applied)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("", nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDedupeMigrationKeepsOldestSolution(t *testing.T) {
	dsn := memoryDSN(t)

	// Simulate a database written before the uniqueness constraint: the
	// solutions table exists without its unique index and carries duplicates.
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open raw database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	if err := db.Exec(`CREATE TABLE solutions (
		solution_id TEXT PRIMARY KEY,
		contest_id TEXT NOT NULL,
		video_url TEXT NOT NULL,
		video_id TEXT NOT NULL DEFAULT '',
		added_by TEXT NOT NULL,
		added_manually NUMERIC NOT NULL DEFAULT true,
		created_at_s INTEGER NOT NULL
	);`).Error; err != nil {
		t.Fatalf("failed to create legacy table: %v", err)
	}

	rows := []solutions.Solution{
		{SolutionID: "s-1", ContestID: "contest-1", VideoURL: "https://youtu.be/first", AddedBy: "a", CreatedAtSeconds: 100},
		{SolutionID: "s-2", ContestID: "contest-1", VideoURL: "https://youtu.be/second", AddedBy: "b", CreatedAtSeconds: 200},
		{SolutionID: "s-3", ContestID: "contest-2", VideoURL: "https://youtu.be/third", AddedBy: "c", CreatedAtSeconds: 300},
	}
	for _, row := range rows {
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("failed to seed legacy row: %v", err)
		}
	}

	migrated, err := Open(dsn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var survivors []solutions.Solution
	if err := migrated.Order("solution_id").Find(&survivors).Error; err != nil {
		t.Fatalf("failed to load solutions: %v", err)
	}
	if len(survivors) != 2 {
		t.Fatalf("expected 2 surviving solutions, got %d", len(survivors))
	}
	if survivors[0].SolutionID != "s-1" || survivors[1].SolutionID != "s-3" {
		t.Fatalf("expected the oldest row per contest to survive, got %+v", survivors)
	}
}

func TestMigrationsRunOnce(t *testing.T) {
	dsn := memoryDSN(t)

	db, err := Open(dsn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := applyMigrations(db, nil); err != nil {
		t.Fatalf("re-applying migrations must be a no-op: %v", err)
	}

	var applied int64
	if err := db.Model(&migrationRecord{}).Count(&applied).Error; err != nil {
		t.Fatalf("failed to count migration records: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected a single migration record, got %d", applied)
	}
}
