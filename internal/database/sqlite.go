package database

import (
	"fmt"

	"github.com/contesthub/backend/internal/bookmarks"
	"github.com/contesthub/backend/internal/contests"
	"github.com/contesthub/backend/internal/solutions"
	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Open establishes a SQLite connection and performs schema migrations.
func Open(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	// Recorded migrations run before AutoMigrate: the solution dedupe must
	// land before the unique index on solutions.contest_id is created.
	if err := applyMigrations(db, logger); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&contests.Contest{},
		&bookmarks.Bookmark{},
		&solutions.Solution{},
		&migrationRecord{},
	); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}
