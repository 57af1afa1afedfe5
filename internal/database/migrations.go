package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationDedupeContestSolutions = "2026-07-14_dedupe_contest_solutions"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	if !db.Migrator().HasTable(&migrationRecord{}) {
		if err := db.AutoMigrate(&migrationRecord{}); err != nil {
			return err
		}
	}

	migrations := []migrationDefinition{
		{name: migrationDedupeContestSolutions, apply: dedupeContestSolutions},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// dedupeContestSolutions keeps the oldest solution per contest. Databases
// written before the one-solution-per-contest constraint may carry several.
func dedupeContestSolutions(db *gorm.DB) error {
	if !db.Migrator().HasTable("solutions") {
		return nil
	}
	return db.Exec(`DELETE FROM solutions WHERE rowid NOT IN (
		SELECT MIN(rowid) FROM solutions GROUP BY contest_id
	);`).Error
}
