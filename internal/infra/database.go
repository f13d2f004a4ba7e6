package infra

import (
	"fmt"

	"doutoragenda/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Patient{},
		&model.Doctor{},
		&model.DailyCash{},
		&model.CashOperation{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements beyond AutoMigrate's reach.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Backstop for the one-open-session-per-clinic/user/day rule: the
		// service checks before inserting, but concurrent opens must still be
		// rejected at the storage layer.
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_daily_cash_open_scope
		     ON daily_cash (clinic_id, user_id, date)
		     WHERE status = 'open'`,
		// The recomputation reads a session's full ledger on every mutation.
		`CREATE INDEX IF NOT EXISTS idx_cash_operations_session_created
		     ON cash_operations (daily_cash_id, created_at)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
