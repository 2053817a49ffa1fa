// Package migration runs versioned SQL migrations against the database.
package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"tutorbill/internal/shared/logger"
)

// Migrator wraps golang-migrate over the shared gorm connection.
type Migrator struct {
	scriptsPath string
	logger      logger.Interface
}

func NewMigrator(scriptsPath string, logger logger.Interface) *Migrator {
	return &Migrator{
		scriptsPath: scriptsPath,
		logger:      logger,
	}
}

func (m *Migrator) instance(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}

	driver, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	inst, err := migrate.NewWithDatabaseInstance(
		"file://"+m.scriptsPath,
		"mysql",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return inst, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(db *gorm.DB) error {
	inst, err := m.instance(db)
	if err != nil {
		return err
	}

	if err := inst.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Infow("no pending migrations")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	m.logger.Infow("migrations applied")
	return nil
}

// Down rolls back the given number of migrations.
func (m *Migrator) Down(db *gorm.DB, steps int) error {
	if steps <= 0 {
		steps = 1
	}

	inst, err := m.instance(db)
	if err != nil {
		return err
	}

	if err := inst.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Infow("nothing to roll back")
			return nil
		}
		return fmt.Errorf("rollback migrations: %w", err)
	}

	m.logger.Infow("migrations rolled back", "steps", steps)
	return nil
}

// Version reports the current schema version and whether it is dirty.
func (m *Migrator) Version(db *gorm.DB) (uint, bool, error) {
	inst, err := m.instance(db)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := inst.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Create writes a timestamped pair of empty up/down migration files.
func (m *Migrator) Create(name string) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}

	if err := os.MkdirAll(m.scriptsPath, 0o755); err != nil {
		return fmt.Errorf("create scripts directory: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102150405")
	for _, direction := range []string{"up", "down"} {
		path := filepath.Join(m.scriptsPath, fmt.Sprintf("%s_%s.%s.sql", timestamp, name, direction))
		content := fmt.Sprintf("-- %s %s migration\n", name, direction)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s migration file: %w", direction, err)
		}
		m.logger.Infow("migration file created", "path", path)
	}
	return nil
}
