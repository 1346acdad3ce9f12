package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/infrastructure/logging"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.Driver
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logging.NewGormLogger(logLevel)}

	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteDB(cfg.SQLitePath, gormCfg)
	case "postgres", "":
		return NewPostgresDB(cfg, gormCfg)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// NewSQLiteDB opens (and creates) a single file database for one-machine installs
func NewSQLiteDB(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	dsn := path
	if strings.Contains(path, "?") {
		dsn += "&_foreign_keys=on&_busy_timeout=5000"
	} else {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// sqlite allows one writer at a time
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("path", path).Msg("opened SQLite database")
	return db, nil
}

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		// User-related entities
		&entity.Staff{},
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Master data
		&entity.TreatmentMenu{},
		&entity.RetailProduct{},
		&entity.ReferralSource{},
		&entity.PaymentMethod{},
		&entity.DiscountType{},

		// Salon records
		&entity.Customer{},
		&entity.Treatment{},
		&entity.TreatmentMenuLine{},
		&entity.TreatmentProductLine{},
		&entity.TreatmentImage{},

		// System entities
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}
