package database

import (
	"fmt"

	"crypto-tracker-go/internal/config"
	"crypto-tracker-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the configured database and migrates the schema.
func NewDatabase(cfg *config.Database, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db, cfg.Reset); err != nil {
		return nil, err
	}
	log.Info("Database ready",
		zap.String("driver", cfg.Driver),
		zap.Bool("reset", cfg.Reset),
	)

	return db, nil
}

func dialectorFor(cfg *config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrate creates the trades table. With reset set, the existing table is
// dropped first so the process starts from an empty store.
func AutoMigrate(db *gorm.DB, reset bool) error {
	if reset {
		if err := db.Migrator().DropTable(&models.Trade{}); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}

	if err := db.AutoMigrate(&models.Trade{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
