package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/arul-selvam/steel-quotes/internal/common"
	"github.com/arul-selvam/steel-quotes/internal/entity"
)

// Open connects to the configured database and migrates the quotation
// tables. SQLite is the default so the assistant runs with zero setup;
// postgres is for shared deployments.
func Open(cfg common.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "driver", cfg.Driver)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, common.WrapError(err, "open database")
	}

	if err := db.AutoMigrate(
		&entity.Customer{},
		&entity.Quotation{},
		&entity.QuotationItem{},
	); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		return nil, common.WrapError(err, "migrate schema")
	}

	logger.Info("successfully connected to database")
	return db, nil
}

// HealthCheck pings the underlying connection to catch DSN issues early.
func HealthCheck(ctx context.Context, db *gorm.DB, timeout time.Duration, logger *slog.Logger) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	sqlDB, err := db.DB()
	if err != nil {
		return common.WrapError(err, "unwrap sql db")
	}
	logger.Debug("pinging database")
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection gracefully.
func Close(db *gorm.DB, logger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to unwrap sql db for close", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database connection closed")
}
