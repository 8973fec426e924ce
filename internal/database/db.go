package database

import (
	"fmt"
	"log"
	"time"

	"salon-pos/internal/config"
	"salon-pos/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const connectAttempts = 5

// Connect opens the configured database, retrying while it starts up, then migrates.
func Connect(cfg *config.Config) {
	// 1. Get credentials from config
	if cfg.DBDSN == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	// 2. Connect with GORM (wait for DB to be ready)
	var err error
	for i := 0; i < connectAttempts; i++ {
		DB, err = Open(cfg.DBDriver, cfg.DBDSN, gormLogLevel(cfg.LogLevel))
		if err == nil {
			break
		}
		config.LogError(config.GetLogger(), "database", "Connect", "open", map[string]any{"attempt": i + 1}, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database after %d attempts: %v", connectAttempts, err)
	}

	if sqlDB, derr := DB.DB(); derr == nil {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	config.LogInfo(config.GetLogger(), "database", "Connect", "✅ Successfully connected", map[string]any{"driver": cfg.DBDriver})

	// 3. Auto-Migrate
	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}
	config.LogInfo(config.GetLogger(), "database", "Connect", "✅ Database Schema Synced!", nil)
}

// Open returns a gorm handle for driver ("mysql" or "sqlite").
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Sale{},
		&models.SaleItem{},
	)
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug", "trace":
		return logger.Info
	case "warn", "warning":
		return logger.Warn
	case "error", "fatal", "panic":
		return logger.Error
	default:
		return logger.Warn
	}
}
