package database

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nithinv16/DukaaOnWebsite/internal/config"
	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

type DB struct {
	*gorm.DB
}

func Connect(cfg *config.Config) (*DB, error) {
	log := logger.GetLogger("database")

	logLevel := gormlogger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Warnf("Failed to register metrics plugin: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	log.Info("Database connected")
	return &DB{db}, nil
}

// Migrate runs AutoMigrate for all models.
// Errors are logged but not fatal: the hosted schema predates this service.
func Migrate(db *DB) error {
	err := db.AutoMigrate(
		&models.SellerDetail{},
		&models.Product{},
		&models.EnquiryMessage{},
		&models.RateLimitConfig{},
		&models.IPGeolocationCache{},
	)
	if err != nil {
		logger.GetLogger("database").Warnf("AutoMigrate warning (non-fatal): %v", err)
	}
	return nil
}

// Ping checks the connection, used by the readiness probe
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
