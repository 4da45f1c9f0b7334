package database

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

var DB *gorm.DB

// Initialize opens the database at dbPath, migrates it and stores the handle
// for GetDB.
func Initialize(dbPath, logLevel string) error {
	db, err := Open(dbPath, logLevel)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to the SQLite file at dbPath and brings the schema up to date.
func Open(dbPath, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(logLevel)),
		// Tradeable and want entries may reference cards that were never cached.
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Println("Database connected successfully")

	// Legacy duplicates must go before the unique indexes are created
	if err := cleanupDuplicateCatalogRows(db); err != nil {
		return nil, fmt.Errorf("cleanup duplicates: %w", err)
	}

	err = db.AutoMigrate(
		&models.Card{},
		&models.Set{},
		&models.Profile{},
		&models.TradeableEntry{},
		&models.WantEntry{},
		&models.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Println("Database migration completed")
	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}

func parseLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
