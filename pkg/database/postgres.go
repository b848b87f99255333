package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultTimeZone = "Europe/Rome"

// TimeZone returns APP_TIMEZONE, or Europe/Rome when unset.
func TimeZone() string {
	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		return tz
	}
	return defaultTimeZone
}

// Location loads TimeZone(), falling back to UTC when the zone is unknown.
func Location() *time.Location {
	loc, err := time.LoadLocation(TimeZone())
	if err != nil {
		log.Printf("Warning: unknown time zone %q, using UTC", TimeZone())
		return time.UTC
	}
	return loc
}

func dsn() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		TimeZone(),
	)
}

func ConnectDB() *gorm.DB {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn(),
		PreferSimpleProtocol: true, // pgbouncer transaction mode has no prepared statements
	}), &gorm.Config{
		Logger:      newLogger,
		PrepareStmt: false,
	})
	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
	return db
}

// Migrate creates or updates the reconciliation tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.RawMaterial{},
		&model.Recipe{},
		&model.Ingredient{},
		&model.SalesRecord{},
		&model.InventoryCount{},
		&model.Replenishment{},
		&model.ReplenishmentItem{},
		&model.WasteRecord{},
	)
}
