// internal/repository/db.go
package repository

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"flightdeck/internal/model"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// seedAirports is the initial catalog. Inserted once, when the table is empty.
var seedAirports = []model.Airport{
	{Code: "ATL", Name: "Hartsfield-Jackson Atlanta International", City: "Atlanta", Country: "USA", Region: "North America"},
	{Code: "DEN", Name: "Denver International", City: "Denver", Country: "USA", Region: "North America"},
	{Code: "DFW", Name: "Dallas/Fort Worth International", City: "Dallas", Country: "USA", Region: "North America"},
	{Code: "JFK", Name: "John F. Kennedy International", City: "New York", Country: "USA", Region: "North America"},
	{Code: "LAS", Name: "McCarran International", City: "Las Vegas", Country: "USA", Region: "North America"},
	{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles", Country: "USA", Region: "North America"},
	{Code: "MIA", Name: "Miami International", City: "Miami", Country: "USA", Region: "North America"},
	{Code: "ORD", Name: "O'Hare International", City: "Chicago", Country: "USA", Region: "North America"},
	{Code: "PHX", Name: "Phoenix Sky Harbor International", City: "Phoenix", Country: "USA", Region: "North America"},
	{Code: "SEA", Name: "Seattle-Tacoma International", City: "Seattle", Country: "USA", Region: "North America"},
}

// NewDB opens the postgres connection with a slog-backed GORM logger, runs
// migrations and seeds the airport catalog.
func NewDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithSlowThreshold(500 * time.Millisecond),
	)
	finalGormLogger := slogGormLogger.LogMode(gormLogLevel)

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: finalGormLogger,
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		appLogger.Error("Error migrating database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	appLogger.Info("Database connection established with GORM")
	return db, nil
}

// Migrate runs auto-migration and seeds the airport catalog when empty.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Airport{}, &model.User{}, &model.UserProgress{}); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.Airport{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&seedAirports).Error; err != nil {
			return err
		}
	}
	return nil
}
