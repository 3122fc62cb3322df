//go:generate mockery --name AirportRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"flightdeck/internal/middleware"
	"flightdeck/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type AirportRepository interface {
	Create(ctx context.Context, db *gorm.DB, airport *model.Airport) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*model.Airport, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]model.Airport, error)
	Delete(ctx context.Context, db *gorm.DB, code string) error
}

type gormAirportRepository struct{}

func NewGormAirportRepository() AirportRepository {
	return &gormAirportRepository{}
}

func (r *gormAirportRepository) Create(ctx context.Context, db *gorm.DB, airport *model.Airport) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(airport)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Duplicate key error on create airport", "code", airport.Code)
			return model.ErrConflict
		}
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating airport in DB", "error", result.Error, "code", airport.Code)
		return fmt.Errorf("gormAirportRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormAirportRepository) FindByCode(ctx context.Context, db *gorm.DB, code string) (*model.Airport, error) {
	logger := middleware.GetLogger(ctx)
	var airport model.Airport

	result := db.WithContext(ctx).Where("code = ?", code).First(&airport)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding airport by code in DB", "error", result.Error, "code", code)
		return nil, fmt.Errorf("gormAirportRepository.FindByCode: %w", result.Error)
	}
	return &airport, nil
}

func (r *gormAirportRepository) FindAll(ctx context.Context, db *gorm.DB) ([]model.Airport, error) {
	logger := middleware.GetLogger(ctx)
	var airports []model.Airport

	result := db.WithContext(ctx).Order("code ASC").Find(&airports)
	if result.Error != nil {
		logger.Error("Error listing airports in DB", "error", result.Error)
		return nil, fmt.Errorf("gormAirportRepository.FindAll: %w", result.Error)
	}
	return airports, nil
}

func (r *gormAirportRepository) Delete(ctx context.Context, db *gorm.DB, code string) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Where("code = ?", code).Delete(&model.Airport{})
	if result.Error != nil {
		logger.Error("Error deleting airport in DB", "error", result.Error, "code", code)
		return fmt.Errorf("gormAirportRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
