package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flightdeck/internal/middleware"
	"flightdeck/internal/model"
	"flightdeck/internal/repository"

	"gorm.io/gorm"
)

// AirportService is the administrative surface of the catalog. Records are
// immutable: create and delete only, no updates.
type AirportService interface {
	ListAirports(ctx context.Context) ([]model.Airport, error)
	CreateAirport(ctx context.Context, req *model.CreateAirportRequest) (*model.Airport, error)
	DeleteAirport(ctx context.Context, code string) error
}

type airportService struct {
	db          *gorm.DB
	airportRepo repository.AirportRepository
}

func NewAirportService(db *gorm.DB, airportRepo repository.AirportRepository) AirportService {
	return &airportService{db: db, airportRepo: airportRepo}
}

func (s *airportService) ListAirports(ctx context.Context) ([]model.Airport, error) {
	logger := middleware.GetLogger(ctx)

	airports, err := s.airportRepo.FindAll(ctx, s.db)
	if err != nil {
		logger.Error("Failed to list airports", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to list airports.", "", err)
	}
	return airports, nil
}

func (s *airportService) CreateAirport(ctx context.Context, req *model.CreateAirportRequest) (*model.Airport, error) {
	logger := middleware.GetLogger(ctx)

	airport := &model.Airport{
		Code:    strings.ToUpper(req.Code),
		Name:    req.Name,
		City:    req.City,
		Country: req.Country,
		Region:  req.Region,
	}

	if err := s.airportRepo.Create(ctx, s.db, airport); err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Warn("Airport already exists", "code", airport.Code)
			return nil, model.NewAppError("DUPLICATE_AIRPORT", fmt.Sprintf("Airport with code '%s' already exists.", airport.Code), "code", model.ErrConflict)
		}
		logger.Error("Failed to create airport", "error", err, "code", airport.Code)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the airport.", "", err)
	}

	logger.Info("Airport created", "code", airport.Code)
	return airport, nil
}

func (s *airportService) DeleteAirport(ctx context.Context, code string) error {
	logger := middleware.GetLogger(ctx)

	if err := s.airportRepo.Delete(ctx, s.db, strings.ToUpper(code)); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("AIRPORT_NOT_FOUND", fmt.Sprintf("Airport with code '%s' not found.", code), "code", model.ErrNotFound)
		}
		logger.Error("Failed to delete airport", "error", err, "code", code)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to delete the airport.", "", err)
	}

	logger.Info("Airport deleted", "code", code)
	return nil
}
