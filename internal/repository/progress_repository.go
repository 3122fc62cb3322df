//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"flightdeck/internal/middleware"
	"flightdeck/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error
	Update(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error
	FindByUserAndAirport(ctx context.Context, db *gorm.DB, userID uuid.UUID, code string) (*model.UserProgress, error)
	// FindByUserAndAirportForUpdate takes a row lock so the caller's
	// read-modify-write serializes per (user, airport). Must run inside a
	// transaction.
	FindByUserAndAirportForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, code string) (*model.UserProgress, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.UserProgress, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error {
	result := tx.WithContext(ctx).Create(progress)
	if result.Error != nil {
		// Two first answers racing on the same (user, airport) pair: one
		// insert loses against the composite unique index.
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			return model.ErrConflict
		}
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		return fmt.Errorf("gormProgressRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) Update(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error {
	result := tx.WithContext(ctx).Save(progress)
	return result.Error
}

func (r *gormProgressRepository) FindByUserAndAirport(ctx context.Context, db *gorm.DB, userID uuid.UUID, code string) (*model.UserProgress, error) {
	var progress model.UserProgress
	result := db.WithContext(ctx).
		Where("user_id = ? AND airport_code = ?", userID, code).
		First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormProgressRepository.FindByUserAndAirport: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) FindByUserAndAirportForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, code string) (*model.UserProgress, error) {
	var progress model.UserProgress
	q := tx.WithContext(ctx)
	// sqlite has no SELECT ... FOR UPDATE; its transaction-wide write lock
	// already serializes the upsert there.
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	result := q.
		Where("user_id = ? AND airport_code = ?", userID, code).
		First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormProgressRepository.FindByUserAndAirportForUpdate: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.UserProgress, error) {
	logger := middleware.GetLogger(ctx)
	var progresses []model.UserProgress

	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("airport_code ASC").
		Find(&progresses)
	if result.Error != nil {
		logger.Error("Error listing progress in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormProgressRepository.FindByUser: %w", result.Error)
	}
	return progresses, nil
}
