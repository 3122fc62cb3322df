//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightdeck/internal/middleware"
	"flightdeck/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, db *gorm.DB, userID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(user)
	if result.Error != nil {
		// The unique constraints on email/username are the source of truth
		// for duplicate detection; the service pre-check is an optimization.
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Duplicate key error on create user", "email", user.Email, "username", user.Username)
			return model.ErrConflict
		}
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrConflict
		}
		logger.Error("Error creating user in DB", "error", result.Error, "email", user.Email)
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by ID in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormUserRepository.FindByID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("User not found by email", "email", email)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by email in DB", "error", result.Error, "email", email)
		return nil, fmt.Errorf("gormUserRepository.FindByEmail: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("User not found by username", "username", username)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by username in DB", "error", result.Error, "username", username)
		return nil, fmt.Errorf("gormUserRepository.FindByUsername: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) UpdateLastLogin(ctx context.Context, db *gorm.DB, userID uuid.UUID, at time.Time) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("last_login_at", at)
	if result.Error != nil {
		logger.Error("Error updating last login in DB", "error", result.Error, "user_id", userID.String())
		return fmt.Errorf("gormUserRepository.UpdateLastLogin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.User{})
	if result.Error != nil {
		logger.Error("Error deleting user in DB", "error", result.Error, "user_id", userID.String())
		return fmt.Errorf("gormUserRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		logger.Warn("User not found for deletion (idempotent)", "user_id", userID.String())
	}
	return nil
}
