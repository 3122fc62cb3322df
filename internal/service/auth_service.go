package service

import (
	"context"
	"errors"
	"time"

	"flightdeck/internal/config"
	"flightdeck/internal/middleware"
	"flightdeck/internal/model"
	"flightdeck/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns credentials: password hashing, duplicate-safe
// registration, login and session-token minting.
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	progRepo repository.ProgressRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, progRepo repository.ProgressRepository, cfg *config.Config) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		progRepo: progRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Register creates an account. The email/username pre-checks are an
// optimization only: the unique constraints are the source of truth, and a
// conflicting concurrent insert surfaces as the same DUPLICATE_CREDENTIALS
// error as a pre-check hit.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	logger := middleware.GetLogger(ctx)
	var newUser *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.userRepo.FindByEmail(ctx, tx, req.Email)
		if err == nil {
			logger.Warn("Email already exists", "email", req.Email)
			return model.NewAppError("DUPLICATE_CREDENTIALS", "An account with this email or username already exists.", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		_, err = s.userRepo.FindByUsername(ctx, tx, req.Username)
		if err == nil {
			logger.Warn("Username already exists", "username", req.Username)
			return model.NewAppError("DUPLICATE_CREDENTIALS", "An account with this email or username already exists.", "username", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check username existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to process the password.", "", err)
		}

		now := s.now()
		user := &model.User{
			UserID:       uuid.New(),
			Email:        req.Email,
			Username:     req.Username,
			PasswordHash: string(hashedPassword),
			CreatedAt:    now,
			LastLoginAt:  now,
		}

		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			// Unique-constraint violation from a concurrent insert.
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during user creation (race condition)", "error", err)
				return model.NewAppError("DUPLICATE_CREDENTIALS", "An account with this email or username already exists.", "email,username", model.ErrConflict)
			}
			logger.Error("Failed to create user in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create the account.", "", err)
		}
		newUser = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issueToken(newUser)
	if err != nil {
		logger.Error("Failed to sign JWT after registration", "error", err, "user_id", newUser.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to issue a session token.", "", err)
	}

	logger.Info("User registered", "user_id", newUser.UserID, "email", newUser.Email)
	return &model.AuthResponse{
		Token:     token,
		Email:     newUser.Email,
		Username:  newUser.Username,
		ExpiresAt: expiresAt,
	}, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the identical error so callers cannot tell which failed.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	user, err := s.userRepo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "Invalid email or password.", "", model.ErrUnauthorized)
		}
		logger.Error("Login failed: db error on FindByEmail", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", user.UserID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "Invalid email or password.", "", model.ErrUnauthorized)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, s.db, user.UserID, s.now()); err != nil {
		logger.Error("Failed to update last login time", "error", err, "user_id", user.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to issue a session token.", "", err)
	}

	logger.Info("Login successful", "user_id", user.UserID)
	return &model.AuthResponse{
		Token:     token,
		Email:     user.Email,
		Username:  user.Username,
		ExpiresAt: expiresAt,
	}, nil
}

// GetUser returns account info with aggregated quiz totals.
func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	logger := middleware.GetLogger(ctx)

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User not found", "user_id", userID.String())
			return nil, model.NewAppError("USER_NOT_FOUND", "The account could not be found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding user by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	progresses, err := s.progRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Error loading progress for user info", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}

	totalQuizzes := 0
	totalCorrect := 0
	for _, p := range progresses {
		totalQuizzes += p.TotalAttempts
		totalCorrect += p.CorrectAnswers
	}
	accuracy := 0.0
	if totalQuizzes > 0 {
		accuracy = float64(totalCorrect) / float64(totalQuizzes)
	}

	return &model.UserResponse{
		UserID:       user.UserID,
		Email:        user.Email,
		Username:     user.Username,
		CreatedAt:    user.CreatedAt,
		TotalQuizzes: totalQuizzes,
		AccuracyRate: accuracy,
	}, nil
}

// issueToken mints a stateless HS256 session token. Expiry is deterministic:
// issuedAt plus the configured TTL.
func (s *authService) issueToken(user *model.User) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.cfg.JWT.AccessTokenTTL)

	claims := &jwt.RegisteredClaims{
		Issuer:    s.cfg.App.Name,
		Subject:   user.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
