package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"flightdeck/internal/config"
	"flightdeck/internal/model"
	"flightdeck/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware validates the Bearer token and puts the user ID into the
// request context. Expired tokens and malformed/badly-signed tokens are
// distinguished internally; both answer 401.
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorization header is required.", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorization header must be of the form 'Bearer {token}'.", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}
			tokenString := headerParts[1]

			userID, err := ValidateToken(tokenString, cfg.JWT.SecretKey)
			if err != nil {
				if errors.Is(err, model.ErrTokenExpired) {
					logger.Warn("JWT auth failed: token expired")
					appErr := model.NewAppError("TOKEN_EXPIRED", "The session token has expired.", "", model.ErrTokenExpired)
					webutil.HandleError(w, logger, appErr)
					return
				}
				logger.Warn("JWT auth failed: invalid token", "error", err)
				appErr := model.NewAppError("INVALID_TOKEN", "The session token is invalid.", "", model.ErrTokenInvalid)
				webutil.HandleError(w, logger, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidateToken checks signature and expiry and returns the embedded user ID.
// Validity is a pure function of the token, the shared secret and the clock.
func ValidateToken(tokenString, secretKey string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, model.ErrTokenExpired
		}
		return uuid.Nil, model.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, model.ErrTokenInvalid
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, model.ErrTokenInvalid
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, model.ErrTokenInvalid
	}
	return userID, nil
}

// GetUserIDFromContext extracts the authenticated user's ID set by
// JWTAuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Could not read user identity from request context.", "", model.ErrInternalServer)
	}
	return value, nil
}
