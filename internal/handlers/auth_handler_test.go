package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"flightdeck/internal/handlers"
	"flightdeck/internal/model"
	"flightdeck/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T, userID uuid.UUID) (*chi.Mux, *mocks.MockAuthService) {
	t.Helper()
	mockService := mocks.NewMockAuthService(t)
	handler := handlers.NewAuthHandler(mockService)

	router := chi.NewRouter()
	router.Post("/api/v1/auth/register", handler.Register)
	router.Post("/api/v1/auth/login", handler.Login)
	router.Group(func(r chi.Router) {
		r.Use(injectUserID(userID))
		r.Get("/api/v1/auth/me", handler.Me)
	})
	return router, mockService
}

func TestAuthHandler_Register(t *testing.T) {
	userID := uuid.New()
	validReq := model.RegisterRequest{
		Email:    "pilot@example.com",
		Username: "pilot42",
		Password: "supersecret1",
	}
	authResp := &model.AuthResponse{
		Token:     "signed.jwt.token",
		Email:     validReq.Email,
		Username:  validReq.Username,
		ExpiresAt: time.Now().Add(24 * time.Hour).UTC(),
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(m *mocks.MockAuthService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success - account created",
			body: validReq,
			setupMock: func(m *mocks.MockAuthService) {
				m.On("Register", mock.Anything, &validReq).Return(authResp, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Fail - invalid email",
			body:           model.RegisterRequest{Email: "not-an-email", Username: "pilot42", Password: "supersecret1"},
			setupMock:      func(m *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Fail - password too short",
			body:           model.RegisterRequest{Email: "pilot@example.com", Username: "pilot42", Password: "short"},
			setupMock:      func(m *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Fail - malformed JSON",
			body:           `{"email": "pilot@example.com", `,
			setupMock:      func(m *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
		{
			name: "Fail - duplicate credentials",
			body: validReq,
			setupMock: func(m *mocks.MockAuthService) {
				m.On("Register", mock.Anything, &validReq).
					Return(nil, model.NewAppError("DUPLICATE_CREDENTIALS", "An account with this email or username already exists.", "email", model.ErrConflict)).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "DUPLICATE_CREDENTIALS",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, mockService := newAuthRouter(t, userID)
			tc.setupMock(mockService)

			rr := executeRequest(router, createRequest(t, "POST", "/api/v1/auth/register", tc.body))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusCreated {
				var resp model.AuthResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, authResp.Token, resp.Token)
				assert.Equal(t, authResp.Email, resp.Email)
			} else if tc.expectedCode != "" {
				resp := decodeErrorResponse(t, rr)
				assert.Equal(t, tc.expectedCode, resp.Error.Code)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	userID := uuid.New()
	validReq := model.LoginRequest{Email: "pilot@example.com", Password: "supersecret1"}

	t.Run("Success", func(t *testing.T) {
		router, mockService := newAuthRouter(t, userID)
		mockService.On("Login", mock.Anything, &validReq).Return(&model.AuthResponse{
			Token:    "signed.jwt.token",
			Email:    validReq.Email,
			Username: "pilot42",
		}, nil).Once()

		rr := executeRequest(router, createRequest(t, "POST", "/api/v1/auth/login", validReq))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp model.AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Fail - bad credentials", func(t *testing.T) {
		router, mockService := newAuthRouter(t, userID)
		mockService.On("Login", mock.Anything, &validReq).
			Return(nil, model.NewAppError("AUTHENTICATION_FAILED", "Invalid email or password.", "", model.ErrUnauthorized)).Once()

		rr := executeRequest(router, createRequest(t, "POST", "/api/v1/auth/login", validReq))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resp := decodeErrorResponse(t, rr)
		assert.Equal(t, "AUTHENTICATION_FAILED", resp.Error.Code)
	})

	t.Run("Fail - missing password", func(t *testing.T) {
		router, _ := newAuthRouter(t, userID)

		rr := executeRequest(router, createRequest(t, "POST", "/api/v1/auth/login", model.LoginRequest{Email: validReq.Email}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeErrorResponse(t, rr)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	userID := uuid.New()
	router, mockService := newAuthRouter(t, userID)

	userResp := &model.UserResponse{
		UserID:       userID,
		Email:        "pilot@example.com",
		Username:     "pilot42",
		TotalQuizzes: 20,
		AccuracyRate: 0.65,
	}
	mockService.On("GetUser", mock.Anything, userID).Return(userResp, nil).Once()

	rr := executeRequest(router, createRequest(t, "GET", "/api/v1/auth/me", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp model.UserResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, 20, resp.TotalQuizzes)
}
