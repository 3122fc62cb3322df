package handlers

import (
	"errors"
	"net/http"

	"flightdeck/internal/middleware"
	"flightdeck/internal/model"
	"flightdeck/internal/service"
	"flightdeck/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type QuizHandler struct {
	service service.QuizService
}

func NewQuizHandler(s service.QuizService) *QuizHandler {
	return &QuizHandler{service: s}
}

// GetQuestion returns a freshly generated multiple-choice question.
func (h *QuizHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	question, err := h.service.GetQuestion(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, question)
}

// SubmitAnswer scores the answer and returns feedback plus updated stats.
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SubmitAnswerRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode answer body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.SubmitAnswer(r.Context(), userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// GetStats returns the aggregate summary across all studied airports.
func (h *QuizHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	summary, err := h.service.GetStats(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, summary)
}
