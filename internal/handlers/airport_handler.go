package handlers

import (
	"errors"
	"net/http"

	"flightdeck/internal/middleware"
	"flightdeck/internal/model"
	"flightdeck/internal/service"
	"flightdeck/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AirportHandler struct {
	service service.AirportService
}

func NewAirportHandler(s service.AirportService) *AirportHandler {
	return &AirportHandler{service: s}
}

func (h *AirportHandler) ListAirports(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	airports, err := h.service.ListAirports(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if airports == nil {
		airports = []model.Airport{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, airports)
}

func (h *AirportHandler) CreateAirport(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.CreateAirportRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode airport body", "error", err)
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

	airport, err := h.service.CreateAirport(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, airport)
}

func (h *AirportHandler) DeleteAirport(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	code := chi.URLParam(r, "code")
	if len(code) != 3 {
		appErr := model.NewAppError("INVALID_AIRPORT_CODE", "Airport code must be exactly 3 letters.", "code", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.service.DeleteAirport(r.Context(), code); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
