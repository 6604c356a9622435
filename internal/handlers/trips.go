package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/school-transit/internal/middleware"
	"github.com/ukydev/school-transit/internal/models"
	"github.com/ukydev/school-transit/internal/response"
	"github.com/ukydev/school-transit/internal/service"
)

// TripHandler exposes trip management and the trip status ledger.
type TripHandler struct {
	trips  *service.TripService
	ledger *service.TripStatusLedger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips *service.TripService, ledger *service.TripStatusLedger) *TripHandler {
	return &TripHandler{trips: trips, ledger: ledger}
}

// Create handles POST /api/trips
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTripRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	trip, err := h.trips.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Created(w, "Trip created", trip)
}

// Get handles GET /api/trips/{id}
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, err := h.trips.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Trip retrieved", trip)
}

// RecordStatus handles POST /api/trips/{id}/status
func (h *TripHandler) RecordStatus(w http.ResponseWriter, r *http.Request) {
	var req models.RecordTripStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.CreatedBy == "" {
		if user, ok := middleware.GetUserFromContext(r.Context()); ok {
			req.CreatedBy = user.UserID
		}
	}

	entry, err := h.ledger.RecordStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Created(w, "Trip status recorded", entry)
}

// LatestStatus handles GET /api/trips/{id}/status/latest
func (h *TripHandler) LatestStatus(w http.ResponseWriter, r *http.Request) {
	entry, err := h.ledger.LatestStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Latest trip status retrieved", entry)
}

// StatusHistory handles GET /api/trips/{id}/status/history
func (h *TripHandler) StatusHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Trip status history retrieved", entries)
}
