package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/school-transit/internal/models"
	"github.com/ukydev/school-transit/internal/response"
	"github.com/ukydev/school-transit/internal/service"
)

// DispatchHandler exposes the dispatch log surface.
type DispatchHandler struct {
	orchestrator *service.Orchestrator
	dispatch     *service.DispatchLogService
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(orchestrator *service.Orchestrator, dispatch *service.DispatchLogService) *DispatchHandler {
	return &DispatchHandler{orchestrator: orchestrator, dispatch: dispatch}
}

// Create handles POST /api/dispatch-logs/create. Gate events go through
// the gate workflow so the trip status policy applies; pickup/drop
// events notify the parent or the school.
func (h *DispatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDispatchLogRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var entry *models.DispatchLog
	var err error
	switch req.EventType {
	case models.EventGateEntry, models.EventGateExit:
		entry, err = h.orchestrator.LogGateEvent(r.Context(), models.GateEventRequest{
			TripID:    req.TripID,
			StudentID: req.StudentID,
			SchoolID:  req.SchoolID,
			VehicleID: req.VehicleID,
			DriverID:  req.DriverID,
			Remarks:   req.Remarks,
			Lat:       req.Lat,
			Lon:       req.Lon,
			Address:   req.Address,
			CreatedBy: req.CreatedBy,
		}, req.EventType)
	default:
		entry, err = h.orchestrator.LogDispatchEvent(r.Context(), req)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Created(w, "Dispatch log created", entry)
}

// Update handles PUT /api/dispatch-logs/{id}
func (h *DispatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateDispatchLogRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.dispatch.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Dispatch log updated", entry)
}

// ListByTrip handles GET /api/dispatch-logs/trip/{tripId}
func (h *DispatchHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dispatch.ListByTrip(r.Context(), chi.URLParam(r, "tripId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Dispatch logs retrieved", entries)
}

// ListByVehicle handles GET /api/dispatch-logs/vehicle/{vehicleId}
func (h *DispatchHandler) ListByVehicle(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dispatch.ListByVehicle(r.Context(), chi.URLParam(r, "vehicleId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Dispatch logs retrieved", entries)
}

// MarkEntry handles POST /api/gate-staff/mark-entry
func (h *DispatchHandler) MarkEntry(w http.ResponseWriter, r *http.Request) {
	h.gateEvent(w, r, models.EventGateEntry)
}

// MarkExit handles POST /api/gate-staff/mark-exit
func (h *DispatchHandler) MarkExit(w http.ResponseWriter, r *http.Request) {
	h.gateEvent(w, r, models.EventGateExit)
}

func (h *DispatchHandler) gateEvent(w http.ResponseWriter, r *http.Request, eventType models.DispatchEventType) {
	var req models.GateEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.orchestrator.LogGateEvent(r.Context(), req, eventType)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Created(w, "Gate event recorded", entry)
}
