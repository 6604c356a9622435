package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/school-transit/internal/models"
	"github.com/ukydev/school-transit/internal/response"
	"github.com/ukydev/school-transit/internal/service"
)

// AssignmentHandler exposes the vehicle assignment request workflow.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// Request handles POST /api/vehicle-assignments/request
func (h *AssignmentHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.assignments.CreateRequest(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Created(w, "Assignment request created", request)
}

// Approve handles PUT /api/vehicle-assignments/{id}/approve
func (h *AssignmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req models.DecideAssignmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.assignments.Approve(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Assignment request approved", request)
}

// Reject handles PUT /api/vehicle-assignments/{id}/reject
func (h *AssignmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req models.DecideAssignmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.assignments.Reject(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Assignment request rejected", request)
}

// PendingBySchool handles GET /api/vehicle-assignments/school/{schoolId}/pending
func (h *AssignmentHandler) PendingBySchool(w http.ResponseWriter, r *http.Request) {
	requests, err := h.assignments.PendingBySchool(r.Context(), chi.URLParam(r, "schoolId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Pending assignment requests retrieved", requests)
}

// ByOwner handles GET /api/vehicle-assignments/owner/{ownerId}
func (h *AssignmentHandler) ByOwner(w http.ResponseWriter, r *http.Request) {
	requests, err := h.assignments.ByOwner(r.Context(), chi.URLParam(r, "ownerId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Assignment requests retrieved", requests)
}
