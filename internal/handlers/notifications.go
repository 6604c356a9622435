package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/school-transit/internal/middleware"
	"github.com/ukydev/school-transit/internal/models"
	"github.com/ukydev/school-transit/internal/response"
	"github.com/ukydev/school-transit/internal/service"
)

// NotificationHandler exposes the durable notification record surface.
type NotificationHandler struct {
	store *service.NotificationStore
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(store *service.NotificationStore) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// Send handles POST /api/notifications/send
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.SendNotificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	notification, err := h.store.Create(r.Context(), req.DispatchLogID, req.Type, req.CreatedBy)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.Created(w, "Notification created", notification)
}

// MarkSent handles PUT /api/notifications/{id}/mark-sent
func (h *NotificationHandler) MarkSent(w http.ResponseWriter, r *http.Request) {
	actor := "system"
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		actor = claims.Username
	}

	notification, err := h.store.MarkSent(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Notification marked as sent", notification)
}

// Get handles GET /api/notifications/{id}
func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	notification, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Notification retrieved", notification)
}

// ByDispatchLog handles GET /api/notifications/dispatch/{dispatchLogId}
func (h *NotificationHandler) ByDispatchLog(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.store.GetByDispatchLog(r.Context(), chi.URLParam(r, "dispatchLogId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.OK(w, "Notifications retrieved", notifications)
}
