package service

import (
	"context"
	"time"

	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/models"
)

// NotificationStore manages the durable notification records tied to
// dispatch logs. No retry or backoff lives here: a caller that sees a
// delivery failure records the error message and decides what to do.
type NotificationStore struct {
	notifications db.NotificationCollection
	logs          db.DispatchLogCollection
}

// NewNotificationStore creates a store over the given collections.
func NewNotificationStore(notifications db.NotificationCollection, logs db.DispatchLogCollection) *NotificationStore {
	return &NotificationStore{notifications: notifications, logs: logs}
}

// Create records a pending notification (not sent, no error, no
// sent-at) against a dispatch log.
func (s *NotificationStore) Create(ctx context.Context, dispatchLogID string, notificationType models.NotificationType, createdBy string) (*models.Notification, error) {
	if !models.IsValidNotificationType(notificationType) {
		return nil, conflict("invalid notification type %q", notificationType)
	}
	if _, err := s.logs.FindDispatchLogByID(ctx, dispatchLogID); err != nil {
		return nil, notFound("dispatch log", dispatchLogID)
	}

	notification := models.Notification{
		DispatchLogID: dispatchLogID,
		Type:          notificationType,
		IsSent:        false,
		CreatedBy:     createdBy,
	}
	id, err := s.notifications.InsertNotification(ctx, notification)
	if err != nil {
		return nil, err
	}
	return s.notifications.FindNotificationByID(ctx, id)
}

// MarkSent marks a notification as sent with the current time.
// Idempotent in effect; every call is audit-logged via updated-by.
func (s *NotificationStore) MarkSent(ctx context.Context, id, updatedBy string) (*models.Notification, error) {
	notification, err := s.notifications.FindNotificationByID(ctx, id)
	if err != nil {
		return nil, notFound("notification", id)
	}

	now := time.Now()
	notification.IsSent = true
	notification.SentAt = &now
	notification.UpdatedBy = updatedBy
	if err := s.notifications.UpdateNotification(ctx, id, *notification); err != nil {
		return nil, err
	}
	return s.notifications.FindNotificationByID(ctx, id)
}

// RecordError stores a delivery failure message on a notification.
func (s *NotificationStore) RecordError(ctx context.Context, id, message, updatedBy string) (*models.Notification, error) {
	notification, err := s.notifications.FindNotificationByID(ctx, id)
	if err != nil {
		return nil, notFound("notification", id)
	}

	notification.ErrorMessage = message
	notification.UpdatedBy = updatedBy
	if err := s.notifications.UpdateNotification(ctx, id, *notification); err != nil {
		return nil, err
	}
	return s.notifications.FindNotificationByID(ctx, id)
}

// Get returns a notification record by id.
func (s *NotificationStore) Get(ctx context.Context, id string) (*models.Notification, error) {
	notification, err := s.notifications.FindNotificationByID(ctx, id)
	if err != nil {
		return nil, notFound("notification", id)
	}
	return notification, nil
}

// GetByDispatchLog returns the notification records for a dispatch log.
func (s *NotificationStore) GetByDispatchLog(ctx context.Context, dispatchLogID string) ([]models.Notification, error) {
	if _, err := s.logs.FindDispatchLogByID(ctx, dispatchLogID); err != nil {
		return nil, notFound("dispatch log", dispatchLogID)
	}
	return s.notifications.FindByDispatchLog(ctx, dispatchLogID)
}
