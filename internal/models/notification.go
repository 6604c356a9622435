package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enumerates the notification kinds the system emits.
type NotificationType string

const (
	NotifyGateEntry         NotificationType = "GATE_ENTRY"
	NotifyGateExit          NotificationType = "GATE_EXIT"
	NotifyPickup            NotificationType = "PICKUP"
	NotifyDrop              NotificationType = "DROP"
	NotifyVehicleAssignment NotificationType = "VEHICLE_ASSIGNMENT"
	NotifyConnection        NotificationType = "CONNECTION"
	NotifyChat              NotificationType = "CHAT"
	NotifyGeneral           NotificationType = "GENERAL"
)

// IsValidNotificationType checks if a notification type is known.
func IsValidNotificationType(t NotificationType) bool {
	switch t {
	case NotifyGateEntry, NotifyGateExit, NotifyPickup, NotifyDrop,
		NotifyVehicleAssignment, NotifyConnection, NotifyChat, NotifyGeneral:
		return true
	default:
		return false
	}
}

// Priority of a real-time notification.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ActionTag describes what happened to the entity a notification is about.
type ActionTag string

const (
	ActionCreate ActionTag = "CREATE"
	ActionUpdate ActionTag = "UPDATE"
	ActionDelete ActionTag = "DELETE"
)

// Notification is the durable delivery record tied to one dispatch log.
// It is created pending (not sent, no error), marked sent exactly once,
// and a delivery failure is recorded in ErrorMessage rather than a
// separate state. Retry policy, if any, is the caller's concern.
type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DispatchLogID string             `bson:"dispatch_log_id" json:"dispatch_log_id"`
	Type          NotificationType   `bson:"type" json:"type"`
	IsSent        bool               `bson:"is_sent" json:"is_sent"`
	SentAt        *time.Time         `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	ErrorMessage  string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedBy     string             `bson:"created_by" json:"created_by"`
	UpdatedBy     string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// RealtimeNotification is the transient payload the fan-out router
// moves over the real-time channel. The router stamps ID, Timestamp and
// Read on every send; caller-supplied values for those fields do not
// survive. Data is an opaque payload forwarded as-is to clients.
type RealtimeNotification struct {
	ID         string                 `json:"id"`
	Type       NotificationType       `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Priority   Priority               `json:"priority"`
	UserID     string                 `json:"user_id,omitempty"`
	Role       string                 `json:"role,omitempty"`
	SchoolID   string                 `json:"school_id,omitempty"`
	TripID     string                 `json:"trip_id,omitempty"`
	VehicleID  string                 `json:"vehicle_id,omitempty"`
	StudentID  string                 `json:"student_id,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Read       bool                   `json:"read"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Action     ActionTag              `json:"action,omitempty"`
	EntityType string                 `json:"entity_type,omitempty"`
}
