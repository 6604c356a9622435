package models

import "time"

// Request DTOs for the HTTP surface. Validation tags are enforced by
// the handlers before any service call.

// CreateDispatchLogRequest creates a dispatch log with an explicit event type.
type CreateDispatchLogRequest struct {
	TripID    string            `json:"tripId" validate:"required"`
	StudentID string            `json:"studentId" validate:"required"`
	SchoolID  string            `json:"schoolId" validate:"required"`
	VehicleID string            `json:"vehicleId" validate:"required"`
	EventType DispatchEventType `json:"eventType" validate:"required"`
	DriverID  string            `json:"driverId,omitempty"`
	Remarks   string            `json:"remarks,omitempty"`
	Lat       *float64          `json:"lat,omitempty"`
	Lon       *float64          `json:"lon,omitempty"`
	Address   string            `json:"address,omitempty"`
	CreatedBy string            `json:"createdBy" validate:"required"`
}

// UpdateDispatchLogRequest corrects remarks and metadata on an existing
// log. Nil fields are left untouched; the event semantics (trip,
// student, school, vehicle, event type) are frozen at creation.
type UpdateDispatchLogRequest struct {
	DriverID  *string  `json:"driverId,omitempty"`
	Remarks   *string  `json:"remarks,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Address   *string  `json:"address,omitempty"`
	UpdatedBy string   `json:"updatedBy" validate:"required"`
}

// GateEventRequest is the gate-staff convenience wrapper; the event
// type is fixed by the endpoint.
type GateEventRequest struct {
	TripID    string   `json:"tripId" validate:"required"`
	StudentID string   `json:"studentId" validate:"required"`
	SchoolID  string   `json:"schoolId" validate:"required"`
	VehicleID string   `json:"vehicleId" validate:"required"`
	DriverID  string   `json:"driverId,omitempty"`
	Remarks   string   `json:"remarks,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Address   string   `json:"address,omitempty"`
	CreatedBy string   `json:"createdBy" validate:"required"`
}

// RecordTripStatusRequest appends a trip status ledger entry.
type RecordTripStatusRequest struct {
	Status     TripStatusValue `json:"status" validate:"required"`
	StatusTime *time.Time      `json:"statusTime,omitempty"`
	StartTime  *time.Time      `json:"startTime,omitempty"`
	EndTime    *time.Time      `json:"endTime,omitempty"`
	CreatedBy  string          `json:"createdBy,omitempty"`
}

// SendNotificationRequest creates a durable notification record for a
// dispatch log.
type SendNotificationRequest struct {
	DispatchLogID string           `json:"dispatchLogId" validate:"required"`
	Type          NotificationType `json:"type" validate:"required"`
	CreatedBy     string           `json:"createdBy" validate:"required"`
}

// CreateAssignmentRequest opens a vehicle assignment request.
type CreateAssignmentRequest struct {
	VehicleID string `json:"vehicleId" validate:"required"`
	SchoolID  string `json:"schoolId" validate:"required"`
	OwnerID   string `json:"ownerId" validate:"required"`
	Remarks   string `json:"remarks,omitempty"`
}

// DecideAssignmentRequest approves or rejects a pending request.
type DecideAssignmentRequest struct {
	DecidedBy string `json:"decidedBy" validate:"required"`
	Remarks   string `json:"remarks,omitempty"`
}

// CreateTripRequest seeds a trip for a school.
type CreateTripRequest struct {
	SchoolID    string    `json:"schoolId" validate:"required"`
	VehicleID   string    `json:"vehicleId" validate:"required"`
	DriverID    string    `json:"driverId,omitempty"`
	Name        string    `json:"name" validate:"required"`
	Number      string    `json:"number" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=PICKUP DROP"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}
