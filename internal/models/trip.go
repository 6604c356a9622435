package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripStatusValue enumerates the lifecycle states a trip moves through.
type TripStatusValue string

const (
	TripNotStarted TripStatusValue = "NOT_STARTED"
	TripInProgress TripStatusValue = "IN_PROGRESS"
	TripCompleted  TripStatusValue = "COMPLETED"
	TripCancelled  TripStatusValue = "CANCELLED"
	TripDelayed    TripStatusValue = "DELAYED"
)

// IsValidTripStatus checks if a status value is part of the lifecycle.
func IsValidTripStatus(s TripStatusValue) bool {
	switch s {
	case TripNotStarted, TripInProgress, TripCompleted, TripCancelled, TripDelayed:
		return true
	default:
		return false
	}
}

// Trip represents a scheduled vehicle route for a school.
// (SchoolID, VehicleID, Number) is unique. Status is mutated only
// through the status ledger; Status/StartTime/EndTime here are a
// convenience mirror of the latest ledger entry. Trips referenced by
// dispatch logs are never hard-deleted, only deactivated.
type Trip struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID    string             `bson:"school_id" json:"school_id"`
	VehicleID   string             `bson:"vehicle_id" json:"vehicle_id"`
	DriverID    string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Number      string             `bson:"number" json:"number"`
	Type        string             `bson:"type" json:"type"` // "PICKUP" or "DROP"
	ScheduledAt time.Time          `bson:"scheduled_at" json:"scheduled_at"`
	Status      TripStatusValue    `bson:"status" json:"status"`
	StartTime   *time.Time         `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime     *time.Time         `bson:"end_time,omitempty" json:"end_time,omitempty"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// TripStatusEntry is one append-only ledger record of a trip status
// transition. The entry with the highest StatusTime (ties broken by
// insertion order) is the trip's current status. An entry is sealed
// once both StartTime and EndTime are set and is never mutated after
// that; further transitions append new entries.
type TripStatusEntry struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TripID           string             `bson:"trip_id" json:"trip_id"`
	Status           TripStatusValue    `bson:"status" json:"status"`
	StatusTime       time.Time          `bson:"status_time" json:"status_time"`
	StartTime        *time.Time         `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime          *time.Time         `bson:"end_time,omitempty" json:"end_time,omitempty"`
	TotalTimeMinutes *int64             `bson:"total_time_minutes,omitempty" json:"total_time_minutes,omitempty"`
	CreatedBy        string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// Sealed reports whether both time boundaries are set.
func (e *TripStatusEntry) Sealed() bool {
	return e.StartTime != nil && e.EndTime != nil
}
