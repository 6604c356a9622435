package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DispatchEventType enumerates the real-world events gate staff and
// drivers can log.
type DispatchEventType string

const (
	EventGateEntry        DispatchEventType = "GATE_ENTRY"
	EventGateExit         DispatchEventType = "GATE_EXIT"
	EventPickupFromParent DispatchEventType = "PICKUP_FROM_PARENT"
	EventDropToSchool     DispatchEventType = "DROP_TO_SCHOOL"
	EventPickupFromSchool DispatchEventType = "PICKUP_FROM_SCHOOL"
	EventDropToParent     DispatchEventType = "DROP_TO_PARENT"
)

// IsValidDispatchEventType checks if an event type is part of the closed set.
func IsValidDispatchEventType(t DispatchEventType) bool {
	switch t {
	case EventGateEntry, EventGateExit, EventPickupFromParent,
		EventDropToSchool, EventPickupFromSchool, EventDropToParent:
		return true
	default:
		return false
	}
}

// DispatchLog is one logged pickup/drop/gate event tying together a
// trip, student, school and vehicle. Trip, student, school and vehicle
// must all resolve to existing active entities when the log is created.
// Logs are an audit trail: updates may correct remarks and metadata but
// never change the event semantics, and logs are never deleted.
type DispatchLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TripID      string             `bson:"trip_id" json:"trip_id"`
	StudentID   string             `bson:"student_id" json:"student_id"`
	SchoolID    string             `bson:"school_id" json:"school_id"`
	VehicleID   string             `bson:"vehicle_id" json:"vehicle_id"`
	DriverID    string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	EventType   DispatchEventType  `bson:"event_type" json:"event_type"`
	Remarks     string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Coordinates *Location          `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`
	UpdatedBy   string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
