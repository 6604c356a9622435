package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus enumerates the vehicle assignment request states.
type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "PENDING"
	AssignmentApproved AssignmentStatus = "APPROVED"
	AssignmentRejected AssignmentStatus = "REJECTED"
)

// VehicleAssignmentRequest is a vehicle owner's request to attach a
// vehicle to a school. At most one PENDING request may exist per
// (vehicle, school) pair; approval and rejection are terminal.
type VehicleAssignmentRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID string             `bson:"vehicle_id" json:"vehicle_id"`
	SchoolID  string             `bson:"school_id" json:"school_id"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Status    AssignmentStatus   `bson:"status" json:"status"`
	Remarks   string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	DecidedBy string             `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt *time.Time         `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// SchoolVehicle is the many-to-many join between schools and vehicles,
// the one cross-tenant relationship in the model. A pair gets exactly
// one mapping row for its lifetime; detaching deactivates it and a
// later approval reactivates the same row instead of duplicating it.
type SchoolVehicle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID  string             `bson:"school_id" json:"school_id"`
	VehicleID string             `bson:"vehicle_id" json:"vehicle_id"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
