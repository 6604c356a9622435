package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student represents a student enrolled at a school. ParentUserID links
// to the parent's user account and is the target for per-user pickup
// and drop notifications; it may be empty when no parent account exists.
type Student struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID     string             `bson:"school_id" json:"school_id"`
	Name         string             `bson:"name" json:"name"`
	Grade        string             `bson:"grade" json:"grade"`
	ParentUserID string             `bson:"parent_user_id,omitempty" json:"parent_user_id,omitempty"`
	PickupPoint  *Location          `bson:"pickup_point,omitempty" json:"pickup_point,omitempty"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
