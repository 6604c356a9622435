package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Driver represents a vehicle driver registered under a school.
type Driver struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SchoolID      string             `bson:"school_id" json:"school_id"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone" json:"phone"`
	LicenseNumber string             `bson:"license_number" json:"license_number"`
	IsActive      bool               `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
