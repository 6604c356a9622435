package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle represents a transport vehicle. Vehicles are registered by
// their owner and attached to schools through SchoolVehicle mappings,
// so one vehicle may serve multiple schools.
type Vehicle struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID            string             `bson:"owner_id" json:"owner_id"`
	RegistrationNumber string             `bson:"registration_number" json:"registration_number"`
	Type               string             `bson:"type" json:"type"` // "BUS" or "VAN"
	Make               string             `bson:"make" json:"make"`
	Model              string             `bson:"model" json:"model"`
	Year               int                `bson:"year" json:"year"`
	Capacity           int                `bson:"capacity" json:"capacity"`
	CurrentLocation    Location           `bson:"current_location" json:"current_location"`
	IsActive           bool               `bson:"is_active" json:"is_active"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}
