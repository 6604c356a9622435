package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// School is the tenant root: every trip, student, dispatch log and
// notification belongs to exactly one school.
type School struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address" json:"address"`
	City      string             `bson:"city" json:"city"`
	Phone     string             `bson:"phone" json:"phone"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
