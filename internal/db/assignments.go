package db

import (
	"context"
	"time"

	"github.com/ukydev/school-transit/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssignmentCollection defines the interface for vehicle assignment
// request operations.
type AssignmentCollection interface {
	InsertRequest(ctx context.Context, request models.VehicleAssignmentRequest) (string, error)
	FindRequestByID(ctx context.Context, id string) (*models.VehicleAssignmentRequest, error)
	UpdateRequest(ctx context.Context, id string, request models.VehicleAssignmentRequest) error
	FindPendingByVehicleAndSchool(ctx context.Context, vehicleID, schoolID string) (*models.VehicleAssignmentRequest, error)
	FindPendingBySchool(ctx context.Context, schoolID string) ([]models.VehicleAssignmentRequest, error)
	FindByOwner(ctx context.Context, ownerID string) ([]models.VehicleAssignmentRequest, error)
}

// SchoolVehicleCollection defines the interface for the school-vehicle
// mapping, the one cross-tenant join in the model.
type SchoolVehicleCollection interface {
	InsertMapping(ctx context.Context, mapping models.SchoolVehicle) (string, error)
	FindMapping(ctx context.Context, schoolID, vehicleID string) (*models.SchoolVehicle, error)
	SetMappingActive(ctx context.Context, id string, active bool) error
}

// MongoAssignmentCollection implements AssignmentCollection for MongoDB.
type MongoAssignmentCollection struct {
	Collection *mongo.Collection
}

// InsertRequest inserts an assignment request and returns its generated id.
func (c *MongoAssignmentCollection) InsertRequest(ctx context.Context, request models.VehicleAssignmentRequest) (string, error) {
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, request)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindRequestByID finds an assignment request by its ID.
func (c *MongoAssignmentCollection) FindRequestByID(ctx context.Context, id string) (*models.VehicleAssignmentRequest, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var request models.VehicleAssignmentRequest
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&request); err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateRequest replaces an assignment request by its ID.
func (c *MongoAssignmentCollection) UpdateRequest(ctx context.Context, id string, request models.VehicleAssignmentRequest) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	request.ID = objectID
	request.UpdatedAt = time.Now()
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, request)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindPendingByVehicleAndSchool returns the PENDING request for a
// (vehicle, school) pair, or (nil, nil) when none exists.
func (c *MongoAssignmentCollection) FindPendingByVehicleAndSchool(ctx context.Context, vehicleID, schoolID string) (*models.VehicleAssignmentRequest, error) {
	var request models.VehicleAssignmentRequest
	err := c.Collection.FindOne(ctx, bson.M{
		"vehicle_id": vehicleID,
		"school_id":  schoolID,
		"status":     models.AssignmentPending,
	}).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingBySchool returns a school's PENDING requests in insertion order.
func (c *MongoAssignmentCollection) FindPendingBySchool(ctx context.Context, schoolID string) ([]models.VehicleAssignmentRequest, error) {
	return c.find(ctx, bson.M{"school_id": schoolID, "status": models.AssignmentPending})
}

// FindByOwner returns all of an owner's requests in insertion order.
func (c *MongoAssignmentCollection) FindByOwner(ctx context.Context, ownerID string) ([]models.VehicleAssignmentRequest, error) {
	return c.find(ctx, bson.M{"owner_id": ownerID})
}

func (c *MongoAssignmentCollection) find(ctx context.Context, filter bson.M) ([]models.VehicleAssignmentRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var requests []models.VehicleAssignmentRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// MongoSchoolVehicleCollection implements SchoolVehicleCollection for MongoDB.
type MongoSchoolVehicleCollection struct {
	Collection *mongo.Collection
}

// InsertMapping inserts a school-vehicle mapping and returns its generated id.
func (c *MongoSchoolVehicleCollection) InsertMapping(ctx context.Context, mapping models.SchoolVehicle) (string, error) {
	mapping.CreatedAt = time.Now()
	mapping.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, mapping)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindMapping returns the mapping for a (school, vehicle) pair whether
// active or not, or (nil, nil) when none exists.
func (c *MongoSchoolVehicleCollection) FindMapping(ctx context.Context, schoolID, vehicleID string) (*models.SchoolVehicle, error) {
	var mapping models.SchoolVehicle
	err := c.Collection.FindOne(ctx, bson.M{
		"school_id":  schoolID,
		"vehicle_id": vehicleID,
	}).Decode(&mapping)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// SetMappingActive flips a mapping's active flag.
func (c *MongoSchoolVehicleCollection) SetMappingActive(ctx context.Context, id string, active bool) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"is_active": active, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
