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

// DispatchLogCollection defines the interface for dispatch log operations.
// Dispatch logs are an audit trail: there is no delete.
type DispatchLogCollection interface {
	InsertDispatchLog(ctx context.Context, entry models.DispatchLog) (string, error)
	FindDispatchLogByID(ctx context.Context, id string) (*models.DispatchLog, error)
	UpdateDispatchLog(ctx context.Context, id string, entry models.DispatchLog) error
	FindByTrip(ctx context.Context, tripID string) ([]models.DispatchLog, error)
	FindByVehicle(ctx context.Context, vehicleID string) ([]models.DispatchLog, error)
}

// MongoDispatchLogCollection implements DispatchLogCollection for MongoDB.
type MongoDispatchLogCollection struct {
	Collection *mongo.Collection
}

// InsertDispatchLog inserts a dispatch log and returns its generated id.
func (c *MongoDispatchLogCollection) InsertDispatchLog(ctx context.Context, entry models.DispatchLog) (string, error) {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, entry)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindDispatchLogByID finds a dispatch log by its ID.
func (c *MongoDispatchLogCollection) FindDispatchLogByID(ctx context.Context, id string) (*models.DispatchLog, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var entry models.DispatchLog
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateDispatchLog replaces a dispatch log by its ID.
func (c *MongoDispatchLogCollection) UpdateDispatchLog(ctx context.Context, id string, entry models.DispatchLog) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	entry.ID = objectID
	entry.UpdatedAt = time.Now()
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, entry)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindByTrip returns a trip's dispatch logs in insertion order.
func (c *MongoDispatchLogCollection) FindByTrip(ctx context.Context, tripID string) ([]models.DispatchLog, error) {
	return c.find(ctx, bson.M{"trip_id": tripID})
}

// FindByVehicle returns a vehicle's dispatch logs in insertion order.
func (c *MongoDispatchLogCollection) FindByVehicle(ctx context.Context, vehicleID string) ([]models.DispatchLog, error) {
	return c.find(ctx, bson.M{"vehicle_id": vehicleID})
}

func (c *MongoDispatchLogCollection) find(ctx context.Context, filter bson.M) ([]models.DispatchLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var entries []models.DispatchLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
