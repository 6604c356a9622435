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

// TripCollection defines the interface for trip data operations.
type TripCollection interface {
	InsertTrip(ctx context.Context, trip models.Trip) (string, error)
	FindTripByID(ctx context.Context, id string) (*models.Trip, error)
	FindTripByNumber(ctx context.Context, schoolID, vehicleID, number string) (*models.Trip, error)
	UpdateTripStatus(ctx context.Context, id string, status models.TripStatusValue, start, end *time.Time) error
}

// TripStatusCollection defines the interface for status ledger operations.
type TripStatusCollection interface {
	InsertEntry(ctx context.Context, entry models.TripStatusEntry) (string, error)
	UpdateEntry(ctx context.Context, id string, entry models.TripStatusEntry) error
	FindLatestByTrip(ctx context.Context, tripID string) (*models.TripStatusEntry, error)
	FindByTrip(ctx context.Context, tripID string) ([]models.TripStatusEntry, error)
}

// MongoTripCollection implements TripCollection for MongoDB.
type MongoTripCollection struct {
	Collection *mongo.Collection
}

// InsertTrip inserts a trip and returns its generated id.
func (c *MongoTripCollection) InsertTrip(ctx context.Context, trip models.Trip) (string, error) {
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, trip)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindTripByID finds a trip by its ID.
func (c *MongoTripCollection) FindTripByID(ctx context.Context, id string) (*models.Trip, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var trip models.Trip
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// FindTripByNumber finds a trip by its unique (school, vehicle, number) key.
func (c *MongoTripCollection) FindTripByNumber(ctx context.Context, schoolID, vehicleID, number string) (*models.Trip, error) {
	var trip models.Trip
	err := c.Collection.FindOne(ctx, bson.M{
		"school_id":  schoolID,
		"vehicle_id": vehicleID,
		"number":     number,
	}).Decode(&trip)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// UpdateTripStatus mirrors the latest ledger state onto the trip document.
func (c *MongoTripCollection) UpdateTripStatus(ctx context.Context, id string, status models.TripStatusValue, start, end *time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	set := bson.M{"status": status, "updated_at": time.Now()}
	if start != nil {
		set["start_time"] = *start
	}
	if end != nil {
		set["end_time"] = *end
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MongoTripStatusCollection implements TripStatusCollection for MongoDB.
type MongoTripStatusCollection struct {
	Collection *mongo.Collection
}

// InsertEntry inserts a ledger entry and returns its generated id.
func (c *MongoTripStatusCollection) InsertEntry(ctx context.Context, entry models.TripStatusEntry) (string, error) {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, entry)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// UpdateEntry replaces an unsealed ledger entry.
func (c *MongoTripStatusCollection) UpdateEntry(ctx context.Context, id string, entry models.TripStatusEntry) error {
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

// FindLatestByTrip returns the entry with the maximum status_time for a
// trip, ties broken by highest _id (most recently inserted). Returns
// (nil, nil) when the trip has no entries yet.
func (c *MongoTripStatusCollection) FindLatestByTrip(ctx context.Context, tripID string) (*models.TripStatusEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "status_time", Value: -1}, {Key: "_id", Value: -1}})
	var entry models.TripStatusEntry
	err := c.Collection.FindOne(ctx, bson.M{"trip_id": tripID}, opts).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByTrip returns the full ledger for a trip, newest first.
func (c *MongoTripStatusCollection) FindByTrip(ctx context.Context, tripID string) ([]models.TripStatusEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "status_time", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"trip_id": tripID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var entries []models.TripStatusEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
