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

// NotificationCollection defines the interface for durable notification
// record operations.
type NotificationCollection interface {
	InsertNotification(ctx context.Context, notification models.Notification) (string, error)
	FindNotificationByID(ctx context.Context, id string) (*models.Notification, error)
	UpdateNotification(ctx context.Context, id string, notification models.Notification) error
	FindByDispatchLog(ctx context.Context, dispatchLogID string) ([]models.Notification, error)
}

// MongoNotificationCollection implements NotificationCollection for MongoDB.
type MongoNotificationCollection struct {
	Collection *mongo.Collection
}

// InsertNotification inserts a notification record and returns its generated id.
func (c *MongoNotificationCollection) InsertNotification(ctx context.Context, notification models.Notification) (string, error) {
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, notification)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindNotificationByID finds a notification record by its ID.
func (c *MongoNotificationCollection) FindNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var notification models.Notification
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

// UpdateNotification replaces a notification record by its ID.
func (c *MongoNotificationCollection) UpdateNotification(ctx context.Context, id string, notification models.Notification) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	notification.ID = objectID
	notification.UpdatedAt = time.Now()
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, notification)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindByDispatchLog returns the notification records tied to a dispatch
// log in insertion order.
func (c *MongoNotificationCollection) FindByDispatchLog(ctx context.Context, dispatchLogID string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"dispatch_log_id": dispatchLogID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
