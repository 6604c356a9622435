package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/school-transit/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reference-entity collections. The dispatch core only needs
// lookup-by-id against these; inserts exist so admins and the simulator
// can seed data.

// SchoolCollection defines the interface for school lookups.
type SchoolCollection interface {
	InsertSchool(ctx context.Context, school models.School) (string, error)
	FindSchoolByID(ctx context.Context, id string) (*models.School, error)
}

// VehicleCollection defines the interface for vehicle lookups.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicleByRegistration(ctx context.Context, registration string) (*models.Vehicle, error)
}

// DriverCollection defines the interface for driver lookups.
type DriverCollection interface {
	InsertDriver(ctx context.Context, driver models.Driver) (string, error)
	FindDriverByID(ctx context.Context, id string) (*models.Driver, error)
}

// StudentCollection defines the interface for student lookups.
type StudentCollection interface {
	InsertStudent(ctx context.Context, student models.Student) (string, error)
	FindStudentByID(ctx context.Context, id string) (*models.Student, error)
}

// MongoSchoolCollection implements SchoolCollection for MongoDB.
type MongoSchoolCollection struct {
	Collection *mongo.Collection
}

// InsertSchool inserts a school and returns its generated id.
func (c *MongoSchoolCollection) InsertSchool(ctx context.Context, school models.School) (string, error) {
	school.CreatedAt = time.Now()
	school.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, school)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindSchoolByID finds a school by its ID.
func (c *MongoSchoolCollection) FindSchoolByID(ctx context.Context, id string) (*models.School, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var school models.School
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&school); err != nil {
		return nil, err
	}
	return &school, nil
}

// MongoVehicleCollection implements VehicleCollection for MongoDB.
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

// InsertVehicle inserts a vehicle and returns its generated id.
func (c *MongoVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, vehicle)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindVehicleByID finds a vehicle by its ID.
func (c *MongoVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var vehicle models.Vehicle
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindVehicleByRegistration finds a vehicle by its registration number.
func (c *MongoVehicleCollection) FindVehicleByRegistration(ctx context.Context, registration string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := c.Collection.FindOne(ctx, bson.M{"registration_number": registration}).Decode(&vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// MongoDriverCollection implements DriverCollection for MongoDB.
type MongoDriverCollection struct {
	Collection *mongo.Collection
}

// InsertDriver inserts a driver and returns its generated id.
func (c *MongoDriverCollection) InsertDriver(ctx context.Context, driver models.Driver) (string, error) {
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, driver)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindDriverByID finds a driver by its ID.
func (c *MongoDriverCollection) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var driver models.Driver
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// MongoStudentCollection implements StudentCollection for MongoDB.
type MongoStudentCollection struct {
	Collection *mongo.Collection
}

// InsertStudent inserts a student and returns its generated id.
func (c *MongoStudentCollection) InsertStudent(ctx context.Context, student models.Student) (string, error) {
	student.CreatedAt = time.Now()
	student.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, student)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

// FindStudentByID finds a student by its ID.
func (c *MongoStudentCollection) FindStudentByID(ctx context.Context, id string) (*models.Student, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&student); err != nil {
		return nil, err
	}
	return &student, nil
}

func insertedHex(res *mongo.InsertOneResult) (string, error) {
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}
