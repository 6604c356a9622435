package service

import (
	"context"

	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/models"
)

// TripService seeds and reads trips. Status changes go through the
// ledger, never through this service.
type TripService struct {
	trips    db.TripCollection
	schools  db.SchoolCollection
	vehicles db.VehicleCollection
}

// NewTripService creates a trip service over the given collections.
func NewTripService(trips db.TripCollection, schools db.SchoolCollection, vehicles db.VehicleCollection) *TripService {
	return &TripService{trips: trips, schools: schools, vehicles: vehicles}
}

// Create registers a trip. (School, vehicle, number) must be unique.
func (s *TripService) Create(ctx context.Context, req models.CreateTripRequest) (*models.Trip, error) {
	school, err := s.schools.FindSchoolByID(ctx, req.SchoolID)
	if err != nil || !school.IsActive {
		return nil, notFound("school", req.SchoolID)
	}
	vehicle, err := s.vehicles.FindVehicleByID(ctx, req.VehicleID)
	if err != nil || !vehicle.IsActive {
		return nil, notFound("vehicle", req.VehicleID)
	}
	if existing, err := s.trips.FindTripByNumber(ctx, req.SchoolID, req.VehicleID, req.Number); err == nil && existing != nil {
		return nil, conflict("trip number %s already exists for this school and vehicle", req.Number)
	}

	trip := models.Trip{
		SchoolID:    req.SchoolID,
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		Name:        req.Name,
		Number:      req.Number,
		Type:        req.Type,
		ScheduledAt: req.ScheduledAt,
		Status:      models.TripNotStarted,
		IsActive:    true,
	}
	id, err := s.trips.InsertTrip(ctx, trip)
	if err != nil {
		return nil, err
	}
	return s.trips.FindTripByID(ctx, id)
}

// Get returns a trip by id.
func (s *TripService) Get(ctx context.Context, id string) (*models.Trip, error) {
	trip, err := s.trips.FindTripByID(ctx, id)
	if err != nil {
		return nil, notFound("trip", id)
	}
	return trip, nil
}
