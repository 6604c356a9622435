package service

import (
	"context"

	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/models"
)

// DispatchLogService records gate and pickup/drop events. Every
// reference is resolved before the first write, so a failed lookup
// leaves no partial record behind.
type DispatchLogService struct {
	logs     db.DispatchLogCollection
	trips    db.TripCollection
	students db.StudentCollection
	schools  db.SchoolCollection
	vehicles db.VehicleCollection
	drivers  db.DriverCollection
}

// NewDispatchLogService creates a dispatch log service over the given
// collections.
func NewDispatchLogService(logs db.DispatchLogCollection, trips db.TripCollection,
	students db.StudentCollection, schools db.SchoolCollection,
	vehicles db.VehicleCollection, drivers db.DriverCollection) *DispatchLogService {
	return &DispatchLogService{
		logs:     logs,
		trips:    trips,
		students: students,
		schools:  schools,
		vehicles: vehicles,
		drivers:  drivers,
	}
}

// Create validates all references and persists a dispatch log. The
// first failing reference aborts the whole operation naming the missing
// entity; nothing is written in that case.
func (s *DispatchLogService) Create(ctx context.Context, req models.CreateDispatchLogRequest) (*models.DispatchLog, error) {
	if !models.IsValidDispatchEventType(req.EventType) {
		return nil, conflict("invalid event type %q", req.EventType)
	}
	if err := s.validateRefs(ctx, req.TripID, req.StudentID, req.SchoolID, req.VehicleID, req.DriverID); err != nil {
		return nil, err
	}

	entry := models.DispatchLog{
		TripID:    req.TripID,
		StudentID: req.StudentID,
		SchoolID:  req.SchoolID,
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		EventType: req.EventType,
		Remarks:   req.Remarks,
		Address:   req.Address,
		CreatedBy: req.CreatedBy,
	}
	if req.Lat != nil && req.Lon != nil {
		entry.Coordinates = &models.Location{Lat: *req.Lat, Lon: *req.Lon}
	}

	id, err := s.logs.InsertDispatchLog(ctx, entry)
	if err != nil {
		return nil, err
	}
	return s.logs.FindDispatchLogByID(ctx, id)
}

// Update corrects remarks and metadata on an existing log. A newly
// supplied driver reference is re-validated; event semantics are
// frozen.
func (s *DispatchLogService) Update(ctx context.Context, id string, req models.UpdateDispatchLogRequest) (*models.DispatchLog, error) {
	entry, err := s.logs.FindDispatchLogByID(ctx, id)
	if err != nil {
		return nil, notFound("dispatch log", id)
	}

	if req.DriverID != nil && *req.DriverID != "" {
		if driver, err := s.drivers.FindDriverByID(ctx, *req.DriverID); err != nil || !driver.IsActive {
			return nil, notFound("driver", *req.DriverID)
		}
		entry.DriverID = *req.DriverID
	}
	if req.Remarks != nil {
		entry.Remarks = *req.Remarks
	}
	if req.Lat != nil && req.Lon != nil {
		entry.Coordinates = &models.Location{Lat: *req.Lat, Lon: *req.Lon}
	}
	if req.Address != nil {
		entry.Address = *req.Address
	}
	entry.UpdatedBy = req.UpdatedBy

	if err := s.logs.UpdateDispatchLog(ctx, id, *entry); err != nil {
		return nil, err
	}
	return s.logs.FindDispatchLogByID(ctx, id)
}

// ListByTrip returns a trip's dispatch logs in stable insertion order.
func (s *DispatchLogService) ListByTrip(ctx context.Context, tripID string) ([]models.DispatchLog, error) {
	return s.logs.FindByTrip(ctx, tripID)
}

// ListByVehicle returns a vehicle's dispatch logs in stable insertion order.
func (s *DispatchLogService) ListByVehicle(ctx context.Context, vehicleID string) ([]models.DispatchLog, error) {
	return s.logs.FindByVehicle(ctx, vehicleID)
}

// validateRefs resolves every reference in order; the first failure
// names the missing entity. Inactive entities are treated as missing.
func (s *DispatchLogService) validateRefs(ctx context.Context, tripID, studentID, schoolID, vehicleID, driverID string) error {
	trip, err := s.trips.FindTripByID(ctx, tripID)
	if err != nil || !trip.IsActive {
		return notFound("trip", tripID)
	}
	student, err := s.students.FindStudentByID(ctx, studentID)
	if err != nil || !student.IsActive {
		return notFound("student", studentID)
	}
	school, err := s.schools.FindSchoolByID(ctx, schoolID)
	if err != nil || !school.IsActive {
		return notFound("school", schoolID)
	}
	vehicle, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil || !vehicle.IsActive {
		return notFound("vehicle", vehicleID)
	}
	if driverID != "" {
		driver, err := s.drivers.FindDriverByID(ctx, driverID)
		if err != nil || !driver.IsActive {
			return notFound("driver", driverID)
		}
	}
	return nil
}
