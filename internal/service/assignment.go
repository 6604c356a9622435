package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/models"
)

// AssignmentService runs the vehicle assignment request workflow:
// PENDING -> APPROVED or REJECTED. At most one PENDING request may
// exist per (vehicle, school) pair, and approval attaches the vehicle
// through the single school-vehicle mapping row for that pair.
type AssignmentService struct {
	requests db.AssignmentCollection
	mappings db.SchoolVehicleCollection
	vehicles db.VehicleCollection
	schools  db.SchoolCollection
	notifier Notifier
}

// NewAssignmentService creates an assignment service over the given
// collections and notifier.
func NewAssignmentService(requests db.AssignmentCollection, mappings db.SchoolVehicleCollection,
	vehicles db.VehicleCollection, schools db.SchoolCollection, notifier Notifier) *AssignmentService {
	return &AssignmentService{
		requests: requests,
		mappings: mappings,
		vehicles: vehicles,
		schools:  schools,
		notifier: notifier,
	}
}

// CreateRequest opens a PENDING assignment request. A second request
// for the same (vehicle, school) pair while one is still PENDING is a
// conflict.
func (s *AssignmentService) CreateRequest(ctx context.Context, req models.CreateAssignmentRequest) (*models.VehicleAssignmentRequest, error) {
	vehicle, err := s.vehicles.FindVehicleByID(ctx, req.VehicleID)
	if err != nil || !vehicle.IsActive {
		return nil, notFound("vehicle", req.VehicleID)
	}
	school, err := s.schools.FindSchoolByID(ctx, req.SchoolID)
	if err != nil || !school.IsActive {
		return nil, notFound("school", req.SchoolID)
	}

	existing, err := s.requests.FindPendingByVehicleAndSchool(ctx, req.VehicleID, req.SchoolID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("a pending assignment request already exists for vehicle %s and school %s", req.VehicleID, req.SchoolID)
	}

	request := models.VehicleAssignmentRequest{
		VehicleID: req.VehicleID,
		SchoolID:  req.SchoolID,
		OwnerID:   req.OwnerID,
		Status:    models.AssignmentPending,
		Remarks:   req.Remarks,
	}
	id, err := s.requests.InsertRequest(ctx, request)
	if err != nil {
		return nil, err
	}
	return s.requests.FindRequestByID(ctx, id)
}

// Approve moves a PENDING request to APPROVED and attaches the vehicle
// to the school. An existing mapping row for the pair is reactivated
// rather than duplicated.
func (s *AssignmentService) Approve(ctx context.Context, id string, req models.DecideAssignmentRequest) (*models.VehicleAssignmentRequest, error) {
	request, err := s.decide(ctx, id, models.AssignmentApproved, req)
	if err != nil {
		return nil, err
	}

	mapping, err := s.mappings.FindMapping(ctx, request.SchoolID, request.VehicleID)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		_, err = s.mappings.InsertMapping(ctx, models.SchoolVehicle{
			SchoolID:  request.SchoolID,
			VehicleID: request.VehicleID,
			IsActive:  true,
		})
		if err != nil {
			return nil, err
		}
	} else if !mapping.IsActive {
		if err := s.mappings.SetMappingActive(ctx, mapping.ID.Hex(), true); err != nil {
			return nil, err
		}
	}

	s.notifyOwner(request, "Vehicle assignment approved",
		fmt.Sprintf("Vehicle %s has been attached to school %s", request.VehicleID, request.SchoolID))
	return request, nil
}

// Reject moves a PENDING request to REJECTED; no mapping is created.
func (s *AssignmentService) Reject(ctx context.Context, id string, req models.DecideAssignmentRequest) (*models.VehicleAssignmentRequest, error) {
	request, err := s.decide(ctx, id, models.AssignmentRejected, req)
	if err != nil {
		return nil, err
	}

	s.notifyOwner(request, "Vehicle assignment rejected",
		fmt.Sprintf("The assignment request for vehicle %s was rejected", request.VehicleID))
	return request, nil
}

// PendingBySchool returns a school's PENDING requests.
func (s *AssignmentService) PendingBySchool(ctx context.Context, schoolID string) ([]models.VehicleAssignmentRequest, error) {
	return s.requests.FindPendingBySchool(ctx, schoolID)
}

// ByOwner returns all requests an owner has made.
func (s *AssignmentService) ByOwner(ctx context.Context, ownerID string) ([]models.VehicleAssignmentRequest, error) {
	return s.requests.FindByOwner(ctx, ownerID)
}

func (s *AssignmentService) decide(ctx context.Context, id string, status models.AssignmentStatus, req models.DecideAssignmentRequest) (*models.VehicleAssignmentRequest, error) {
	request, err := s.requests.FindRequestByID(ctx, id)
	if err != nil {
		return nil, notFound("assignment request", id)
	}
	if request.Status != models.AssignmentPending {
		return nil, conflict("assignment request %s is already %s", id, request.Status)
	}

	now := time.Now()
	request.Status = status
	request.DecidedBy = req.DecidedBy
	request.DecidedAt = &now
	if req.Remarks != "" {
		request.Remarks = req.Remarks
	}
	if err := s.requests.UpdateRequest(ctx, id, *request); err != nil {
		return nil, err
	}
	return request, nil
}

// notifyOwner fires the terminal-state notification to the vehicle
// owner role; delivery is best-effort and never fails the decision.
func (s *AssignmentService) notifyOwner(request *models.VehicleAssignmentRequest, title, message string) {
	s.notifier.ToRole(models.RealtimeNotification{
		Type:       models.NotifyVehicleAssignment,
		Title:      title,
		Message:    message,
		Priority:   models.PriorityMedium,
		SchoolID:   request.SchoolID,
		VehicleID:  request.VehicleID,
		Action:     models.ActionUpdate,
		EntityType: "vehicle_assignment",
		Data: map[string]interface{}{
			"request_id": request.ID.Hex(),
			"status":     string(request.Status),
		},
	}, string(models.RoleVehicleOwner))
}
