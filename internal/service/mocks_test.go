package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/school-transit/internal/fanout"
	"github.com/ukydev/school-transit/internal/models"
)

// Shared mock collections for the service tests.

type MockTripCollection struct {
	mock.Mock
}

func (m *MockTripCollection) InsertTrip(ctx context.Context, trip models.Trip) (string, error) {
	args := m.Called(ctx, trip)
	return args.String(0), args.Error(1)
}

func (m *MockTripCollection) FindTripByID(ctx context.Context, id string) (*models.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripCollection) FindTripByNumber(ctx context.Context, schoolID, vehicleID, number string) (*models.Trip, error) {
	args := m.Called(ctx, schoolID, vehicleID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripCollection) UpdateTripStatus(ctx context.Context, id string, status models.TripStatusValue, start, end *time.Time) error {
	args := m.Called(ctx, id, status, start, end)
	return args.Error(0)
}

type MockTripStatusCollection struct {
	mock.Mock
}

func (m *MockTripStatusCollection) InsertEntry(ctx context.Context, entry models.TripStatusEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *MockTripStatusCollection) UpdateEntry(ctx context.Context, id string, entry models.TripStatusEntry) error {
	args := m.Called(ctx, id, entry)
	return args.Error(0)
}

func (m *MockTripStatusCollection) FindLatestByTrip(ctx context.Context, tripID string) (*models.TripStatusEntry, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TripStatusEntry), args.Error(1)
}

func (m *MockTripStatusCollection) FindByTrip(ctx context.Context, tripID string) ([]models.TripStatusEntry, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TripStatusEntry), args.Error(1)
}

type MockDispatchLogCollection struct {
	mock.Mock
}

func (m *MockDispatchLogCollection) InsertDispatchLog(ctx context.Context, entry models.DispatchLog) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *MockDispatchLogCollection) FindDispatchLogByID(ctx context.Context, id string) (*models.DispatchLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DispatchLog), args.Error(1)
}

func (m *MockDispatchLogCollection) UpdateDispatchLog(ctx context.Context, id string, entry models.DispatchLog) error {
	args := m.Called(ctx, id, entry)
	return args.Error(0)
}

func (m *MockDispatchLogCollection) FindByTrip(ctx context.Context, tripID string) ([]models.DispatchLog, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DispatchLog), args.Error(1)
}

func (m *MockDispatchLogCollection) FindByVehicle(ctx context.Context, vehicleID string) ([]models.DispatchLog, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DispatchLog), args.Error(1)
}

type MockNotificationCollection struct {
	mock.Mock
}

func (m *MockNotificationCollection) InsertNotification(ctx context.Context, notification models.Notification) (string, error) {
	args := m.Called(ctx, notification)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationCollection) FindNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationCollection) UpdateNotification(ctx context.Context, id string, notification models.Notification) error {
	args := m.Called(ctx, id, notification)
	return args.Error(0)
}

func (m *MockNotificationCollection) FindByDispatchLog(ctx context.Context, dispatchLogID string) ([]models.Notification, error) {
	args := m.Called(ctx, dispatchLogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

type MockAssignmentCollection struct {
	mock.Mock
}

func (m *MockAssignmentCollection) InsertRequest(ctx context.Context, request models.VehicleAssignmentRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *MockAssignmentCollection) FindRequestByID(ctx context.Context, id string) (*models.VehicleAssignmentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VehicleAssignmentRequest), args.Error(1)
}

func (m *MockAssignmentCollection) UpdateRequest(ctx context.Context, id string, request models.VehicleAssignmentRequest) error {
	args := m.Called(ctx, id, request)
	return args.Error(0)
}

func (m *MockAssignmentCollection) FindPendingByVehicleAndSchool(ctx context.Context, vehicleID, schoolID string) (*models.VehicleAssignmentRequest, error) {
	args := m.Called(ctx, vehicleID, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VehicleAssignmentRequest), args.Error(1)
}

func (m *MockAssignmentCollection) FindPendingBySchool(ctx context.Context, schoolID string) ([]models.VehicleAssignmentRequest, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VehicleAssignmentRequest), args.Error(1)
}

func (m *MockAssignmentCollection) FindByOwner(ctx context.Context, ownerID string) ([]models.VehicleAssignmentRequest, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VehicleAssignmentRequest), args.Error(1)
}

type MockSchoolVehicleCollection struct {
	mock.Mock
}

func (m *MockSchoolVehicleCollection) InsertMapping(ctx context.Context, mapping models.SchoolVehicle) (string, error) {
	args := m.Called(ctx, mapping)
	return args.String(0), args.Error(1)
}

func (m *MockSchoolVehicleCollection) FindMapping(ctx context.Context, schoolID, vehicleID string) (*models.SchoolVehicle, error) {
	args := m.Called(ctx, schoolID, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SchoolVehicle), args.Error(1)
}

func (m *MockSchoolVehicleCollection) SetMappingActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type MockSchoolCollection struct {
	mock.Mock
}

func (m *MockSchoolCollection) InsertSchool(ctx context.Context, school models.School) (string, error) {
	args := m.Called(ctx, school)
	return args.String(0), args.Error(1)
}

func (m *MockSchoolCollection) FindSchoolByID(ctx context.Context, id string) (*models.School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.School), args.Error(1)
}

type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	args := m.Called(ctx, vehicle)
	return args.String(0), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByRegistration(ctx context.Context, registration string) (*models.Vehicle, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

type MockDriverCollection struct {
	mock.Mock
}

func (m *MockDriverCollection) InsertDriver(ctx context.Context, driver models.Driver) (string, error) {
	args := m.Called(ctx, driver)
	return args.String(0), args.Error(1)
}

func (m *MockDriverCollection) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

type MockStudentCollection struct {
	mock.Mock
}

func (m *MockStudentCollection) InsertStudent(ctx context.Context, student models.Student) (string, error) {
	args := m.Called(ctx, student)
	return args.String(0), args.Error(1)
}

func (m *MockStudentCollection) FindStudentByID(ctx context.Context, id string) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

// MockNotifier records fan-out calls and returns a canned delivery.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ToUser(n models.RealtimeNotification, userID string) fanout.Delivery {
	args := m.Called(n, userID)
	return args.Get(0).(fanout.Delivery)
}

func (m *MockNotifier) ToRole(n models.RealtimeNotification, role string) fanout.Delivery {
	args := m.Called(n, role)
	return args.Get(0).(fanout.Delivery)
}

func (m *MockNotifier) ToSchool(n models.RealtimeNotification, schoolID string) fanout.Delivery {
	args := m.Called(n, schoolID)
	return args.Get(0).(fanout.Delivery)
}

func (m *MockNotifier) ToAll(n models.RealtimeNotification) fanout.Delivery {
	args := m.Called(n)
	return args.Get(0).(fanout.Delivery)
}
