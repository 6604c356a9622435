package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/school-transit/internal/fanout"
	"github.com/ukydev/school-transit/internal/models"
	"github.com/ukydev/school-transit/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockDispatchLogCollection is a mock implementation of db.DispatchLogCollection.
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

// MockStudentCollection is a mock implementation of db.StudentCollection.
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

// MockDriverCollection is a mock implementation of db.DriverCollection.
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

// MockNotificationCollection is a mock implementation of db.NotificationCollection.
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

// stubNotifier reports every delivery as successful.
type stubNotifier struct{}

func (stubNotifier) ToUser(n models.RealtimeNotification, userID string) fanout.Delivery {
	return fanout.Delivery{Scope: fanout.ScopeUser, Payload: n, Delivered: true}
}

func (stubNotifier) ToRole(n models.RealtimeNotification, role string) fanout.Delivery {
	return fanout.Delivery{Scope: fanout.ScopeRole, Payload: n, Delivered: true}
}

func (stubNotifier) ToSchool(n models.RealtimeNotification, schoolID string) fanout.Delivery {
	return fanout.Delivery{Scope: fanout.ScopeSchool, Payload: n, Delivered: true}
}

func (stubNotifier) ToAll(n models.RealtimeNotification) fanout.Delivery {
	return fanout.Delivery{Scope: fanout.ScopeAll, Payload: n, Delivered: true}
}

type dispatchHandlerMocks struct {
	logs          *MockDispatchLogCollection
	trips         *MockTripCollection
	statuses      *MockTripStatusCollection
	students      *MockStudentCollection
	schools       *MockSchoolCollection
	vehicles      *MockVehicleCollection
	drivers       *MockDriverCollection
	notifications *MockNotificationCollection
}

func dispatchRouter() (chi.Router, *dispatchHandlerMocks) {
	m := &dispatchHandlerMocks{
		logs:          new(MockDispatchLogCollection),
		trips:         new(MockTripCollection),
		statuses:      new(MockTripStatusCollection),
		students:      new(MockStudentCollection),
		schools:       new(MockSchoolCollection),
		vehicles:      new(MockVehicleCollection),
		drivers:       new(MockDriverCollection),
		notifications: new(MockNotificationCollection),
	}
	dispatchService := service.NewDispatchLogService(m.logs, m.trips, m.students, m.schools, m.vehicles, m.drivers)
	ledger := service.NewTripStatusLedger(m.trips, m.statuses)
	store := service.NewNotificationStore(m.notifications, m.logs)
	orchestrator := service.NewOrchestrator(dispatchService, ledger, store, stubNotifier{}, m.students)
	handler := NewDispatchHandler(orchestrator, dispatchService)

	r := chi.NewRouter()
	r.Post("/api/dispatch-logs/create", handler.Create)
	r.Get("/api/dispatch-logs/trip/{tripId}", handler.ListByTrip)
	r.Post("/api/gate-staff/mark-entry", handler.MarkEntry)
	r.Post("/api/gate-staff/mark-exit", handler.MarkExit)
	return r, m
}

func (m *dispatchHandlerMocks) expectSuccessfulGateExit(trip *models.Trip, entryID, recordID primitive.ObjectID) {
	m.trips.On("FindTripByID", mock.Anything, trip.ID.Hex()).Return(trip, nil)
	m.students.On("FindStudentByID", mock.Anything, "student-1").Return(&models.Student{IsActive: true}, nil)
	m.schools.On("FindSchoolByID", mock.Anything, "school-1").Return(&models.School{IsActive: true}, nil)
	m.vehicles.On("FindVehicleByID", mock.Anything, "vehicle-1").Return(&models.Vehicle{IsActive: true}, nil)
	m.logs.On("InsertDispatchLog", mock.Anything, mock.AnythingOfType("models.DispatchLog")).Return(entryID.Hex(), nil)
	m.logs.On("FindDispatchLogByID", mock.Anything, entryID.Hex()).
		Return(&models.DispatchLog{ID: entryID, EventType: models.EventGateExit}, nil)
	m.notifications.On("InsertNotification", mock.Anything, mock.Anything).Return(recordID.Hex(), nil)
	m.notifications.On("FindNotificationByID", mock.Anything, recordID.Hex()).
		Return(&models.Notification{ID: recordID}, nil)
	m.notifications.On("UpdateNotification", mock.Anything, recordID.Hex(), mock.Anything).Return(nil)
}

func gateBody(t *testing.T, tripID string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"tripId":    tripID,
		"studentId": "student-1",
		"schoolId":  "school-1",
		"vehicleId": "vehicle-1",
		"createdBy": "gate-staff-1",
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestDispatchHandler_MarkExit(t *testing.T) {
	t.Run("records the gate exit", func(t *testing.T) {
		router, m := dispatchRouter()
		trip := &models.Trip{ID: primitive.NewObjectID(), IsActive: true}
		m.expectSuccessfulGateExit(trip, primitive.NewObjectID(), primitive.NewObjectID())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/gate-staff/mark-exit", gateBody(t, trip.ID.Hex())))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, decodeEnvelope(t, rec).Success)
	})

	t.Run("unknown trip is a 404 and writes nothing", func(t *testing.T) {
		router, m := dispatchRouter()
		m.trips.On("FindTripByID", mock.Anything, "missing").Return(nil, assert.AnError)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/gate-staff/mark-exit", gateBody(t, "missing")))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		m.logs.AssertNotCalled(t, "InsertDispatchLog", mock.Anything, mock.Anything)
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		router, m := dispatchRouter()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/gate-staff/mark-entry",
			bytes.NewReader([]byte(`{"tripId":"t1"}`))))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.trips.AssertNotCalled(t, "FindTripByID", mock.Anything, mock.Anything)
	})
}

func TestDispatchHandler_Create(t *testing.T) {
	t.Run("routes gate events through the gate workflow", func(t *testing.T) {
		router, m := dispatchRouter()
		trip := &models.Trip{ID: primitive.NewObjectID(), IsActive: true}
		m.expectSuccessfulGateExit(trip, primitive.NewObjectID(), primitive.NewObjectID())

		body, _ := json.Marshal(map[string]interface{}{
			"tripId":    trip.ID.Hex(),
			"studentId": "student-1",
			"schoolId":  "school-1",
			"vehicleId": "vehicle-1",
			"eventType": "GATE_EXIT",
			"createdBy": "gate-staff-1",
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dispatch-logs/create", bytes.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code)
		// Gate exits never touch the status ledger.
		m.statuses.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
	})
}

func TestDispatchHandler_ListByTrip(t *testing.T) {
	router, m := dispatchRouter()
	now := time.Now()
	m.logs.On("FindByTrip", mock.Anything, "trip-1").Return([]models.DispatchLog{
		{EventType: models.EventGateEntry, CreatedAt: now},
		{EventType: models.EventDropToSchool, CreatedAt: now},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dispatch-logs/trip/trip-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	logs, ok := env.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, logs, 2)
}
