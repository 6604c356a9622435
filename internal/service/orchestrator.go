package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/fanout"
	"github.com/ukydev/school-transit/internal/models"
)

// Notifier is the slice of the fan-out router the services need.
// Implementations return an explicit delivery result instead of an
// error; a failed delivery never aborts the caller.
type Notifier interface {
	ToUser(n models.RealtimeNotification, userID string) fanout.Delivery
	ToRole(n models.RealtimeNotification, role string) fanout.Delivery
	ToSchool(n models.RealtimeNotification, schoolID string) fanout.Delivery
	ToAll(n models.RealtimeNotification) fanout.Delivery
}

// Orchestrator composes the dispatch log, the status ledger, the
// fan-out router and the notification store into the gate and
// pickup/drop workflows. All referential validation happens before the
// first durable write; the fan-out call sits outside that boundary and
// can never roll a durable write back.
type Orchestrator struct {
	dispatch *DispatchLogService
	ledger   *TripStatusLedger
	store    *NotificationStore
	notifier Notifier
	students db.StudentCollection
}

// NewOrchestrator wires the orchestration service.
func NewOrchestrator(dispatch *DispatchLogService, ledger *TripStatusLedger,
	store *NotificationStore, notifier Notifier, students db.StudentCollection) *Orchestrator {
	return &Orchestrator{
		dispatch: dispatch,
		ledger:   ledger,
		store:    store,
		notifier: notifier,
		students: students,
	}
}

// LogGateEvent records a gate entry or exit: persist the dispatch log,
// advance the trip to IN_PROGRESS on the first gate entry, then notify
// the school channel and mirror a durable notification record with the
// delivery outcome.
func (o *Orchestrator) LogGateEvent(ctx context.Context, req models.GateEventRequest, eventType models.DispatchEventType) (*models.DispatchLog, error) {
	if eventType != models.EventGateEntry && eventType != models.EventGateExit {
		return nil, conflict("event type %q is not a gate event", eventType)
	}

	entry, err := o.dispatch.Create(ctx, models.CreateDispatchLogRequest{
		TripID:    req.TripID,
		StudentID: req.StudentID,
		SchoolID:  req.SchoolID,
		VehicleID: req.VehicleID,
		EventType: eventType,
		DriverID:  req.DriverID,
		Remarks:   req.Remarks,
		Lat:       req.Lat,
		Lon:       req.Lon,
		Address:   req.Address,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	if eventType == models.EventGateEntry {
		if err := o.startTripIfIdle(ctx, req.TripID, req.CreatedBy); err != nil {
			return nil, err
		}
	}

	notification := models.RealtimeNotification{
		Type:       notificationTypeFor(eventType),
		Title:      titleFor(eventType),
		Message:    fmt.Sprintf("Student %s: %s recorded for trip %s", req.StudentID, eventType, req.TripID),
		Priority:   models.PriorityMedium,
		TripID:     req.TripID,
		VehicleID:  req.VehicleID,
		StudentID:  req.StudentID,
		Action:     models.ActionCreate,
		EntityType: "dispatch_log",
		Data:       map[string]interface{}{"dispatch_log_id": entry.ID.Hex()},
	}
	delivery := o.notifier.ToSchool(notification, req.SchoolID)
	o.mirrorRecord(ctx, entry.ID.Hex(), notification.Type, req.CreatedBy, delivery)

	return entry, nil
}

// LogDispatchEvent records one of the pickup/drop events. The student's
// parent is notified on their private channel when a parent account is
// on file; otherwise the school channel is used.
func (o *Orchestrator) LogDispatchEvent(ctx context.Context, req models.CreateDispatchLogRequest) (*models.DispatchLog, error) {
	entry, err := o.dispatch.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	notification := models.RealtimeNotification{
		Type:       notificationTypeFor(req.EventType),
		Title:      titleFor(req.EventType),
		Message:    fmt.Sprintf("Student %s: %s recorded for trip %s", req.StudentID, req.EventType, req.TripID),
		Priority:   models.PriorityMedium,
		TripID:     req.TripID,
		VehicleID:  req.VehicleID,
		StudentID:  req.StudentID,
		Action:     models.ActionCreate,
		EntityType: "dispatch_log",
		Data:       map[string]interface{}{"dispatch_log_id": entry.ID.Hex()},
	}

	var delivery fanout.Delivery
	if parentID := o.parentFor(ctx, req.StudentID); parentID != "" {
		delivery = o.notifier.ToUser(notification, parentID)
	} else {
		delivery = o.notifier.ToSchool(notification, req.SchoolID)
	}
	o.mirrorRecord(ctx, entry.ID.Hex(), notification.Type, req.CreatedBy, delivery)

	return entry, nil
}

// startTripIfIdle appends an IN_PROGRESS ledger entry when the trip has
// no status yet or is still NOT_STARTED.
func (o *Orchestrator) startTripIfIdle(ctx context.Context, tripID, createdBy string) error {
	latest, err := o.ledger.entries.FindLatestByTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if latest != nil && latest.Status != models.TripNotStarted {
		return nil
	}
	now := time.Now()
	_, err = o.ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
		Status:     models.TripInProgress,
		StatusTime: &now,
		StartTime:  &now,
		CreatedBy:  createdBy,
	})
	return err
}

// mirrorRecord double-writes the notification into the durable store
// with the fan-out outcome. The mirror is an audit convenience: its
// failure is logged, never surfaced.
func (o *Orchestrator) mirrorRecord(ctx context.Context, dispatchLogID string, notificationType models.NotificationType, actor string, delivery fanout.Delivery) {
	record, err := o.store.Create(ctx, dispatchLogID, notificationType, actor)
	if err != nil {
		log.WithField("dispatch_log_id", dispatchLogID).WithError(err).Warn("Failed to mirror notification record")
		return
	}

	if delivery.Delivered {
		if _, err := o.store.MarkSent(ctx, record.ID.Hex(), actor); err != nil {
			log.WithField("notification_id", record.ID.Hex()).WithError(err).Warn("Failed to mark notification sent")
		}
		return
	}

	message := "delivery failed"
	if delivery.Err != nil {
		message = delivery.Err.Error()
	}
	if _, err := o.store.RecordError(ctx, record.ID.Hex(), message, actor); err != nil {
		log.WithField("notification_id", record.ID.Hex()).WithError(err).Warn("Failed to record delivery error")
	}
}

func (o *Orchestrator) parentFor(ctx context.Context, studentID string) string {
	student, err := o.students.FindStudentByID(ctx, studentID)
	if err != nil {
		return ""
	}
	return student.ParentUserID
}

func notificationTypeFor(eventType models.DispatchEventType) models.NotificationType {
	switch eventType {
	case models.EventGateEntry:
		return models.NotifyGateEntry
	case models.EventGateExit:
		return models.NotifyGateExit
	case models.EventPickupFromParent, models.EventPickupFromSchool:
		return models.NotifyPickup
	case models.EventDropToSchool, models.EventDropToParent:
		return models.NotifyDrop
	default:
		return models.NotifyGeneral
	}
}

func titleFor(eventType models.DispatchEventType) string {
	switch eventType {
	case models.EventGateEntry:
		return "Gate entry recorded"
	case models.EventGateExit:
		return "Gate exit recorded"
	case models.EventPickupFromParent, models.EventPickupFromSchool:
		return "Student picked up"
	case models.EventDropToSchool, models.EventDropToParent:
		return "Student dropped off"
	default:
		return "Dispatch event recorded"
	}
}
