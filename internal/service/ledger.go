package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripStatusLedger is the append-only history of a trip's lifecycle
// transitions. The entry with the maximum status time is the trip's
// current status. An entry stays mutable while at most one of its time
// boundaries is set; once both are set it is sealed and further
// transitions append new entries.
type TripStatusLedger struct {
	trips   db.TripCollection
	entries db.TripStatusCollection
}

// NewTripStatusLedger creates a ledger over the given collections.
func NewTripStatusLedger(trips db.TripCollection, entries db.TripStatusCollection) *TripStatusLedger {
	return &TripStatusLedger{trips: trips, entries: entries}
}

// RecordStatus records a status transition for a trip. StatusTime
// defaults to now. Whenever both boundaries are present the
// whole-minute duration is recomputed; a negative duration is kept
// as-is when end precedes start. The latest entry is mutated in place
// when it is unsealed and carries the same status; otherwise a new
// entry is appended.
func (l *TripStatusLedger) RecordStatus(ctx context.Context, tripID string, req models.RecordTripStatusRequest) (*models.TripStatusEntry, error) {
	if !models.IsValidTripStatus(req.Status) {
		return nil, conflict("invalid trip status %q", req.Status)
	}

	trip, err := l.trips.FindTripByID(ctx, tripID)
	if err != nil {
		return nil, notFound("trip", tripID)
	}

	statusTime := time.Now()
	if req.StatusTime != nil {
		statusTime = *req.StatusTime
	}

	latest, err := l.entries.FindLatestByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if latest != nil && !latest.Sealed() && latest.Status == req.Status {
		latest.StatusTime = statusTime
		if req.StartTime != nil {
			latest.StartTime = req.StartTime
		}
		if req.EndTime != nil {
			latest.EndTime = req.EndTime
		}
		if req.CreatedBy != "" {
			latest.CreatedBy = req.CreatedBy
		}
		recomputeDuration(latest)
		if err := l.entries.UpdateEntry(ctx, latest.ID.Hex(), *latest); err != nil {
			return nil, err
		}
		l.mirrorTrip(ctx, trip, latest)
		return latest, nil
	}

	entry := models.TripStatusEntry{
		TripID:     tripID,
		Status:     req.Status,
		StatusTime: statusTime,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		CreatedBy:  req.CreatedBy,
	}
	recomputeDuration(&entry)

	id, err := l.entries.InsertEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		entry.ID = oid
	}
	l.mirrorTrip(ctx, trip, &entry)
	return &entry, nil
}

// LatestStatus returns the entry with the maximum status time for a
// trip, ties broken by most recent insertion.
func (l *TripStatusLedger) LatestStatus(ctx context.Context, tripID string) (*models.TripStatusEntry, error) {
	if _, err := l.trips.FindTripByID(ctx, tripID); err != nil {
		return nil, notFound("trip", tripID)
	}
	entry, err := l.entries.FindLatestByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, notFound("trip status for trip", tripID)
	}
	return entry, nil
}

// History returns a trip's full ledger, newest first.
func (l *TripStatusLedger) History(ctx context.Context, tripID string) ([]models.TripStatusEntry, error) {
	if _, err := l.trips.FindTripByID(ctx, tripID); err != nil {
		return nil, notFound("trip", tripID)
	}
	return l.entries.FindByTrip(ctx, tripID)
}

// mirrorTrip copies the latest ledger state onto the trip document as a
// convenience read; the ledger stays authoritative, so a mirror failure
// is logged rather than failing the transition.
func (l *TripStatusLedger) mirrorTrip(ctx context.Context, trip *models.Trip, entry *models.TripStatusEntry) {
	if err := l.trips.UpdateTripStatus(ctx, trip.ID.Hex(), entry.Status, entry.StartTime, entry.EndTime); err != nil {
		log.WithFields(log.Fields{
			"trip_id": trip.ID.Hex(),
			"status":  entry.Status,
		}).WithError(err).Warn("Failed to mirror trip status")
	}
}

// recomputeDuration sets TotalTimeMinutes to the whole-minute
// difference end-start when both boundaries are present, and clears it
// otherwise. End before start yields a negative duration.
func recomputeDuration(entry *models.TripStatusEntry) {
	if entry.StartTime == nil || entry.EndTime == nil {
		entry.TotalTimeMinutes = nil
		return
	}
	minutes := int64(entry.EndTime.Sub(*entry.StartTime) / time.Minute)
	entry.TotalTimeMinutes = &minutes
}
