package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/school-transit/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func ledgerFixture() (*TripStatusLedger, *MockTripCollection, *MockTripStatusCollection, *models.Trip) {
	trips := new(MockTripCollection)
	entries := new(MockTripStatusCollection)
	trip := &models.Trip{
		ID:       primitive.NewObjectID(),
		SchoolID: "school-1",
		Status:   models.TripNotStarted,
		IsActive: true,
	}
	return NewTripStatusLedger(trips, entries), trips, entries, trip
}

func TestTripStatusLedger_RecordStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("appends first entry with defaulted status time", func(t *testing.T) {
		ledger, trips, entries, trip := ledgerFixture()
		tripID := trip.ID.Hex()

		trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
		trips.On("UpdateTripStatus", mock.Anything, tripID, models.TripInProgress, mock.Anything, mock.Anything).Return(nil)
		entries.On("FindLatestByTrip", mock.Anything, tripID).Return(nil, nil)
		entries.On("InsertEntry", mock.Anything, mock.AnythingOfType("models.TripStatusEntry")).
			Return(primitive.NewObjectID().Hex(), nil)

		before := time.Now()
		entry, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
			Status:    models.TripInProgress,
			CreatedBy: "gate-staff-1",
		})
		require.NoError(t, err)

		assert.Equal(t, models.TripInProgress, entry.Status)
		assert.False(t, entry.StatusTime.Before(before))
		assert.Nil(t, entry.TotalTimeMinutes)
		assert.False(t, entry.ID.IsZero())
		entries.AssertCalled(t, "InsertEntry", mock.Anything, mock.AnythingOfType("models.TripStatusEntry"))
	})

	t.Run("rejects unknown trip", func(t *testing.T) {
		ledger, trips, entries, _ := ledgerFixture()
		trips.On("FindTripByID", mock.Anything, "missing").Return(nil, assert.AnError)

		_, err := ledger.RecordStatus(ctx, "missing", models.RecordTripStatusRequest{Status: models.TripCompleted})
		assert.True(t, IsNotFound(err))
		entries.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid status value", func(t *testing.T) {
		ledger, trips, _, _ := ledgerFixture()

		_, err := ledger.RecordStatus(ctx, "any", models.RecordTripStatusRequest{Status: "TELEPORTING"})
		assert.True(t, IsConflict(err))
		trips.AssertNotCalled(t, "FindTripByID", mock.Anything, mock.Anything)
	})

	t.Run("computes whole-minute duration when both boundaries set", func(t *testing.T) {
		ledger, trips, entries, trip := ledgerFixture()
		tripID := trip.ID.Hex()
		start := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
		end := start.Add(42*time.Minute + 50*time.Second)

		trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
		trips.On("UpdateTripStatus", mock.Anything, tripID, models.TripCompleted, &start, &end).Return(nil)
		entries.On("FindLatestByTrip", mock.Anything, tripID).Return(nil, nil)
		entries.On("InsertEntry", mock.Anything, mock.AnythingOfType("models.TripStatusEntry")).
			Return(primitive.NewObjectID().Hex(), nil)

		entry, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
			Status:    models.TripCompleted,
			StartTime: &start,
			EndTime:   &end,
		})
		require.NoError(t, err)
		require.NotNil(t, entry.TotalTimeMinutes)
		// Seconds are truncated, not rounded.
		assert.Equal(t, int64(42), *entry.TotalTimeMinutes)
	})

	t.Run("keeps negative duration when end precedes start", func(t *testing.T) {
		ledger, trips, entries, trip := ledgerFixture()
		tripID := trip.ID.Hex()
		start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		end := start.Add(-30 * time.Minute)

		trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
		trips.On("UpdateTripStatus", mock.Anything, tripID, models.TripCompleted, &start, &end).Return(nil)
		entries.On("FindLatestByTrip", mock.Anything, tripID).Return(nil, nil)
		entries.On("InsertEntry", mock.Anything, mock.AnythingOfType("models.TripStatusEntry")).
			Return(primitive.NewObjectID().Hex(), nil)

		entry, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
			Status:    models.TripCompleted,
			StartTime: &start,
			EndTime:   &end,
		})
		require.NoError(t, err)
		require.NotNil(t, entry.TotalTimeMinutes)
		assert.Equal(t, int64(-30), *entry.TotalTimeMinutes)
	})

	t.Run("mutates unsealed entry with the same status", func(t *testing.T) {
		ledger, trips, entries, trip := ledgerFixture()
		tripID := trip.ID.Hex()
		start := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
		end := start.Add(25 * time.Minute)
		latest := &models.TripStatusEntry{
			ID:         primitive.NewObjectID(),
			TripID:     tripID,
			Status:     models.TripInProgress,
			StatusTime: start,
			StartTime:  &start,
		}

		trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
		trips.On("UpdateTripStatus", mock.Anything, tripID, models.TripInProgress, mock.Anything, mock.Anything).Return(nil)
		entries.On("FindLatestByTrip", mock.Anything, tripID).Return(latest, nil)
		entries.On("UpdateEntry", mock.Anything, latest.ID.Hex(), mock.AnythingOfType("models.TripStatusEntry")).Return(nil)

		entry, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
			Status:  models.TripInProgress,
			EndTime: &end,
		})
		require.NoError(t, err)
		assert.Equal(t, latest.ID, entry.ID)
		require.NotNil(t, entry.TotalTimeMinutes)
		assert.Equal(t, int64(25), *entry.TotalTimeMinutes)
		entries.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
	})

	t.Run("appends instead of mutating once the entry is sealed", func(t *testing.T) {
		ledger, trips, entries, trip := ledgerFixture()
		tripID := trip.ID.Hex()
		start := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
		end := start.Add(30 * time.Minute)
		sealed := &models.TripStatusEntry{
			ID:         primitive.NewObjectID(),
			TripID:     tripID,
			Status:     models.TripCompleted,
			StatusTime: end,
			StartTime:  &start,
			EndTime:    &end,
		}

		trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
		trips.On("UpdateTripStatus", mock.Anything, tripID, models.TripCompleted, mock.Anything, mock.Anything).Return(nil)
		entries.On("FindLatestByTrip", mock.Anything, tripID).Return(sealed, nil)
		entries.On("InsertEntry", mock.Anything, mock.AnythingOfType("models.TripStatusEntry")).
			Return(primitive.NewObjectID().Hex(), nil)

		entry, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
			Status: models.TripCompleted,
		})
		require.NoError(t, err)
		assert.NotEqual(t, sealed.ID, entry.ID)
		entries.AssertNotCalled(t, "UpdateEntry", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("appends on a status change even when unsealed", func(t *testing.T) {
		ledger, trips, entries, trip := ledgerFixture()
		tripID := trip.ID.Hex()
		start := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
		latest := &models.TripStatusEntry{
			ID:         primitive.NewObjectID(),
			TripID:     tripID,
			Status:     models.TripInProgress,
			StatusTime: start,
			StartTime:  &start,
		}

		trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
		trips.On("UpdateTripStatus", mock.Anything, tripID, models.TripDelayed, mock.Anything, mock.Anything).Return(nil)
		entries.On("FindLatestByTrip", mock.Anything, tripID).Return(latest, nil)
		entries.On("InsertEntry", mock.Anything, mock.AnythingOfType("models.TripStatusEntry")).
			Return(primitive.NewObjectID().Hex(), nil)

		entry, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
			Status: models.TripDelayed,
		})
		require.NoError(t, err)
		assert.Equal(t, models.TripDelayed, entry.Status)
		entries.AssertNotCalled(t, "UpdateEntry", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTripStatusLedger_LatestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the entry with the maximum status time", func(t *testing.T) {
		ledger, trips, entries, trip := ledgerFixture()
		tripID := trip.ID.Hex()
		latest := &models.TripStatusEntry{
			ID:         primitive.NewObjectID(),
			TripID:     tripID,
			Status:     models.TripCompleted,
			StatusTime: time.Now(),
		}

		trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
		entries.On("FindLatestByTrip", mock.Anything, tripID).Return(latest, nil)

		got, err := ledger.LatestStatus(ctx, tripID)
		require.NoError(t, err)
		assert.Equal(t, latest.ID, got.ID)
	})

	t.Run("not found when the ledger is empty", func(t *testing.T) {
		ledger, trips, entries, trip := ledgerFixture()
		tripID := trip.ID.Hex()

		trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
		entries.On("FindLatestByTrip", mock.Anything, tripID).Return(nil, nil)

		_, err := ledger.LatestStatus(ctx, tripID)
		assert.True(t, IsNotFound(err))
	})
}

func TestTripStatusLedger_History(t *testing.T) {
	ledger, trips, entries, trip := ledgerFixture()
	tripID := trip.ID.Hex()
	history := []models.TripStatusEntry{
		{Status: models.TripCompleted, StatusTime: time.Now()},
		{Status: models.TripInProgress, StatusTime: time.Now().Add(-time.Hour)},
	}

	trips.On("FindTripByID", mock.Anything, tripID).Return(trip, nil)
	entries.On("FindByTrip", mock.Anything, tripID).Return(history, nil)

	got, err := ledger.History(context.Background(), tripID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, models.TripCompleted, got[0].Status)
}

// memoryStatusCollection stores entries in insertion order and answers
// queries with the same ordering discipline as the Mongo collection:
// status time descending, ties broken by most recent insertion.
type memoryStatusCollection struct {
	entries []models.TripStatusEntry
}

func (c *memoryStatusCollection) InsertEntry(_ context.Context, entry models.TripStatusEntry) (string, error) {
	entry.ID = primitive.NewObjectID()
	c.entries = append(c.entries, entry)
	return entry.ID.Hex(), nil
}

func (c *memoryStatusCollection) UpdateEntry(_ context.Context, id string, entry models.TripStatusEntry) error {
	for i := range c.entries {
		if c.entries[i].ID.Hex() == id {
			entry.ID = c.entries[i].ID
			c.entries[i] = entry
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (c *memoryStatusCollection) FindLatestByTrip(_ context.Context, tripID string) (*models.TripStatusEntry, error) {
	var latest *models.TripStatusEntry
	for i := range c.entries {
		e := &c.entries[i]
		if e.TripID != tripID {
			continue
		}
		// >= so that on equal status times the later insertion wins
		if latest == nil || !e.StatusTime.Before(latest.StatusTime) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (c *memoryStatusCollection) FindByTrip(_ context.Context, tripID string) ([]models.TripStatusEntry, error) {
	var out []models.TripStatusEntry
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].TripID == tripID {
			out = append(out, c.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StatusTime.After(out[j].StatusTime)
	})
	return out, nil
}

func TestTripStatusLedger_OutOfOrderAppends(t *testing.T) {
	ctx := context.Background()

	newLedger := func() (*TripStatusLedger, *memoryStatusCollection, string) {
		trips := new(MockTripCollection)
		entries := &memoryStatusCollection{}
		trip := &models.Trip{ID: primitive.NewObjectID(), SchoolID: "school-1", IsActive: true}
		trips.On("FindTripByID", mock.Anything, trip.ID.Hex()).Return(trip, nil)
		trips.On("UpdateTripStatus", mock.Anything, trip.ID.Hex(), mock.Anything, mock.Anything, mock.Anything).Return(nil)
		return NewTripStatusLedger(trips, entries), entries, trip.ID.Hex()
	}

	t.Run("latest is the maximum status time, not the last insertion", func(t *testing.T) {
		ledger, entries, tripID := newLedger()
		base := time.Now()
		record := func(status models.TripStatusValue, at time.Time) {
			_, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
				Status:     status,
				StatusTime: &at,
			})
			require.NoError(t, err)
		}

		record(models.TripInProgress, base)
		record(models.TripCompleted, base.Add(45*time.Minute))
		// A delay report arriving late, timestamped before completion.
		record(models.TripDelayed, base.Add(20*time.Minute))

		require.Len(t, entries.entries, 3)

		latest, err := ledger.LatestStatus(ctx, tripID)
		require.NoError(t, err)
		assert.Equal(t, models.TripCompleted, latest.Status)
		assert.True(t, latest.StatusTime.Equal(base.Add(45*time.Minute)))
	})

	t.Run("equal status times break toward the most recent insertion", func(t *testing.T) {
		ledger, _, tripID := newLedger()
		at := time.Now()

		_, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
			Status: models.TripDelayed, StatusTime: &at,
		})
		require.NoError(t, err)
		_, err = ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
			Status: models.TripCancelled, StatusTime: &at,
		})
		require.NoError(t, err)

		latest, err := ledger.LatestStatus(ctx, tripID)
		require.NoError(t, err)
		assert.Equal(t, models.TripCancelled, latest.Status)
	})

	t.Run("history is ordered newest first across shuffled insertions", func(t *testing.T) {
		ledger, _, tripID := newLedger()
		base := time.Now()
		for _, step := range []struct {
			status models.TripStatusValue
			offset time.Duration
		}{
			{models.TripCompleted, 60 * time.Minute},
			{models.TripInProgress, 0},
			{models.TripDelayed, 30 * time.Minute},
		} {
			at := base.Add(step.offset)
			_, err := ledger.RecordStatus(ctx, tripID, models.RecordTripStatusRequest{
				Status: step.status, StatusTime: &at,
			})
			require.NoError(t, err)
		}

		history, err := ledger.History(ctx, tripID)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, models.TripCompleted, history[0].Status)
		assert.Equal(t, models.TripDelayed, history[1].Status)
		assert.Equal(t, models.TripInProgress, history[2].Status)
	})
}
