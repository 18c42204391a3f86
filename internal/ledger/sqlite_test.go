package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"roombook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := NewSQLiteLedger(path, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestSQLiteLedger(t *testing.T) {
	l := newTestSQLiteLedger(t)
	ctx := context.Background()

	t.Run("NextIDMonotonic", func(t *testing.T) {
		id1, err := l.NextID(ctx)
		require.NoError(t, err)
		id2, err := l.NextID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b1", id1)
		assert.Equal(t, "b2", id2)
	})

	t.Run("InsertGetRoundTrip", func(t *testing.T) {
		booking := testBooking("b1", "101")
		require.NoError(t, l.Insert(ctx, booking))

		got, err := l.Get(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, booking.BookingID, got.BookingID)
		assert.Equal(t, booking.RoomID, got.RoomID)
		assert.Equal(t, booking.UserName, got.UserName)
		assert.Equal(t, booking.TotalPrice, got.TotalPrice)
		assert.True(t, booking.StartTime.Equal(got.StartTime))
		assert.True(t, booking.EndTime.Equal(got.EndTime))
	})

	t.Run("DuplicateInsertFails", func(t *testing.T) {
		err := l.Insert(ctx, testBooking("b1", "101"))
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("GetUnknownFails", func(t *testing.T) {
		_, err := l.Get(ctx, "b999")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListByRoomAndAll", func(t *testing.T) {
		require.NoError(t, l.Insert(ctx, testBooking("b2", "102")))
		require.NoError(t, l.Insert(ctx, testBooking("b3", "101")))

		room101, err := l.ListByRoom(ctx, "101")
		require.NoError(t, err)
		require.Len(t, room101, 2)
		assert.Equal(t, "b1", room101[0].BookingID)
		assert.Equal(t, "b3", room101[1].BookingID)

		all, err := l.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"b1", "b2", "b3"},
			[]string{all[0].BookingID, all[1].BookingID, all[2].BookingID})
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		booking, err := l.Get(ctx, "b2")
		require.NoError(t, err)

		booking.Status = models.StatusCancelled
		require.NoError(t, l.Update(ctx, booking))

		got, err := l.Get(ctx, "b2")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.Status)
		// Цена не меняется при отмене
		assert.Equal(t, booking.TotalPrice, got.TotalPrice)
	})

	t.Run("UpdateUnknownFails", func(t *testing.T) {
		err := l.Update(ctx, testBooking("b999", "101"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteLedgerIDsSurviveReopen(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	l, err := NewSQLiteLedger(path, &logger)
	require.NoError(t, err)

	id1, err := l.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b1", id1)
	require.NoError(t, l.Close())

	reopened, err := NewSQLiteLedger(path, &logger)
	require.NoError(t, err)
	defer reopened.Close()

	id2, err := reopened.NextID(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2, "ids must never be reused")
}

func TestSQLiteLedgerPreservesInstant(t *testing.T) {
	l := newTestSQLiteLedger(t)
	ctx := context.Background()

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	booking := testBooking("b1", "101")
	booking.StartTime = time.Date(2025, 6, 4, 11, 30, 0, 0, loc)
	booking.EndTime = booking.StartTime.Add(90 * time.Minute)
	require.NoError(t, l.Insert(ctx, booking))

	got, err := l.Get(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, booking.StartTime.Equal(got.StartTime), "stored instant must match")
	assert.True(t, booking.EndTime.Equal(got.EndTime))
}
