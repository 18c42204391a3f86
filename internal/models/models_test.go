package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Overlaps(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	booking := &Booking{
		BookingID: "b1",
		RoomID:    "101",
		StartTime: base,
		EndTime:   base.Add(2 * time.Hour),
	}

	t.Run("FullyInside", func(t *testing.T) {
		assert.True(t, booking.Overlaps(base.Add(30*time.Minute), base.Add(time.Hour)))
	})

	t.Run("StraddlesStart", func(t *testing.T) {
		assert.True(t, booking.Overlaps(base.Add(-time.Hour), base.Add(time.Hour)))
	})

	t.Run("StraddlesEnd", func(t *testing.T) {
		assert.True(t, booking.Overlaps(base.Add(time.Hour), base.Add(3*time.Hour)))
	})

	t.Run("Covers", func(t *testing.T) {
		assert.True(t, booking.Overlaps(base.Add(-time.Hour), base.Add(3*time.Hour)))
	})

	t.Run("AdjacentBefore", func(t *testing.T) {
		// [start, end) — ending exactly at booking start is not a collision
		assert.False(t, booking.Overlaps(base.Add(-time.Hour), base))
	})

	t.Run("AdjacentAfter", func(t *testing.T) {
		assert.False(t, booking.Overlaps(base.Add(2*time.Hour), base.Add(3*time.Hour)))
	})

	t.Run("Disjoint", func(t *testing.T) {
		assert.False(t, booking.Overlaps(base.Add(5*time.Hour), base.Add(6*time.Hour)))
	})

	t.Run("OneSecondIntoEnd", func(t *testing.T) {
		assert.True(t, booking.Overlaps(base.Add(2*time.Hour-time.Second), base.Add(3*time.Hour)))
	})
}

func TestBooking_Duration(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	booking := &Booking{StartTime: base, EndTime: base.Add(90 * time.Minute)}
	assert.Equal(t, 90*time.Minute, booking.Duration())
}
