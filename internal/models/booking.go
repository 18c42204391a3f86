package models

import "time"

type Booking struct {
	BookingID  string    `json:"bookingId"`
	RoomID     string    `json:"roomId"`
	UserName   string    `json:"userName"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	TotalPrice int64     `json:"totalPrice"`
	Status     string    `json:"status"` // CONFIRMED, CANCELLED
	CreatedAt  time.Time `json:"createdAt"`
}

// Duration returns the booked span. Intervals are half-open [start, end).
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// Overlaps reports whether [start, end) intersects the booking's interval.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && end.After(b.StartTime)
}
