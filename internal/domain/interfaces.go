package domain

import (
	"context"
	"time"

	"roombook/internal/models"
)

// Ledger is the authoritative store of bookings. Implementations provide
// atomic single operations; cross-booking invariants (overlap checks) are
// enforced by the coordinator under its per-room critical section.
type Ledger interface {
	NextID(ctx context.Context) (string, error)
	Insert(ctx context.Context, booking *models.Booking) error
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
	ListAll(ctx context.Context) ([]*models.Booking, error)
	ListByRoom(ctx context.Context, roomID string) ([]*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Close() error
}

// Catalog is the read-only room lookup.
type Catalog interface {
	Get(roomID string) (*models.Room, bool)
	ListAll() []*models.Room
}

// Pricer computes the total price of a half-open interval at a base rate.
type Pricer interface {
	Price(baseRate float64, start, end time.Time) int64
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingCoordinator interface {
	CreateBooking(ctx context.Context, roomID, userName string, start, end time.Time) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
}

type AnalyticsAggregator interface {
	Report(ctx context.Context, fromDate, toDate string) ([]*models.RoomAnalytics, error)
}
