package ledger

import (
	"context"
	"fmt"
	"sync"

	"roombook/internal/models"
)

// MemoryLedger keeps all bookings in process memory. Bookings are stored
// and returned by value copy, so a reader can never observe a booking
// mid-update.
type MemoryLedger struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
	order    []string // insertion order of booking IDs
	nextID   int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		bookings: make(map[string]models.Booking),
		nextID:   1,
	}
}

func (l *MemoryLedger) NextID(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := fmt.Sprintf("b%d", l.nextID)
	l.nextID++
	return id, nil
}

func (l *MemoryLedger) Insert(ctx context.Context, booking *models.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.bookings[booking.BookingID]; exists {
		return fmt.Errorf("insert booking %s: %w", booking.BookingID, ErrDuplicateID)
	}
	l.bookings[booking.BookingID] = *booking
	l.order = append(l.order, booking.BookingID)
	return nil
}

func (l *MemoryLedger) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	booking, ok := l.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, ErrNotFound)
	}
	return &booking, nil
}

func (l *MemoryLedger) ListAll(ctx context.Context) ([]*models.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*models.Booking, 0, len(l.order))
	for _, id := range l.order {
		booking := l.bookings[id]
		out = append(out, &booking)
	}
	return out, nil
}

func (l *MemoryLedger) ListByRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*models.Booking, 0)
	for _, id := range l.order {
		booking := l.bookings[id]
		if booking.RoomID == roomID {
			out = append(out, &booking)
		}
	}
	return out, nil
}

func (l *MemoryLedger) Update(ctx context.Context, booking *models.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.bookings[booking.BookingID]; !exists {
		return fmt.Errorf("update booking %s: %w", booking.BookingID, ErrNotFound)
	}
	l.bookings[booking.BookingID] = *booking
	return nil
}

func (l *MemoryLedger) Close() error { return nil }
