package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"roombook/internal/config"
	"roombook/internal/domain"
	"roombook/internal/events"
	"roombook/internal/ledger"
	"roombook/internal/metrics"
	"roombook/internal/models"

	"github.com/rs/zerolog"
)

// BookingCoordinator orchestrates booking creation and cancellation.
// It owns the per-room critical section that makes "check overlap, then
// insert" indivisible; the ledger itself only provides atomic single
// operations.
type BookingCoordinator struct {
	ledger   domain.Ledger
	catalog  domain.Catalog
	pricer   domain.Pricer
	eventBus domain.EventPublisher
	loc      *time.Location
	logger   *zerolog.Logger

	maxDuration   time.Duration
	minCancelLead float64 // hours, strict lower bound

	// now подменяется в тестах для проверки граничных условий
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBookingCoordinator(
	ledger domain.Ledger,
	catalog domain.Catalog,
	pricer domain.Pricer,
	eventBus domain.EventPublisher,
	loc *time.Location,
	cfg config.BookingConfig,
	logger *zerolog.Logger,
) *BookingCoordinator {
	maxHours := cfg.MaxDurationHours
	if maxHours <= 0 {
		maxHours = models.MaxBookingHours
	}
	minLead := cfg.MinCancelLeadHours
	if minLead <= 0 {
		minLead = models.MinCancellationHours
	}

	return &BookingCoordinator{
		ledger:        ledger,
		catalog:       catalog,
		pricer:        pricer,
		eventBus:      eventBus,
		loc:           loc,
		logger:        logger,
		maxDuration:   time.Duration(maxHours) * time.Hour,
		minCancelLead: minLead,
		now:           time.Now,
		locks:         make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex for a key, creating it on first use. Creates
// lock per room, cancels per booking id.
func (c *BookingCoordinator) lockFor(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

// CreateBooking validates the request, prices the interval and commits a
// CONFIRMED booking. Validation fails fast on the first violation, in the
// order: room, interval, duration, past start, conflict.
func (c *BookingCoordinator) CreateBooking(ctx context.Context, roomID, userName string, start, end time.Time) (*models.Booking, error) {
	room, ok := c.catalog.Get(roomID)
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrRoomNotFound)
	}

	if start.IsZero() || end.IsZero() {
		return nil, validationErrorf("invalid date format")
	}
	if !start.Before(end) {
		return nil, validationErrorf("start time must be before end time")
	}
	if end.Sub(start) > c.maxDuration {
		return nil, validationErrorf("booking duration cannot exceed %d hours", int(c.maxDuration.Hours()))
	}
	if start.Before(c.now().In(c.loc)) {
		return nil, validationErrorf("cannot book in the past")
	}

	// Проверка пересечений и вставка неделимы в пределах комнаты
	roomLock := c.lockFor("room:" + roomID)
	roomLock.Lock()
	defer roomLock.Unlock()

	existing, err := c.ledger.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for room %s: %w", roomID, err)
	}
	for _, b := range existing {
		if b.Status != models.StatusConfirmed {
			continue
		}
		if b.Overlaps(start, end) {
			metrics.IncBookingConflict()
			return nil, &ConflictError{Start: b.StartTime, End: b.EndTime, loc: c.loc}
		}
	}

	id, err := c.ledger.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate booking id: %w", err)
	}

	booking := &models.Booking{
		BookingID:  id,
		RoomID:     roomID,
		UserName:   userName,
		StartTime:  start,
		EndTime:    end,
		TotalPrice: c.pricer.Price(room.BaseHourlyRate, start, end),
		Status:     models.StatusConfirmed,
		CreatedAt:  c.now(),
	}

	if err := c.ledger.Insert(ctx, booking); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	metrics.IncBookingCreated()
	c.publishEvent(events.EventBookingCreated, booking)

	c.logger.Info().
		Str("booking_id", booking.BookingID).
		Str("room_id", roomID).
		Int64("total_price", booking.TotalPrice).
		Msg("booking created")

	return booking, nil
}

// CancelBooking moves a CONFIRMED booking to CANCELLED if the lead-time
// policy allows. The transition is one-way; the stored price is untouched.
func (c *BookingCoordinator) CancelBooking(ctx context.Context, bookingID string) error {
	// Read-check-write на статусе должно быть атомарно по ID брони
	bookingLock := c.lockFor("booking:" + bookingID)
	bookingLock.Lock()
	defer bookingLock.Unlock()

	booking, err := c.ledger.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return fmt.Errorf("booking %s: %w", bookingID, ErrBookingNotFound)
		}
		return fmt.Errorf("get booking %s: %w", bookingID, err)
	}

	if booking.Status == models.StatusCancelled {
		return &PolicyViolationError{Reason: "booking is already cancelled"}
	}

	hoursUntilStart := booking.StartTime.Sub(c.now().In(c.loc)).Hours()
	if hoursUntilStart <= c.minCancelLead {
		return &PolicyViolationError{
			Reason: fmt.Sprintf("cancellation must be made at least %g hours before the booking start time", c.minCancelLead),
		}
	}

	booking.Status = models.StatusCancelled
	if err := c.ledger.Update(ctx, booking); err != nil {
		return fmt.Errorf("update booking %s: %w", bookingID, err)
	}

	metrics.IncBookingCancelled()
	c.publishEvent(events.EventBookingCancelled, booking)

	c.logger.Info().Str("booking_id", bookingID).Msg("booking cancelled")
	return nil
}

// GetAllBookings returns every booking in insertion order, including
// cancelled ones, for audit and listing use.
func (c *BookingCoordinator) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	return c.ledger.ListAll(ctx)
}

func (c *BookingCoordinator) publishEvent(eventType string, booking *models.Booking) {
	if c.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.BookingID,
		RoomID:     booking.RoomID,
		UserName:   booking.UserName,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
	}

	if err := c.eventBus.PublishJSON(eventType, payload); err != nil {
		c.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.BookingID).Msg("publish event error")
	}
}
