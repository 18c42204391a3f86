package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"roombook/internal/domain"
	"roombook/internal/models"

	"github.com/rs/zerolog"
)

// AnalyticsAggregator builds per-room utilization and revenue reports
// over inclusive calendar-date ranges in the reference zone.
type AnalyticsAggregator struct {
	ledger  domain.Ledger
	catalog domain.Catalog
	loc     *time.Location
	logger  *zerolog.Logger
}

func NewAnalyticsAggregator(ledger domain.Ledger, catalog domain.Catalog, loc *time.Location, logger *zerolog.Logger) *AnalyticsAggregator {
	return &AnalyticsAggregator{
		ledger:  ledger,
		catalog: catalog,
		loc:     loc,
		logger:  logger,
	}
}

// Report aggregates CONFIRMED bookings whose start time falls inside
// [startOfDay(fromDate), endOfDay(toDate)]. A booking that extends past
// toDate still counts in full; the range is never clipped.
func (a *AnalyticsAggregator) Report(ctx context.Context, fromDate, toDate string) ([]*models.RoomAnalytics, error) {
	from, err := time.ParseInLocation("2006-01-02", fromDate, a.loc)
	if err != nil {
		return nil, validationErrorf("invalid date format. Use YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", toDate, a.loc)
	if err != nil {
		return nil, validationErrorf("invalid date format. Use YYYY-MM-DD")
	}
	if from.After(to) {
		return nil, validationErrorf("from date must be before or equal to to date")
	}

	rangeStart := from
	rangeEnd := to.AddDate(0, 0, 1).Add(-time.Nanosecond) // конец суток to включительно

	bookings, err := a.ledger.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	byRoom := make(map[string]*models.RoomAnalytics)
	var order []string

	for _, booking := range bookings {
		if booking.Status != models.StatusConfirmed {
			continue
		}
		start := booking.StartTime.In(a.loc)
		if start.Before(rangeStart) || start.After(rangeEnd) {
			continue
		}

		room, ok := a.catalog.Get(booking.RoomID)
		if !ok {
			// Бронь на удалённую комнату пропускается
			a.logger.Warn().
				Str("booking_id", booking.BookingID).
				Str("room_id", booking.RoomID).
				Msg("booking references unknown room, skipped in report")
			continue
		}

		agg, exists := byRoom[booking.RoomID]
		if !exists {
			agg = &models.RoomAnalytics{RoomID: booking.RoomID, RoomName: room.Name}
			byRoom[booking.RoomID] = agg
			order = append(order, booking.RoomID)
		}
		agg.TotalHours += booking.Duration().Hours()
		agg.TotalRevenue += booking.TotalPrice
	}

	out := make([]*models.RoomAnalytics, 0, len(order))
	for _, roomID := range order {
		agg := byRoom[roomID]
		agg.TotalHours = math.Round(agg.TotalHours*10) / 10
		out = append(out, agg)
	}
	return out, nil
}
