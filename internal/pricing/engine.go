package pricing

import (
	"math"
	"time"
)

// Engine prices half-open intervals against a peak/off-peak schedule.
// All day-of-week and hour-of-day checks run in the configured reference
// zone so results do not depend on where the process runs.
type Engine struct {
	loc            *time.Location
	peakMultiplier float64
}

func NewEngine(loc *time.Location, peakMultiplier float64) *Engine {
	if peakMultiplier <= 0 {
		peakMultiplier = 1.5
	}
	return &Engine{loc: loc, peakMultiplier: peakMultiplier}
}

// IsPeak отчитывает пиковый тариф: будни, часы [10,13) и [16,19)
func (e *Engine) IsPeak(t time.Time) bool {
	lt := t.In(e.loc)

	switch lt.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	hour := lt.Hour()
	return (hour >= 10 && hour < 13) || (hour >= 16 && hour < 19)
}

// Price computes the total for [start, end) at the given base hourly rate.
// The interval is decomposed into maximal same-rate sub-intervals (the rate
// can only change on a local hour boundary), each priced proportionally to
// its duration, then the sum is rounded half-up once at the end. For any
// whole-minute interval this matches a minute-by-minute accumulation of
// rate/60 per minute.
//
// The caller validates the interval; start >= end prices to zero.
func (e *Engine) Price(baseRate float64, start, end time.Time) int64 {
	if !start.Before(end) {
		return 0
	}

	cur := start.In(e.loc)
	endLocal := end.In(e.loc)

	// Accumulate in rate-minutes, divide by 60 once to keep the
	// arithmetic exact for whole-minute inputs.
	var rateMinutes float64
	for cur.Before(endLocal) {
		next := nextHourBoundary(cur)
		if next.After(endLocal) {
			next = endLocal
		}

		rate := baseRate
		if e.IsPeak(cur) {
			rate = baseRate * e.peakMultiplier
		}
		rateMinutes += rate * next.Sub(cur).Minutes()
		cur = next
	}

	return roundHalfUp(rateMinutes / 60)
}

// nextHourBoundary возвращает начало следующего локального часа
func nextHourBoundary(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, t.Location())
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
