package pricing

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

// 2025-06-04 is a Wednesday.
func wednesday(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, 6, 4, hour, minute, 0, 0, testLocation(t))
}

func TestPriceExamples(t *testing.T) {
	engine := NewEngine(testLocation(t), 1.5)

	t.Run("PeakHour", func(t *testing.T) {
		// 11:00-12:00 Wednesday, fully peak
		got := engine.Price(300, wednesday(t, 11, 0), wednesday(t, 12, 0))
		assert.Equal(t, int64(450), got)
	})

	t.Run("OffPeakHour", func(t *testing.T) {
		// 09:00-10:00 Wednesday, fully off-peak
		got := engine.Price(300, wednesday(t, 9, 0), wednesday(t, 10, 0))
		assert.Equal(t, int64(300), got)
	})

	t.Run("MixedSpan", func(t *testing.T) {
		// 12:30-13:30: half peak, half off-peak
		got := engine.Price(300, wednesday(t, 12, 30), wednesday(t, 13, 30))
		assert.Equal(t, int64(375), got)
	})

	t.Run("EveningPeakEdge", func(t *testing.T) {
		// 19:00 is already off-peak; 18:00-19:00 is fully peak
		got := engine.Price(200, wednesday(t, 18, 0), wednesday(t, 19, 0))
		assert.Equal(t, int64(300), got)

		got = engine.Price(200, wednesday(t, 19, 0), wednesday(t, 20, 0))
		assert.Equal(t, int64(200), got)
	})

	t.Run("HalfUpRounding", func(t *testing.T) {
		// 30 peak minutes at 250/h: 125 * 1.5 = 187.5, rounds up
		got := engine.Price(250, wednesday(t, 11, 0), wednesday(t, 11, 30))
		assert.Equal(t, int64(188), got)
	})

	t.Run("InvalidIntervalPricesToZero", func(t *testing.T) {
		got := engine.Price(300, wednesday(t, 12, 0), wednesday(t, 11, 0))
		assert.Equal(t, int64(0), got)
	})
}

func TestWeekendNeverPeak(t *testing.T) {
	loc := testLocation(t)
	engine := NewEngine(loc, 1.5)

	// 2025-06-07 Saturday, 2025-06-08 Sunday
	for day := 7; day <= 8; day++ {
		for hour := 0; hour < 24; hour++ {
			instant := time.Date(2025, 6, day, hour, 0, 0, 0, loc)
			assert.False(t, engine.IsPeak(instant), "hour %d on day %d should be off-peak", hour, day)
		}
	}
}

func TestPeakSchedule(t *testing.T) {
	engine := NewEngine(testLocation(t), 1.5)

	peakHours := map[int]bool{10: true, 11: true, 12: true, 16: true, 17: true, 18: true}
	for hour := 0; hour < 24; hour++ {
		got := engine.IsPeak(wednesday(t, hour, 0))
		assert.Equal(t, peakHours[hour], got, "hour %d", hour)
	}
}

func TestPeakEvaluatedInReferenceZone(t *testing.T) {
	loc := testLocation(t)
	engine := NewEngine(loc, 1.5)

	// Same instant expressed in UTC must classify by Kolkata local time:
	// 05:30 UTC on a Wednesday is 11:00 IST, peak.
	utcInstant := time.Date(2025, 6, 4, 5, 30, 0, 0, time.UTC)
	assert.True(t, engine.IsPeak(utcInstant))

	got := engine.Price(300, utcInstant, utcInstant.Add(time.Hour))
	assert.Equal(t, int64(450), got)
}

// bruteForcePrice re-implements the reference minute-by-minute model:
// walk every minute, add rate/60, round half-up once at the end.
func bruteForcePrice(engine *Engine, baseRate float64, start, end time.Time) int64 {
	total := 0.0
	for cur := start; cur.Before(end); cur = cur.Add(time.Minute) {
		rate := baseRate
		if engine.IsPeak(cur) {
			rate = baseRate * 1.5
		}
		total += rate / 60
	}
	return int64(math.Floor(total + 0.5))
}

func TestPriceMatchesMinuteModel(t *testing.T) {
	loc := testLocation(t)
	engine := NewEngine(loc, 1.5)
	rng := rand.New(rand.NewSource(42))

	// Rates whose per-minute contribution (rate/60 and 1.5*rate/60) is
	// exactly representable, so both models accumulate without drift.
	baseRates := []float64{240, 300, 360, 420, 480, 600}

	for i := 0; i < 500; i++ {
		day := 1 + rng.Intn(28)
		startMinute := rng.Intn(24 * 60)
		durationMinutes := 1 + rng.Intn(12*60)
		baseRate := baseRates[rng.Intn(len(baseRates))]

		start := time.Date(2025, 6, day, 0, startMinute, 0, 0, loc)
		end := start.Add(time.Duration(durationMinutes) * time.Minute)

		want := bruteForcePrice(engine, baseRate, start, end)
		got := engine.Price(baseRate, start, end)
		assert.Equal(t, want, got,
			"start=%s duration=%dm rate=%g", start.Format(time.RFC3339), durationMinutes, baseRate)
	}
}
