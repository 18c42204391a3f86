package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	// IncHTTP should not panic
	assert.NotPanics(t, func() {
		IncHTTP("test_endpoint", "200")
	})
}

func TestBookingCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(bookingsCreated)
	IncBookingCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCreated))

	before = testutil.ToFloat64(bookingConflicts)
	IncBookingConflict()
	IncBookingConflict()
	assert.Equal(t, before+2, testutil.ToFloat64(bookingConflicts))

	before = testutil.ToFloat64(bookingsCancelled)
	IncBookingCancelled()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCancelled))
}
