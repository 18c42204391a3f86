package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRoomNotFound комната отсутствует в справочнике
	ErrRoomNotFound = errors.New("room not found")

	// ErrBookingNotFound бронь с таким ID не существует
	ErrBookingNotFound = errors.New("booking not found")
)

// ValidationError reports malformed or out-of-policy input on create
// and analytics requests.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// PolicyViolationError reports a cancellation policy breach.
type PolicyViolationError struct {
	Reason string
}

func (e *PolicyViolationError) Error() string { return e.Reason }

// ConflictError carries the window of the existing booking that blocks
// a create, rendered in the reference zone for user-facing messages.
type ConflictError struct {
	Start time.Time
	End   time.Time
	loc   *time.Location
}

func (e *ConflictError) Error() string {
	loc := e.loc
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("room already booked from %s to %s",
		e.Start.In(loc).Format("3:04 PM"),
		e.End.In(loc).Format("3:04 PM"))
}
