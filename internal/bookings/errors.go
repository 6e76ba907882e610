package bookings

import (
	"errors"
	"fmt"
	"time"

	"github.com/homepros/booking-platform/internal/scheduling"
)

var (
	// ErrBookingNotFound is returned when a booking id is unknown.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingCancelled is returned when modifying a cancelled booking.
	ErrBookingCancelled = errors.New("booking is cancelled")
)

// ConflictError reports that the requested slot is no longer free. It is
// a recoverable domain outcome: the caller should prompt the customer
// for another slot, optionally using Suggested.
type ConflictError struct {
	TechnicianID string
	Start        time.Time
	End          time.Time
	Reason       string
	Suggested    *scheduling.AvailableSlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("bookings: slot %s-%s for technician %s is taken: %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.TechnicianID, e.Reason)
}

// ValidationFailedError wraps an invalid ValidationResult so the service
// can return it through the error channel while keeping every rule
// violation visible to the caller.
type ValidationFailedError struct {
	Result ValidationResult
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("bookings: validation failed: %d error(s)", len(e.Result.Errors))
}

// CutoffError reports that a reschedule/cancel came too close to the
// booking's start time.
type CutoffError struct {
	HoursRemaining float64
}

func (e *CutoffError) Error() string {
	return fmt.Sprintf("bookings: modification window closed, %.1f hours remain before start", e.HoursRemaining)
}
