package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homepros/booking-platform/internal/technicians"
)

type recordingNotifier struct {
	notified []*Booking
}

func (n *recordingNotifier) NotifyBookingConfirmed(ctx context.Context, b *Booking) error {
	n.notified = append(n.notified, b)
	return nil
}

func testService(t *testing.T, now time.Time) (*Service, *InMemoryStore, *recordingNotifier) {
	t.Helper()
	store := NewInMemoryStore()
	roster := technicians.NewInMemoryRepository()
	roster.Add(&technicians.Technician{ID: "tech-1", Name: "Dana", Status: technicians.StatusAvailable})
	roster.Add(&technicians.Technician{ID: "tech-2", Name: "Sam", Status: technicians.StatusAvailable})

	generator := testGenerator()
	validator := NewValidator(roster, generator.Hours(), 30*time.Minute, 24*time.Hour, func() time.Time { return now })
	checker := NewConflictChecker(store, generator)
	notifier := &recordingNotifier{}

	svc := NewService(store, validator, checker, generator, roster, notifier, nil, nil, nil)
	return svc, store, notifier
}

func TestCreateBookingHappyPath(t *testing.T) {
	svc, _, notifier := testService(t, sundayMorning())

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, StatusConfirmed, booking.Status)
	assert.Len(t, booking.ConfirmationCode, 8)
	assert.Equal(t, mondayAt(10, 0), booking.StartTime)
	// Plumbing catalog midpoint is 120 minutes.
	assert.Equal(t, mondayAt(12, 0), booking.EndTime)

	require.Len(t, notifier.notified, 1)
	assert.Equal(t, booking.ID, notifier.notified[0].ID)
}

func TestCreateBookingValidationFailure(t *testing.T) {
	svc, _, notifier := testService(t, sundayMorning())

	req := validRequest()
	req.CustomerName = ""
	req.CustomerEmail = ""

	_, err := svc.CreateBooking(context.Background(), req)

	var validation *ValidationFailedError
	require.ErrorAs(t, err, &validation)
	assert.Len(t, validation.Result.Errors, 2)
	assert.Empty(t, notifier.notified)
}

func TestCreateBookingRosterOutageIsFatal(t *testing.T) {
	svc, _, notifier := testService(t, sundayMorning())
	svc.validator = NewValidator(failingRoster{}, testGenerator().Hours(), 30*time.Minute, 24*time.Hour,
		func() time.Time { return sundayMorning() })

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.Error(t, err)

	// The outage propagates as-is rather than as a 422-class outcome.
	var validation *ValidationFailedError
	assert.False(t, errors.As(err, &validation))
	assert.Empty(t, notifier.notified)
}

func TestGetBooking(t *testing.T) {
	svc, store, _ := testService(t, sundayMorning())
	booking := seedBooking(t, store, "tech-1", mondayAt(10, 0), 60)

	got, err := svc.Get(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCreateBookingConflictCarriesSuggestion(t *testing.T) {
	svc, _, _ := testService(t, sundayMorning())

	first := validRequest()
	first.DurationMinutes = 60
	_, err := svc.CreateBooking(context.Background(), first)
	require.NoError(t, err)

	second := validRequest()
	second.CustomerName = "Riley Finch"
	second.DurationMinutes = 60
	_, err = svc.CreateBooking(context.Background(), second)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.NotNil(t, conflict.Suggested)
	assert.Equal(t, "tech-1", conflict.Suggested.TechnicianID)
	assert.Equal(t, mondayAt(12, 0), conflict.Suggested.Start)
}

func TestAvailabilityReflectsBookingsImmediately(t *testing.T) {
	svc, _, _ := testService(t, sundayMorning())

	before, err := svc.Availability(context.Background(), "plumbing", mondayAt(0, 0), "tech-1")
	require.NoError(t, err)
	require.Len(t, before, 8)

	req := validRequest()
	req.DurationMinutes = 60
	_, err = svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	after, err := svc.Availability(context.Background(), "plumbing", mondayAt(0, 0), "tech-1")
	require.NoError(t, err)

	// 10:00 is taken and 09:00/11:00 fall inside its buffers.
	starts := make([]time.Time, 0, len(after))
	for _, slot := range after {
		starts = append(starts, slot.Start)
	}
	assert.NotContains(t, starts, mondayAt(10, 0))
	assert.NotContains(t, starts, mondayAt(11, 0))
	assert.Contains(t, starts, mondayAt(12, 0))
}

func TestAvailabilityOffDayIsEmpty(t *testing.T) {
	svc, _, _ := testService(t, sundayMorning())

	slots, err := svc.Availability(context.Background(), "plumbing",
		time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestRescheduleBlockedInsideCutoff(t *testing.T) {
	svc, store, _ := testService(t, sundayMorning())
	booking := seedBooking(t, store, "tech-1", mondayAt(10, 0), 60)

	// Move the clock to midnight Monday: ten hours remain.
	lateSvc, _, _ := testService(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC))
	lateSvc.store = svc.store

	_, err := lateSvc.Reschedule(context.Background(), booking.ID, mondayAt(14, 0))

	var cutoff *CutoffError
	require.ErrorAs(t, err, &cutoff)
	assert.InDelta(t, 10.0, cutoff.HoursRemaining, 0.01)
}

func TestRescheduleMovesBooking(t *testing.T) {
	svc, store, _ := testService(t, sundayMorning())
	booking := seedBooking(t, store, "tech-1", mondayAt(10, 0), 60)

	moved, err := svc.Reschedule(context.Background(), booking.ID, mondayAt(14, 0))
	require.NoError(t, err)
	assert.Equal(t, mondayAt(14, 0), moved.StartTime)
	assert.Equal(t, mondayAt(15, 0), moved.EndTime)
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, store, _ := testService(t, sundayMorning())
	booking := seedBooking(t, store, "tech-1", mondayAt(10, 0), 60)

	cancelled, err := svc.Cancel(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	again, err := svc.Cancel(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, again.Status)
}

func TestCancelUnknownBooking(t *testing.T) {
	svc, _, _ := testService(t, sundayMorning())

	_, err := svc.Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
