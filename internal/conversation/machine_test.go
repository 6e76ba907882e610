package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/homepros/booking-platform/internal/classify"
	"github.com/homepros/booking-platform/internal/scheduling"
)

func plumbingResult(urgency classify.Urgency, confidence float64) classify.ServiceClassification {
	return classify.ServiceClassification{
		ServiceType: "plumbing",
		Urgency:     urgency,
		Confidence:  confidence,
		Source:      classify.SourceFallback,
	}
}

func TestHappyPathToConfirmed(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, StateGreeting, m.State)

	m = m.WithClassification(plumbingResult(classify.UrgencyMedium, 0.8))
	assert.Equal(t, StateServiceIdentified, m.State)

	m = m.WithContact("Pat Doyle", "+12065550143", "", "Queen Anne")
	assert.Equal(t, StateAvailabilityChecking, m.State)
	assert.True(t, m.ShouldCheckAvailability())

	m = m.WithAvailability([]string{"tech-1", "tech-2"})
	assert.Equal(t, StateScheduling, m.State)

	slot := scheduling.AvailableSlot{
		Start:        time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
		End:          time.Date(2026, time.March, 2, 11, 0, 0, 0, time.UTC),
		TechnicianID: "tech-1",
	}
	m = m.WithSlotSelection(slot)
	assert.True(t, m.ShouldAttemptBooking())

	m = m.WithBookingConfirmed()
	assert.Equal(t, StateConfirmed, m.State)
	assert.True(t, m.Terminal())
}

func TestLowConfidenceStaysInGreeting(t *testing.T) {
	m := NewMachine().WithClassification(plumbingResult(classify.UrgencyMedium, 0.3))
	assert.Equal(t, StateGreeting, m.State)
	assert.False(t, m.ShouldCheckAvailability())
}

func TestEmergencyFastPathSkipsDetailGathering(t *testing.T) {
	m := NewMachine().WithClassification(plumbingResult(classify.UrgencyEmergency, 0.9))

	// No contact info collected, yet the machine is already asking for
	// availability.
	assert.Equal(t, StateAvailabilityChecking, m.State)
	assert.True(t, m.ShouldCheckAvailability())
}

func TestKnownCustomerShortcut(t *testing.T) {
	m := NewMachine()
	m.Context.KnownCustomer = true

	m = m.WithClassification(plumbingResult(classify.UrgencyMedium, 0.8))
	assert.Equal(t, StateAvailabilityChecking, m.State)
}

func TestEscalationAfterExhaustedRetries(t *testing.T) {
	m := NewMachine().WithClassification(plumbingResult(classify.UrgencyEmergency, 0.9))

	m = m.WithAvailability(nil)
	assert.False(t, m.ShouldEscalateToHuman(), "one empty result is not enough")

	m = m.WithAvailability(nil)
	assert.True(t, m.ShouldEscalateToHuman())

	m = m.Escalate()
	assert.Equal(t, StateHumanHandoff, m.State)
	assert.True(t, m.Terminal())
}

func TestExpertsFoundResetsRetries(t *testing.T) {
	m := NewMachine().WithClassification(plumbingResult(classify.UrgencyEmergency, 0.9))

	m = m.WithAvailability(nil)
	m = m.WithAvailability([]string{"tech-1"})

	assert.Equal(t, StateScheduling, m.State)
	assert.Zero(t, m.RetryCount)
	assert.False(t, m.ShouldEscalateToHuman())
}

func TestSlotConflictReturnsToAvailability(t *testing.T) {
	m := NewMachine().WithClassification(plumbingResult(classify.UrgencyEmergency, 0.9))
	m = m.WithAvailability([]string{"tech-1"})
	m = m.WithSlotSelection(scheduling.AvailableSlot{TechnicianID: "tech-1"})
	assert.True(t, m.ShouldAttemptBooking())

	m = m.WithSlotConflict()
	assert.Equal(t, StateAvailabilityChecking, m.State)
	assert.Nil(t, m.SelectedSlot)
	assert.False(t, m.ShouldAttemptBooking())
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	original := NewMachine()
	_ = original.WithClassification(plumbingResult(classify.UrgencyEmergency, 0.9))

	assert.Equal(t, StateGreeting, original.State)
	assert.Nil(t, original.Context.Classification)
}
