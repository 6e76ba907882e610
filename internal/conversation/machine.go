// Package conversation sequences a booking conversation. The machine is
// pure: it decides when the caller should check availability or place a
// booking, but performs no I/O itself.
package conversation

import (
	"strings"

	"github.com/homepros/booking-platform/internal/classify"
	"github.com/homepros/booking-platform/internal/scheduling"
)

// State is a stage of the booking conversation.
type State string

const (
	StateGreeting             State = "greeting"
	StateServiceIdentified    State = "service_identified"
	StateAvailabilityChecking State = "availability_checking"
	StateScheduling           State = "scheduling"
	StateConfirmed            State = "confirmed"
	StateHumanHandoff         State = "human_handoff"
)

// minConfidence is the classification confidence below which the
// machine keeps gathering detail instead of advancing.
const minConfidence = 0.5

// maxAvailabilityRetries bounds how often an empty availability result
// is retried before the customer is handed to a human.
const maxAvailabilityRetries = 2

// Context carries what has been collected from the customer so far.
type Context struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	Location       string
	Classification *classify.ServiceClassification
	// KnownCustomer marks contact info already on file, letting the
	// machine skip detail-gathering.
	KnownCustomer bool
}

// Machine is the conversation's current position. Copy it freely; all
// transitions return a new value.
type Machine struct {
	State            State
	Context          Context
	AvailableExperts []string
	SelectedSlot     *scheduling.AvailableSlot
	RetryCount       int
}

// NewMachine starts a conversation at greeting.
func NewMachine() Machine {
	return Machine{State: StateGreeting}
}

// contactComplete reports whether enough contact detail is on hand to
// proceed to scheduling.
func (c Context) contactComplete() bool {
	if c.KnownCustomer {
		return true
	}
	hasContact := strings.TrimSpace(c.CustomerPhone) != "" || strings.TrimSpace(c.CustomerEmail) != ""
	return strings.TrimSpace(c.CustomerName) != "" && hasContact
}

// isEmergency reports whether the classified urgency fast-paths the
// conversation.
func (c Context) isEmergency() bool {
	return c.Classification != nil && c.Classification.Urgency == classify.UrgencyEmergency
}

// WithClassification records a classification and advances out of
// greeting when confidence clears the bar. Emergencies skip straight to
// availability checking; collecting the customer's life story can wait.
func (m Machine) WithClassification(result classify.ServiceClassification) Machine {
	next := m
	next.Context.Classification = &result

	if m.State != StateGreeting && m.State != StateServiceIdentified {
		return next
	}
	if result.Confidence < minConfidence {
		next.State = StateGreeting
		return next
	}

	if next.Context.isEmergency() || next.Context.contactComplete() {
		next.State = StateAvailabilityChecking
	} else {
		next.State = StateServiceIdentified
	}
	return next
}

// WithContact records customer details and advances past detail
// gathering once contact info is complete.
func (m Machine) WithContact(name, phone, email, location string) Machine {
	next := m
	if name != "" {
		next.Context.CustomerName = name
	}
	if phone != "" {
		next.Context.CustomerPhone = phone
	}
	if email != "" {
		next.Context.CustomerEmail = email
	}
	if location != "" {
		next.Context.Location = location
	}

	if next.State == StateServiceIdentified && next.Context.contactComplete() {
		next.State = StateAvailabilityChecking
	}
	return next
}

// ShouldCheckAvailability signals the caller to query the availability
// engine now.
func (m Machine) ShouldCheckAvailability() bool {
	return m.State == StateAvailabilityChecking
}

// WithAvailability records the availability result. Experts present
// moves the conversation to scheduling; an empty result counts a retry.
func (m Machine) WithAvailability(expertIDs []string) Machine {
	next := m
	if m.State != StateAvailabilityChecking {
		return next
	}
	next.AvailableExperts = expertIDs
	if len(expertIDs) == 0 {
		next.RetryCount++
		return next
	}
	next.RetryCount = 0
	next.State = StateScheduling
	return next
}

// WithSlotSelection records the slot the customer picked. The caller
// runs the validator and conflict checker before confirming.
func (m Machine) WithSlotSelection(slot scheduling.AvailableSlot) Machine {
	next := m
	if m.State != StateScheduling {
		return next
	}
	next.SelectedSlot = &slot
	return next
}

// ShouldAttemptBooking signals the caller to run validation plus the
// transactional conflict check for the selected slot.
func (m Machine) ShouldAttemptBooking() bool {
	return m.State == StateScheduling && m.SelectedSlot != nil
}

// WithBookingConfirmed moves the conversation to its terminal state.
func (m Machine) WithBookingConfirmed() Machine {
	next := m
	next.State = StateConfirmed
	return next
}

// WithSlotConflict returns the customer to slot selection after a
// conflict; the slot they wanted is gone.
func (m Machine) WithSlotConflict() Machine {
	next := m
	next.SelectedSlot = nil
	next.State = StateAvailabilityChecking
	return next
}

// ShouldEscalateToHuman reports whether the conversation has burned its
// availability retries with no experts to offer.
func (m Machine) ShouldEscalateToHuman() bool {
	return m.State == StateAvailabilityChecking &&
		len(m.AvailableExperts) == 0 &&
		m.RetryCount >= maxAvailabilityRetries
}

// Escalate hands the conversation to a human agent.
func (m Machine) Escalate() Machine {
	next := m
	next.State = StateHumanHandoff
	return next
}

// Terminal reports whether the conversation is finished.
func (m Machine) Terminal() bool {
	return m.State == StateConfirmed || m.State == StateHumanHandoff
}
