package bookings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/homepros/booking-platform/internal/scheduling"
	"github.com/homepros/booking-platform/internal/services"
	"github.com/homepros/booking-platform/internal/technicians"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	// Accepts common international punctuation: +, spaces, dots,
	// dashes, parentheses, 7-15 digits overall.
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 .\-()]{5,18}[0-9]$`)
)

// ValidationResult aggregates every failing business rule so the caller
// can surface all of them at once instead of one per round trip.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// CutoffResult reports whether a reschedule/cancel is still allowed and
// how long remains before the booking starts, for UI display.
type CutoffResult struct {
	Allowed        bool    `json:"allowed"`
	HoursRemaining float64 `json:"hours_remaining"`
}

// Validator performs structural and business-rule validation of booking
// requests. It never touches booking rows; conflict detection is the
// conflict checker's job and always runs after this.
type Validator struct {
	roster      technicians.Repository
	hours       scheduling.Hours
	minLeadTime time.Duration
	cutoff      time.Duration
	now         func() time.Time
}

// NewValidator constructs a validator. A nil clock defaults to UTC now.
func NewValidator(roster technicians.Repository, hours scheduling.Hours, minLeadTime, cutoff time.Duration, now func() time.Time) *Validator {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if minLeadTime <= 0 {
		minLeadTime = 30 * time.Minute
	}
	if cutoff <= 0 {
		cutoff = 24 * time.Hour
	}
	return &Validator{
		roster:      roster,
		hours:       hours,
		minLeadTime: minLeadTime,
		cutoff:      cutoff,
		now:         now,
	}
}

// Validate evaluates every rule and aggregates the failures. The error
// return is reserved for infrastructure trouble (the roster lookup
// failing); rule violations come back inside the result, never as an
// error.
func (v *Validator) Validate(ctx context.Context, req *CreateBookingRequest) (ValidationResult, error) {
	var result ValidationResult

	if strings.TrimSpace(req.CustomerName) == "" {
		result.addError("customer name is required")
	}
	if req.CustomerEmail == "" && req.CustomerPhone == "" {
		result.addError("either email or phone is required")
	}
	if req.CustomerEmail != "" && !emailPattern.MatchString(req.CustomerEmail) {
		result.addError("email %q is not a valid address", req.CustomerEmail)
	}
	if req.CustomerPhone != "" && !phonePattern.MatchString(req.CustomerPhone) {
		result.addError("phone %q is not a valid number", req.CustomerPhone)
	}

	if !services.Exists(req.ServiceType) {
		result.addError("unknown service type %q", req.ServiceType)
	}

	if strings.TrimSpace(req.TechnicianID) == "" {
		result.addError("technician id is required")
	} else if v.roster != nil {
		tech, err := v.roster.GetByID(ctx, req.TechnicianID)
		switch {
		case errors.Is(err, technicians.ErrTechnicianNotFound):
			result.addError("technician %q does not exist", req.TechnicianID)
		case err != nil:
			return ValidationResult{}, fmt.Errorf("bookings: verify technician %q: %w", req.TechnicianID, err)
		case !tech.Bookable():
			result.addError("technician %q is not accepting bookings (%s)", req.TechnicianID, tech.Status)
		}
	}

	now := v.now()
	if req.StartTime.IsZero() {
		result.addError("start time is required")
	} else {
		if req.StartTime.Before(now.Add(v.minLeadTime)) {
			result.addError("start time must be at least %s from now", v.minLeadTime)
		}

		local := req.StartTime.In(v.hours.Location)
		if local.Weekday() == v.hours.OffDay {
			result.addError("bookings are not taken on %s", v.hours.OffDay)
		}
		if local.Hour() < v.hours.OpenHour || local.Hour() >= v.hours.CloseHour {
			result.addError("start time %02d:%02d is outside business hours %02d:00-%02d:00",
				local.Hour(), local.Minute(), v.hours.OpenHour, v.hours.CloseHour)
		}

		end := req.StartTime.Add(req.Duration())
		if end.After(v.hours.Closing(req.StartTime)) {
			result.addError("appointment would run past closing time %02d:00", v.hours.CloseHour)
		}
		if req.StartTime.Sub(now) > 90*24*time.Hour {
			result.addWarning("booking is more than 90 days out")
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// CheckModifyCutoff applies the 24-hour rule for reschedule/cancel:
// modification is blocked once less than the cutoff remains before the
// existing booking's start.
func (v *Validator) CheckModifyCutoff(start time.Time) CutoffResult {
	remaining := start.Sub(v.now())
	return CutoffResult{
		Allowed:        remaining >= v.cutoff,
		HoursRemaining: remaining.Hours(),
	}
}
