package bookings

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homepros/booking-platform/internal/scheduling"
	"github.com/homepros/booking-platform/internal/services"
)

// Status is the lifecycle state of a booking. Bookings are never
// physically deleted; cancellation is a status so the audit history
// survives.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Booking is a persisted appointment.
type Booking struct {
	ID               string               `json:"id"`
	TechnicianID     string               `json:"technician_id"`
	ServiceType      services.ServiceType `json:"service_type"`
	CustomerName     string               `json:"customer_name"`
	CustomerEmail    string               `json:"customer_email"`
	CustomerPhone    string               `json:"customer_phone"`
	StartTime        time.Time            `json:"start_time"`
	EndTime          time.Time            `json:"end_time"`
	Status           Status               `json:"status"`
	ConfirmationCode string               `json:"confirmation_code"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// Event projects the booking into the scheduling view used by the
// availability engine and the conflict checker.
func (b *Booking) Event() scheduling.Event {
	return scheduling.Event{
		ID:           b.ID,
		TechnicianID: b.TechnicianID,
		ServiceType:  b.ServiceType,
		Start:        b.StartTime,
		End:          b.EndTime,
		Cancelled:    b.Status == StatusCancelled,
	}
}

// CreateBookingRequest is the request body for creating a booking.
type CreateBookingRequest struct {
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	CustomerPhone string               `json:"customer_phone"`
	ServiceType   services.ServiceType `json:"service_type"`
	TechnicianID  string               `json:"technician_id"`
	StartTime     time.Time            `json:"start_time"`
	// DurationMinutes overrides the catalog estimate when set.
	DurationMinutes int `json:"duration_minutes,omitempty"`
}

// Duration resolves the appointment length, preferring the explicit
// request value over the catalog estimate for the service.
func (r *CreateBookingRequest) Duration() time.Duration {
	if r.DurationMinutes > 0 {
		return time.Duration(r.DurationMinutes) * time.Minute
	}
	return services.EstimatedDuration(r.ServiceType)
}

// NewConfirmationCode derives a short human-readable code from a uuid.
func NewConfirmationCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:8]
}
