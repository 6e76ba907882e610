package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/homepros/booking-platform/internal/bookings"
	"github.com/homepros/booking-platform/internal/services"
	"github.com/homepros/booking-platform/pkg/logging"
)

// BookingConfirmedEvent is the queue payload for a confirmed booking;
// the dispatch worker turns it into SMS and calendar entries.
type BookingConfirmedEvent struct {
	EventType        string    `json:"event_type"`
	BookingID        string    `json:"booking_id"`
	TechnicianID     string    `json:"technician_id"`
	ServiceType      string    `json:"service_type"`
	CustomerName     string    `json:"customer_name"`
	CustomerPhone    string    `json:"customer_phone,omitempty"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	ConfirmationCode string    `json:"confirmation_code"`
}

// Service fans a confirmed booking out to email and the event queue.
type Service struct {
	email  EmailSender
	queue  Queue
	logger *logging.Logger
}

// NewService creates the notification service. Email and queue are each
// optional; missing channels are skipped.
func NewService(email EmailSender, queue Queue, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, queue: queue, logger: logger}
}

// NotifyBookingConfirmed sends the confirmation email and enqueues the
// dispatch event. Partial failure is reported but channels are
// independent; the email going out does not depend on the queue.
func (s *Service) NotifyBookingConfirmed(ctx context.Context, b *bookings.Booking) error {
	var firstErr error

	if s.email != nil && b.CustomerEmail != "" {
		msg := confirmationEmail(b)
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Warn("confirmation email failed", "booking_id", b.ID, "error", err)
			firstErr = err
		}
	}

	if s.queue != nil {
		event := BookingConfirmedEvent{
			EventType:        "booking.confirmed",
			BookingID:        b.ID,
			TechnicianID:     b.TechnicianID,
			ServiceType:      string(b.ServiceType),
			CustomerName:     b.CustomerName,
			CustomerPhone:    b.CustomerPhone,
			StartTime:        b.StartTime,
			EndTime:          b.EndTime,
			ConfirmationCode: b.ConfirmationCode,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("notify: marshal event: %w", err)
		}
		if err := s.queue.Send(ctx, string(payload)); err != nil {
			s.logger.Warn("notification event enqueue failed", "booking_id", b.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func confirmationEmail(b *bookings.Booking) EmailMessage {
	display := string(b.ServiceType)
	if def, ok := services.Get(b.ServiceType); ok {
		display = def.DisplayName
	}
	return EmailMessage{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: fmt.Sprintf("Your %s appointment is confirmed", display),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s appointment is confirmed for %s.\nConfirmation code: %s\n\nNeed to change it? Reschedules and cancellations close 24 hours before the start time.\n",
			b.CustomerName,
			display,
			b.StartTime.Format("Monday, January 2 at 3:04 PM"),
			b.ConfirmationCode,
		),
	}
}
