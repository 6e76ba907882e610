package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/homepros/booking-platform/internal/observability/metrics"
	"github.com/homepros/booking-platform/internal/scheduling"
	"github.com/homepros/booking-platform/internal/services"
	"github.com/homepros/booking-platform/internal/technicians"
	"github.com/homepros/booking-platform/pkg/logging"
)

var bookingsTracer = otel.Tracer("homepros.internal.bookings")

// Notifier hands a finalized booking to the notification pipeline.
// Delivery is best-effort: failures are logged and never block booking
// creation.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, b *Booking) error
}

// Service orchestrates validation, conflict checking, and persistence
// for bookings.
type Service struct {
	store     Store
	validator *Validator
	checker   *ConflictChecker
	generator *scheduling.SlotGenerator
	roster    technicians.Repository
	notifier  Notifier
	locker    Locker
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
}

// NewService constructs a bookings service. Notifier, locker, and
// metrics are optional.
func NewService(store Store, validator *Validator, checker *ConflictChecker, generator *scheduling.SlotGenerator, roster technicians.Repository, notifier Notifier, locker Locker, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:     store,
		validator: validator,
		checker:   checker,
		generator: generator,
		roster:    roster,
		notifier:  notifier,
		locker:    locker,
		metrics:   m,
		logger:    logger,
	}
}

// Location returns the business timezone. Availability dates are
// calendar days in this location, not UTC.
func (s *Service) Location() *time.Location {
	if s.generator == nil {
		return time.UTC
	}
	return s.generator.Hours().Location
}

// Get fetches a booking by id.
func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.store.GetByID(ctx, id)
}

// Availability computes the free slots for a service on a date. When
// technicianID is set only that technician's slots are considered.
// Results are always recomputed from the store: a booking committed a
// moment ago must be absent from this response.
func (s *Service) Availability(ctx context.Context, serviceType services.ServiceType, date time.Time, technicianID string) ([]scheduling.AvailableSlot, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.availability")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.service_type", string(serviceType)),
		attribute.String("booking.date", date.Format("2006-01-02")),
	)
	start := time.Now()

	var ids []string
	if technicianID != "" {
		ids = []string{technicianID}
	} else if s.roster != nil {
		var err error
		ids, err = s.roster.ActiveIDs(ctx)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	slots := s.generator.GenerateSlots(date, ids)
	if len(slots) == 0 {
		return nil, nil
	}

	hours := s.generator.Hours()
	from := hours.Opening(date).Add(-2 * time.Hour)
	to := hours.Closing(date).Add(2 * time.Hour)

	var events []scheduling.Event
	for _, id := range ids {
		existing, err := s.store.ListForTechnician(ctx, id, from, to)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		for _, b := range existing {
			events = append(events, b.Event())
		}
	}

	available := scheduling.ComputeAvailable(slots, events, serviceType)
	s.metrics.ObserveAvailabilityLatency(time.Since(start).Seconds())
	return available, nil
}

// CreateBooking validates the request, then performs the authoritative
// conflict-checked insert. Validation failures come back as
// *ValidationFailedError and taken slots as *ConflictError with a
// suggested alternative attached; both are recoverable domain outcomes.
func (s *Service) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.service_type", string(req.ServiceType)),
		attribute.String("booking.technician_id", req.TechnicianID),
	)

	if s.validator != nil {
		result, err := s.validator.Validate(ctx, req)
		if err != nil {
			span.RecordError(err)
			s.metrics.ObserveCreated("error")
			return nil, err
		}
		if !result.Valid {
			s.metrics.ObserveCreated("invalid")
			return nil, &ValidationFailedError{Result: result}
		}
	}

	booking := &Booking{
		ID:               uuid.NewString(),
		TechnicianID:     req.TechnicianID,
		ServiceType:      req.ServiceType,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		StartTime:        req.StartTime,
		EndTime:          req.StartTime.Add(req.Duration()),
		Status:           StatusConfirmed,
		ConfirmationCode: NewConfirmationCode(),
	}

	created, err := s.createChecked(ctx, booking)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			s.metrics.ObserveConflict()
			s.metrics.ObserveCreated("conflict")
			s.attachSuggestion(ctx, conflict, req)
			s.logger.Info("booking conflict",
				"technician_id", req.TechnicianID,
				"start", req.StartTime,
				"reason", conflict.Reason,
			)
			return nil, conflict
		}
		span.RecordError(err)
		s.metrics.ObserveCreated("error")
		return nil, err
	}

	s.metrics.ObserveCreated("confirmed")
	s.logger.Info("booking created",
		"booking_id", created.ID,
		"technician_id", created.TechnicianID,
		"service_type", created.ServiceType,
		"start", created.StartTime,
		"confirmation_code", created.ConfirmationCode,
	)

	s.notify(ctx, created)
	return created, nil
}

func (s *Service) createChecked(ctx context.Context, b *Booking) (*Booking, error) {
	if s.locker == nil {
		return s.store.CreateChecked(ctx, b)
	}
	var created *Booking
	err := s.locker.WithLock(ctx, b.TechnicianID, func(ctx context.Context) error {
		var innerErr error
		created, innerErr = s.store.CreateChecked(ctx, b)
		return innerErr
	})
	return created, err
}

func (s *Service) attachSuggestion(ctx context.Context, conflict *ConflictError, req *CreateBookingRequest) {
	if s.checker == nil {
		return
	}
	slot, err := s.checker.SuggestAlternative(ctx, req.TechnicianID, req.ServiceType, req.StartTime, 7)
	if err != nil {
		s.logger.Warn("alternative slot lookup failed", "error", err)
		return
	}
	conflict.Suggested = slot
}

// Reschedule moves a booking to a new start, keeping its duration. The
// 24-hour cutoff applies; inside the window a *CutoffError is returned
// with the remaining hours for display.
func (s *Service) Reschedule(ctx context.Context, id string, newStart time.Time) (*Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.reschedule")
	defer span.End()

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusCancelled {
		return nil, ErrBookingCancelled
	}

	if s.validator != nil {
		if cutoff := s.validator.CheckModifyCutoff(current.StartTime); !cutoff.Allowed {
			return nil, &CutoffError{HoursRemaining: cutoff.HoursRemaining}
		}
	}

	duration := current.EndTime.Sub(current.StartTime)
	moved, err := s.store.RescheduleChecked(ctx, id, newStart, newStart.Add(duration))
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			s.metrics.ObserveConflict()
			return nil, conflict
		}
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("booking rescheduled", "booking_id", id, "start", newStart)
	return moved, nil
}

// Cancel marks a booking cancelled; the row stays for audit history.
// The 24-hour cutoff applies just as for reschedules.
func (s *Service) Cancel(ctx context.Context, id string) (*Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.cancel")
	defer span.End()

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusCancelled {
		return current, nil
	}

	if s.validator != nil {
		if cutoff := s.validator.CheckModifyCutoff(current.StartTime); !cutoff.Allowed {
			return nil, &CutoffError{HoursRemaining: cutoff.HoursRemaining}
		}
	}

	cancelled, err := s.store.UpdateStatus(ctx, id, StatusCancelled)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info("booking cancelled", "booking_id", id)
	return cancelled, nil
}

func (s *Service) notify(ctx context.Context, b *Booking) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBookingConfirmed(ctx, b); err != nil {
		s.logger.Warn("booking notification failed", "booking_id", b.ID, "error", err)
	}
}
