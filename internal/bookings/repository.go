package bookings

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homepros/booking-platform/internal/scheduling"
	"github.com/homepros/booking-platform/internal/services"
)

// Store defines the persistence contract for bookings. CreateChecked
// and RescheduleChecked are atomic: the conflict test and the write
// happen under the same guard so two concurrent callers cannot both
// observe a free window.
type Store interface {
	GetByID(ctx context.Context, id string) (*Booking, error)
	// ListForTechnician returns all non-cancelled bookings for the
	// technician whose interval intersects [from, to).
	ListForTechnician(ctx context.Context, technicianID string, from, to time.Time) ([]*Booking, error)
	// CreateChecked inserts the booking after re-checking the
	// technician's window inside the store's own isolation scope.
	// Returns *ConflictError when the guarded interval is taken.
	CreateChecked(ctx context.Context, b *Booking) (*Booking, error)
	// RescheduleChecked moves an existing booking under the same guard.
	RescheduleChecked(ctx context.Context, id string, newStart, newEnd time.Time) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error)
}

// InMemoryStore keeps bookings in a map guarded by a single mutex, which
// serializes conflict check and insert the way the database transaction
// does in production. Used by tests and by local runs without Postgres.
type InMemoryStore struct {
	mu       sync.Mutex
	bookings map[string]*Booking
}

// NewInMemoryStore creates an empty in-memory booking store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{bookings: make(map[string]*Booking)}
}

// GetByID retrieves a booking by id.
func (s *InMemoryStore) GetByID(ctx context.Context, id string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

// ListForTechnician returns intersecting non-cancelled bookings sorted
// by start time.
func (s *InMemoryStore) ListForTechnician(ctx context.Context, technicianID string, from, to time.Time) ([]*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(technicianID, from, to), nil
}

func (s *InMemoryStore) listLocked(technicianID string, from, to time.Time) []*Booking {
	var out []*Booking
	for _, b := range s.bookings {
		if b.TechnicianID != technicianID || b.Status == StatusCancelled {
			continue
		}
		if scheduling.Overlaps(b.StartTime, b.EndTime, from, to) {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// CreateChecked re-checks the guarded window under the store mutex and
// inserts when free.
func (s *InMemoryStore) CreateChecked(ctx context.Context, b *Booking) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conflictLocked(b.TechnicianID, b.ServiceType, b.StartTime, b.EndTime, ""); err != nil {
		return nil, err
	}

	clone := *b
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.bookings[clone.ID] = &clone

	result := clone
	return &result, nil
}

// RescheduleChecked moves a booking, ignoring its own row in the
// conflict test.
func (s *InMemoryStore) RescheduleChecked(ctx context.Context, id string, newStart, newEnd time.Time) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status == StatusCancelled {
		return nil, ErrBookingCancelled
	}
	if err := s.conflictLocked(b.TechnicianID, b.ServiceType, newStart, newEnd, id); err != nil {
		return nil, err
	}

	b.StartTime = newStart
	b.EndTime = newEnd
	b.UpdatedAt = time.Now().UTC()
	clone := *b
	return &clone, nil
}

// UpdateStatus transitions a booking's status. Rows are never removed.
func (s *InMemoryStore) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	clone := *b
	return &clone, nil
}

func (s *InMemoryStore) conflictLocked(technicianID string, serviceType services.ServiceType, start, end time.Time, excludeID string) error {
	buf := scheduling.BufferFor(serviceType)
	events := make([]scheduling.Event, 0, len(s.bookings))
	for _, b := range s.bookings {
		if b.ID == excludeID {
			continue
		}
		events = append(events, b.Event())
	}
	if ev, conflict := scheduling.FindConflict(events, technicianID, start, end, buf); conflict {
		return &ConflictError{
			TechnicianID: technicianID,
			Start:        start,
			End:          end,
			Reason: fmt.Sprintf("overlaps booking %s (%s-%s)",
				ev.ID, ev.Start.Format("15:04"), ev.End.Format("15:04")),
		}
	}
	return nil
}
