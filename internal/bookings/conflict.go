package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/homepros/booking-platform/internal/scheduling"
	"github.com/homepros/booking-platform/internal/services"
)

// ConflictCheck is the outcome of a non-binding conflict probe.
type ConflictCheck struct {
	CanBook bool   `json:"can_book"`
	Reason  string `json:"reason,omitempty"`
}

// ConflictChecker answers "may this booking be placed" questions. The
// probe here is advisory; the binding check runs inside the store
// transaction at insert time with the identical overlap+buffer test.
type ConflictChecker struct {
	store     Store
	generator *scheduling.SlotGenerator
}

// NewConflictChecker builds a checker over the booking store.
func NewConflictChecker(store Store, generator *scheduling.SlotGenerator) *ConflictChecker {
	return &ConflictChecker{store: store, generator: generator}
}

// CheckConflict probes whether the proposed window is currently free.
func (c *ConflictChecker) CheckConflict(ctx context.Context, technicianID string, start, end time.Time, serviceType services.ServiceType) (ConflictCheck, error) {
	buf := scheduling.BufferFor(serviceType)
	guardStart := start.Add(-buf.Before)
	guardEnd := end.Add(buf.After)

	existing, err := c.store.ListForTechnician(ctx, technicianID, guardStart, guardEnd)
	if err != nil {
		return ConflictCheck{}, fmt.Errorf("bookings: conflict probe: %w", err)
	}

	events := make([]scheduling.Event, 0, len(existing))
	for _, b := range existing {
		events = append(events, b.Event())
	}
	if ev, conflict := scheduling.FindConflict(events, technicianID, start, end, buf); conflict {
		return ConflictCheck{
			CanBook: false,
			Reason: fmt.Sprintf("technician is booked %s-%s",
				ev.Start.Format("15:04"), ev.End.Format("15:04")),
		}, nil
	}
	return ConflictCheck{CanBook: true}, nil
}

// SuggestAlternative scans forward from the given instant and returns
// the technician's next free slot, so a rejected caller gets a concrete
// "pick this instead" offer. Looks ahead up to horizonDays.
func (c *ConflictChecker) SuggestAlternative(ctx context.Context, technicianID string, serviceType services.ServiceType, after time.Time, horizonDays int) (*scheduling.AvailableSlot, error) {
	if c.generator == nil {
		return nil, nil
	}
	if horizonDays <= 0 {
		horizonDays = 7
	}

	hours := c.generator.Hours()
	days := make([]scheduling.DayCandidates, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		date := after.AddDate(0, 0, i)
		slots := c.generator.GenerateSlots(date, []string{technicianID})
		if len(slots) == 0 {
			continue
		}

		// Read a margin wider than the day so buffered neighbors count.
		from := hours.Opening(date).Add(-2 * time.Hour)
		to := hours.Closing(date).Add(2 * time.Hour)
		existing, err := c.store.ListForTechnician(ctx, technicianID, from, to)
		if err != nil {
			return nil, fmt.Errorf("bookings: suggest alternative: %w", err)
		}
		events := make([]scheduling.Event, 0, len(existing))
		for _, b := range existing {
			events = append(events, b.Event())
		}
		days = append(days, scheduling.DayCandidates{Date: date, Slots: slots, Events: events})
	}

	slot, ok := scheduling.FindNextAvailable(days, serviceType, after)
	if !ok {
		return nil, nil
	}
	return &slot, nil
}
