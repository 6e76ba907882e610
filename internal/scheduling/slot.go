package scheduling

import (
	"time"

	"github.com/homepros/booking-platform/internal/services"
)

// TimeSlot is a candidate interval produced by the slot generator.
// Derived data, generated fresh per request and never persisted.
type TimeSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	TechnicianID    string    `json:"technician_id"`
	Available       bool      `json:"available"`
}

// AvailableSlot is a TimeSlot that survived conflict filtering.
type AvailableSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	TechnicianID    string    `json:"technician_id"`
}

// Event is the scheduling view of a persisted booking or calendar entry.
type Event struct {
	ID           string
	TechnicianID string
	ServiceType  services.ServiceType
	Start        time.Time
	End          time.Time
	Cancelled    bool
}

// Overlaps reports whether two half-open intervals [s1,e1) and [s2,e2)
// intersect. Back-to-back intervals do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FindConflict returns the first non-cancelled event for the same
// technician that overlaps the guarded interval [start-buf.Before,
// end+buf.After). Events for other technicians never conflict. A slot
// with an empty technician id is unconstrained and conflicts with
// nothing; callers that require an assignee must reject it upstream.
func FindConflict(events []Event, technicianID string, start, end time.Time, buf Buffer) (Event, bool) {
	if technicianID == "" {
		return Event{}, false
	}
	guardStart := start.Add(-buf.Before)
	guardEnd := end.Add(buf.After)
	for _, ev := range events {
		if ev.Cancelled {
			continue
		}
		if ev.TechnicianID != technicianID {
			continue
		}
		if Overlaps(guardStart, guardEnd, ev.Start, ev.End) {
			return ev, true
		}
	}
	return Event{}, false
}
