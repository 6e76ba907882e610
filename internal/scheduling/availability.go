package scheduling

import (
	"time"

	"github.com/homepros/booking-platform/internal/services"
)

// ComputeAvailable filters candidate slots against existing events using
// the service's buffer. A slot survives when it is marked available and
// no non-cancelled event for the same technician overlaps its guarded
// interval. Results are recomputed on every call; a booking committed
// between calls must show up in the next read.
func ComputeAvailable(candidates []TimeSlot, events []Event, serviceType services.ServiceType) []AvailableSlot {
	buf := BufferFor(serviceType)
	out := make([]AvailableSlot, 0, len(candidates))
	for _, slot := range candidates {
		if !slot.Available {
			continue
		}
		if _, conflict := FindConflict(events, slot.TechnicianID, slot.Start, slot.End, buf); conflict {
			continue
		}
		out = append(out, AvailableSlot{
			Start:           slot.Start,
			End:             slot.End,
			DurationMinutes: slot.DurationMinutes,
			TechnicianID:    slot.TechnicianID,
		})
	}
	return out
}

// DayCandidates pairs one date's candidate slots with the events already
// on the calendar for that date.
type DayCandidates struct {
	Date   time.Time
	Slots  []TimeSlot
	Events []Event
}

// FindNextAvailable scans days in the order given and returns the first
// available slot starting at or after the given instant. The second
// return value is false when every day is exhausted.
func FindNextAvailable(days []DayCandidates, serviceType services.ServiceType, after time.Time) (AvailableSlot, bool) {
	for _, day := range days {
		for _, slot := range ComputeAvailable(day.Slots, day.Events, serviceType) {
			if slot.Start.Before(after) {
				continue
			}
			return slot, true
		}
	}
	return AvailableSlot{}, false
}
