package scheduling

import (
	"time"
)

// Hours describes the business operating window in its local timezone.
type Hours struct {
	Location  *time.Location
	OpenHour  int
	CloseHour int
	OffDay    time.Weekday
}

// NewHours builds an Hours value, defaulting to 09:00-17:00 UTC with
// Sunday off when inputs are zero or out of range.
func NewHours(loc *time.Location, openHour, closeHour int, offDay time.Weekday) Hours {
	if loc == nil {
		loc = time.UTC
	}
	if openHour <= 0 && closeHour <= 0 {
		openHour, closeHour = 9, 17
	}
	if closeHour <= openHour {
		closeHour = openHour + 8
	}
	return Hours{Location: loc, OpenHour: openHour, CloseHour: closeHour, OffDay: offDay}
}

// Closing returns the closing instant for the given calendar date.
func (h Hours) Closing(date time.Time) time.Time {
	y, m, d := date.In(h.Location).Date()
	return time.Date(y, m, d, h.CloseHour, 0, 0, 0, h.Location)
}

// Opening returns the opening instant for the given calendar date.
func (h Hours) Opening(date time.Time) time.Time {
	y, m, d := date.In(h.Location).Date()
	return time.Date(y, m, d, h.OpenHour, 0, 0, 0, h.Location)
}

// SlotGenerator produces raw candidate slots from business hours.
// Technician assignment comes from the roster ids passed per call; the
// generator owns no roster state and performs no I/O.
type SlotGenerator struct {
	hours     Hours
	slotWidth time.Duration
}

// NewSlotGenerator creates a generator with the given operating window
// and slot width. A non-positive width defaults to one hour.
func NewSlotGenerator(hours Hours, slotWidth time.Duration) *SlotGenerator {
	if slotWidth <= 0 {
		slotWidth = time.Hour
	}
	return &SlotGenerator{hours: hours, slotWidth: slotWidth}
}

// Hours exposes the configured operating window.
func (g *SlotGenerator) Hours() Hours {
	return g.hours
}

// GenerateSlots returns the candidate slots for a calendar date, in
// strictly increasing start order. The business off-day yields no slots.
// Technician ids are assigned round-robin from the provided roster; an
// empty roster produces unassigned slots, which availability treats as
// unconstrained and the booking validator rejects.
func (g *SlotGenerator) GenerateSlots(date time.Time, technicianIDs []string) []TimeSlot {
	local := date.In(g.hours.Location)
	if local.Weekday() == g.hours.OffDay {
		return nil
	}

	open := g.hours.Opening(local)
	closing := g.hours.Closing(local)

	var slots []TimeSlot
	i := 0
	for start := open; !start.Add(g.slotWidth).After(closing); start = start.Add(g.slotWidth) {
		end := start.Add(g.slotWidth)
		tech := ""
		if len(technicianIDs) > 0 {
			tech = technicianIDs[i%len(technicianIDs)]
		}
		slots = append(slots, TimeSlot{
			Start:           start,
			End:             end,
			DurationMinutes: int(g.slotWidth / time.Minute),
			TechnicianID:    tech,
			Available:       true,
		})
		i++
	}
	return slots
}
