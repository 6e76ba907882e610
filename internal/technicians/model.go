package technicians

import "time"

// Status captures whether a technician can take new bookings.
type Status string

const (
	StatusAvailable Status = "available"
	StatusOnLeave   Status = "on_leave"
	StatusSuspended Status = "suspended"
)

// Technician represents a field technician on the roster.
type Technician struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookable reports whether the technician may receive new bookings.
func (t *Technician) Bookable() bool {
	return t.Status == StatusAvailable
}
