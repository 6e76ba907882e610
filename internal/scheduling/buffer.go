package scheduling

import (
	"time"

	"github.com/homepros/booking-platform/internal/services"
)

// Buffer is the setup/cleanup padding required around an appointment.
type Buffer struct {
	Before time.Duration `json:"before"`
	After  time.Duration `json:"after"`
}

// defaultBuffer applies to service types without a tuned entry.
var defaultBuffer = Buffer{Before: 15 * time.Minute, After: 15 * time.Minute}

// bufferTable holds hand-tuned per-category padding. Trailing buffers
// are generally larger because cleanup dominates setup for most trades.
var bufferTable = map[services.ServiceType]Buffer{
	services.Plumbing:           {Before: 15 * time.Minute, After: 30 * time.Minute},
	services.Electrical:         {Before: 15 * time.Minute, After: 15 * time.Minute},
	services.HVAC:               {Before: 30 * time.Minute, After: 30 * time.Minute},
	services.Roofing:            {Before: 30 * time.Minute, After: 45 * time.Minute},
	services.Painting:           {Before: 15 * time.Minute, After: 30 * time.Minute},
	services.Locksmith:          {Before: 0, After: 15 * time.Minute},
	services.Glazier:            {Before: 15 * time.Minute, After: 15 * time.Minute},
	services.Cleaning:           {Before: 0, After: 30 * time.Minute},
	services.PestControl:        {Before: 15 * time.Minute, After: 30 * time.Minute},
	services.ApplianceRepair:    {Before: 15 * time.Minute, After: 15 * time.Minute},
	services.GarageDoor:         {Before: 15 * time.Minute, After: 15 * time.Minute},
	services.Handyman:           {Before: 15 * time.Minute, After: 15 * time.Minute},
	services.GeneralMaintenance: {Before: 15 * time.Minute, After: 15 * time.Minute},
}

// BufferFor returns the padding for a service type. Unknown types get
// the default entry; this lookup never fails.
func BufferFor(t services.ServiceType) Buffer {
	if b, ok := bufferTable[t]; ok {
		return b
	}
	return defaultBuffer
}
