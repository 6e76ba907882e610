// Package classify turns free-text customer requests into a structured
// service classification. The primary path is an LLM; a deterministic
// keyword classifier backstops it behind a circuit breaker so customers
// never see an outage.
package classify

import (
	"github.com/homepros/booking-platform/internal/services"
)

// Urgency grades how quickly a request needs attention.
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

// rank orders urgencies for tie-breaking; higher is more severe.
func (u Urgency) rank() int {
	switch u {
	case UrgencyEmergency:
		return 3
	case UrgencyHigh:
		return 2
	case UrgencyMedium:
		return 1
	default:
		return 0
	}
}

// Source names which path produced a classification.
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// ServiceClassification is the structured read of a customer request.
type ServiceClassification struct {
	ServiceType              services.ServiceType `json:"service_type"`
	Urgency                  Urgency              `json:"urgency"`
	Confidence               float64              `json:"confidence"`
	Reasoning                string               `json:"reasoning,omitempty"`
	EstimatedDurationMinutes int                  `json:"estimated_duration_minutes"`
	Source                   string               `json:"source"`
}
