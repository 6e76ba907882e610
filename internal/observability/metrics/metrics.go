// Package metrics registers Prometheus collectors for the booking
// platform. All observation methods are nil-safe so callers can run
// without metrics wired.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics groups the collectors the booking and classification
// paths report into.
type BookingMetrics struct {
	bookingsTotal           *prometheus.CounterVec
	conflictsTotal          prometheus.Counter
	classificationsBySource *prometheus.CounterVec
	availabilityLatency     prometheus.Histogram
}

// NewBookingMetrics creates and registers the collectors on the given
// registerer. Pass prometheus.DefaultRegisterer in production.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_requests_total",
			Help: "Booking creation attempts by outcome.",
		}, []string{"outcome"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Booking attempts rejected because the slot was taken.",
		}),
		classificationsBySource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "service_classifications_total",
			Help: "Service request classifications by source (llm, fallback).",
		}, []string{"source"}),
		availabilityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "availability_query_duration_seconds",
			Help:    "Latency of availability computations.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.bookingsTotal, m.conflictsTotal, m.classificationsBySource, m.availabilityLatency)
	}
	return m
}

// ObserveCreated counts a booking attempt by outcome
// (confirmed, conflict, invalid, error).
func (m *BookingMetrics) ObserveCreated(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveConflict counts a slot-taken rejection.
func (m *BookingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

// ObserveClassification counts a classification by its source.
func (m *BookingMetrics) ObserveClassification(source string) {
	if m == nil {
		return
	}
	m.classificationsBySource.WithLabelValues(source).Inc()
}

// ObserveAvailabilityLatency records one availability query duration.
func (m *BookingMetrics) ObserveAvailabilityLatency(seconds float64) {
	if m == nil {
		return
	}
	m.availabilityLatency.Observe(seconds)
}
