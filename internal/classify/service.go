package classify

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/homepros/booking-platform/internal/observability/metrics"
	"github.com/homepros/booking-platform/pkg/logging"
)

var classifyTracer = otel.Tracer("homepros.internal.classify")

// Service routes classification through the LLM when the circuit
// breaker permits, substituting the deterministic fallback otherwise.
// A classification is always produced; LLM trouble is never surfaced to
// the customer.
type Service struct {
	primary  Classifier
	fallback *FallbackClassifier
	breaker  *CircuitBreaker
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewService builds the classification service. Primary may be nil, in
// which case every request takes the fallback path.
func NewService(primary Classifier, breaker *CircuitBreaker, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if breaker == nil {
		breaker = NewCircuitBreaker(0, 0, nil)
	}
	return &Service{
		primary:  primary,
		fallback: NewFallbackClassifier(),
		breaker:  breaker,
		metrics:  m,
		logger:   logger,
	}
}

// Classify produces a classification for the customer's free text.
func (s *Service) Classify(ctx context.Context, text string) ServiceClassification {
	ctx, span := classifyTracer.Start(ctx, "classify.request")
	defer span.End()

	if s.primary != nil && s.breaker.Allow() {
		result, err := s.primary.Classify(ctx, text)
		if err == nil {
			s.breaker.RecordSuccess()
			s.metrics.ObserveClassification(SourceLLM)
			span.SetAttributes(
				attribute.String("classify.source", SourceLLM),
				attribute.String("classify.service_type", string(result.ServiceType)),
			)
			return result
		}
		s.breaker.RecordFailure()
		s.logger.Warn("llm classification failed, using fallback",
			"error", err,
			"breaker_state", string(s.breaker.State().Status),
		)
	}

	result := s.fallback.Classify(text)
	s.metrics.ObserveClassification(SourceFallback)
	span.SetAttributes(
		attribute.String("classify.source", SourceFallback),
		attribute.String("classify.service_type", string(result.ServiceType)),
	)
	return result
}
