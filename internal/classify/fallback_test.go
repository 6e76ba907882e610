package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homepros/booking-platform/internal/services"
)

func TestFallbackRecognizesPlumbingEmergency(t *testing.T) {
	c := NewFallbackClassifier()

	result := c.Classify("My sink is leaking everywhere, water is gushing out!")

	assert.Equal(t, services.Plumbing, result.ServiceType)
	assert.Equal(t, UrgencyEmergency, result.Urgency)
	assert.GreaterOrEqual(t, result.Confidence, 0.8)
	assert.Equal(t, SourceFallback, result.Source)
	assert.Positive(t, result.EstimatedDurationMinutes)
}

func TestFallbackUnrecognizedInput(t *testing.T) {
	c := NewFallbackClassifier()

	result := c.Classify("I need help with something")

	assert.Equal(t, services.GeneralMaintenance, result.ServiceType)
	assert.Equal(t, UrgencyLow, result.Urgency)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestFallbackIsDeterministic(t *testing.T) {
	c := NewFallbackClassifier()
	input := "the garage door is stuck open and won't budge"

	first := c.Classify(input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(input))
	}
}

func TestFallbackCategoryTable(t *testing.T) {
	c := NewFallbackClassifier()

	tests := []struct {
		name    string
		input   string
		want    services.ServiceType
		urgency Urgency
	}{
		{"electrical emergency", "the outlet is sparking and there is a burning smell", services.Electrical, UrgencyEmergency},
		{"hvac no heat", "our furnace died and the house has no heat, we are freezing", services.HVAC, UrgencyEmergency},
		{"roof storm", "shingles blew off the roof in the storm and now it's leaking", services.Roofing, UrgencyHigh},
		{"locked out", "I'm locked out of my house, the key snapped in the lock", services.Locksmith, UrgencyEmergency},
		{"broken window", "a baseball shattered our front window glass", services.Glazier, UrgencyEmergency},
		{"pest sighting", "I spotted a roach in the kitchen", services.PestControl, UrgencyMedium},
		{"appliance down", "the dishwasher stopped working mid-cycle", services.ApplianceRepair, UrgencyHigh},
		{"garage stuck", "garage door is stuck open", services.GarageDoor, UrgencyEmergency},
		{"default medium", "need a plumber to look at the pipe", services.Plumbing, UrgencyMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(tt.input)
			assert.Equal(t, tt.want, result.ServiceType, "reasoning: %s", result.Reasoning)
			assert.Equal(t, tt.urgency, result.Urgency)
		})
	}
}

func TestFallbackAmbiguityPenaltyNamesRunnerUp(t *testing.T) {
	c := NewFallbackClassifier()

	// One plumbing stem and one electrical stem: near-tie.
	result := c.Classify("the sink light switch is acting up")

	require.Contains(t, result.Reasoning, "ambiguous with")
	// base 0.5 + 1 hit 0.15, then the 0.85 ambiguity penalty.
	assert.InDelta(t, 0.5525, result.Confidence, 0.0001)
}

func TestFallbackMoreHitsMeansMoreConfidence(t *testing.T) {
	c := NewFallbackClassifier()

	one := c.Classify("the faucet is odd")
	three := c.Classify("the faucet by the sink has a leak")

	assert.Greater(t, three.Confidence, one.Confidence)
	assert.LessOrEqual(t, three.Confidence, 0.95)
}
