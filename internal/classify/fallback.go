package classify

import (
	"fmt"
	"strings"
	"time"

	"github.com/homepros/booking-platform/internal/services"
)

// category pairs a service type with its detection vocabulary. Keyword
// stems score the category; the urgency buckets grade severity within a
// winning category, checked from most to least severe.
type category struct {
	serviceType services.ServiceType
	stems       []string
	emergency   []string
	high        []string
	medium      []string
	low         []string
}

var categories = []category{
	{
		serviceType: services.Plumbing,
		stems:       []string{"sink", "leak", "pipe", "drain", "faucet", "toilet", "water heater", "clog", "plumb"},
		emergency:   []string{"gushing", "burst", "flood", "sewage", "overflowing"},
		high:        []string{"no hot water", "won't stop", "constantly"},
		medium:      []string{"dripping", "slow drain", "running toilet"},
		low:         []string{"someday", "quote", "estimate"},
	},
	{
		serviceType: services.Electrical,
		stems:       []string{"outlet", "breaker", "wiring", "light switch", "electri", "fuse", "panel", "sparking"},
		emergency:   []string{"sparking", "burning smell", "smoke", "shock"},
		high:        []string{"no power", "keeps tripping", "dead outlet"},
		medium:      []string{"flickering", "dimming"},
		low:         []string{"install", "upgrade", "add an outlet"},
	},
	{
		serviceType: services.HVAC,
		stems:       []string{"furnace", "air condition", "heating", "cooling", "thermostat", "hvac", "ac unit", "heat pump"},
		emergency:   []string{"no heat", "freezing", "gas smell"},
		high:        []string{"not cooling", "not heating", "blowing warm"},
		medium:      []string{"noisy", "weak airflow", "strange noise"},
		low:         []string{"tune-up", "maintenance", "filter"},
	},
	{
		serviceType: services.Roofing,
		stems:       []string{"roof", "shingle", "gutter", "chimney", "skylight"},
		emergency:   []string{"caving", "collapsed", "hole in"},
		high:        []string{"leaking", "missing shingles", "storm damage"},
		medium:      []string{"sagging", "stained ceiling"},
		low:         []string{"inspection", "estimate"},
	},
	{
		serviceType: services.Painting,
		stems:       []string{"paint", "repaint", "wall color", "primer", "stain the"},
		emergency:   nil,
		high:        []string{"before move", "deadline"},
		medium:      []string{"peeling", "faded"},
		low:         []string{"someday", "thinking about"},
	},
	{
		serviceType: services.Locksmith,
		stems:       []string{"lock", "key", "deadbolt", "locked out", "rekey"},
		emergency:   []string{"locked out", "break-in", "broken into"},
		high:        []string{"won't lock", "stuck key"},
		medium:      []string{"sticky lock", "spare key"},
		low:         []string{"upgrade", "smart lock"},
	},
	{
		serviceType: services.Glazier,
		stems:       []string{"window", "glass", "pane", "mirror", "shower door"},
		emergency:   []string{"shattered", "broken window"},
		high:        []string{"cracked", "won't close"},
		medium:      []string{"foggy", "drafty"},
		low:         []string{"replace someday", "double glazing"},
	},
	{
		serviceType: services.Cleaning,
		stems:       []string{"clean", "maid", "housekeeping", "deep clean", "carpet"},
		emergency:   nil,
		high:        []string{"before guests", "move-out", "tomorrow"},
		medium:      []string{"weekly", "regular"},
		low:         []string{"sometime", "eventually"},
	},
	{
		serviceType: services.PestControl,
		stems:       []string{"pest", "rodent", "mice", "rats", "roach", "ant", "termite", "wasp", "bed bug"},
		emergency:   []string{"infestation", "swarm", "everywhere in the house"},
		high:        []string{"nest", "keep coming back"},
		medium:      []string{"saw a", "spotted"},
		low:         []string{"prevention", "seasonal"},
	},
	{
		serviceType: services.ApplianceRepair,
		stems:       []string{"fridge", "refrigerator", "dishwasher", "washer", "dryer", "oven", "stove", "microwave", "appliance"},
		emergency:   []string{"smoking", "sparking"},
		high:        []string{"not working", "stopped working", "won't start", "leaking"},
		medium:      []string{"making noise", "not draining"},
		low:         []string{"old", "upgrade"},
	},
	{
		serviceType: services.GarageDoor,
		stems:       []string{"garage door", "garage opener", "door spring"},
		emergency:   []string{"stuck open", "off the track"},
		high:        []string{"won't open", "won't close"},
		medium:      []string{"noisy", "slow"},
		low:         []string{"keypad", "new remote"},
	},
	{
		serviceType: services.Handyman,
		stems:       []string{"handyman", "shelf", "shelves", "mount", "assemble", "drywall", "fence", "deck", "door hinge"},
		emergency:   nil,
		high:        []string{"safety hazard", "about to fall"},
		medium:      []string{"loose", "wobbly"},
		low:         []string{"odd jobs", "small jobs", "honey-do"},
	},
}

const (
	baseConfidence      = 0.5
	perHitConfidence    = 0.15
	maxConfidence       = 0.95
	ambiguityPenalty    = 0.85
	noMatchConfidence   = 0.3
	ambiguityGapMinimum = 1
)

// FallbackClassifier is the deterministic keyword backstop for the LLM
// path. It does no I/O and consults no clock, so identical input always
// yields the identical classification.
type FallbackClassifier struct{}

// NewFallbackClassifier creates the keyword classifier.
func NewFallbackClassifier() *FallbackClassifier {
	return &FallbackClassifier{}
}

// Classify scores the input against every category's keyword stems and
// derives urgency from the winner's severity buckets. Input with no
// recognizable keywords falls back to general maintenance at low
// urgency and reduced confidence.
func (c *FallbackClassifier) Classify(text string) ServiceClassification {
	lower := strings.ToLower(text)

	type scored struct {
		cat     category
		hits    int
		urgency Urgency
	}
	var winner, runnerUp *scored

	for _, cat := range categories {
		hits := 0
		for _, stem := range cat.stems {
			hits += strings.Count(lower, stem)
		}
		if hits == 0 {
			continue
		}
		s := &scored{cat: cat, hits: hits, urgency: deriveUrgency(cat, lower)}

		switch {
		case winner == nil:
			winner = s
		case s.hits > winner.hits,
			s.hits == winner.hits && s.urgency.rank() > winner.urgency.rank():
			runnerUp = winner
			winner = s
		case runnerUp == nil || s.hits > runnerUp.hits:
			runnerUp = s
		}
	}

	if winner == nil {
		return ServiceClassification{
			ServiceType:              services.GeneralMaintenance,
			Urgency:                  UrgencyLow,
			Confidence:               noMatchConfidence,
			Reasoning:                "no service keywords recognized",
			EstimatedDurationMinutes: estimateMinutes(services.GeneralMaintenance),
			Source:                   SourceFallback,
		}
	}

	confidence := baseConfidence + float64(winner.hits)*perHitConfidence
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	reasoning := fmt.Sprintf("matched %d %s keyword(s)", winner.hits, winner.cat.serviceType)
	if runnerUp != nil && winner.hits-runnerUp.hits <= ambiguityGapMinimum {
		confidence *= ambiguityPenalty
		reasoning += fmt.Sprintf("; ambiguous with %s (%d hit(s))", runnerUp.cat.serviceType, runnerUp.hits)
	}

	return ServiceClassification{
		ServiceType:              winner.cat.serviceType,
		Urgency:                  winner.urgency,
		Confidence:               confidence,
		Reasoning:                reasoning,
		EstimatedDurationMinutes: estimateMinutes(winner.cat.serviceType),
		Source:                   SourceFallback,
	}
}

// deriveUrgency checks the severity buckets from most to least severe;
// the first bucket with a hit wins, defaulting to medium.
func deriveUrgency(cat category, lower string) Urgency {
	buckets := []struct {
		urgency Urgency
		words   []string
	}{
		{UrgencyEmergency, cat.emergency},
		{UrgencyHigh, cat.high},
		{UrgencyMedium, cat.medium},
		{UrgencyLow, cat.low},
	}
	for _, b := range buckets {
		for _, w := range b.words {
			if strings.Contains(lower, w) {
				return b.urgency
			}
		}
	}
	return UrgencyMedium
}

func estimateMinutes(t services.ServiceType) int {
	return int(services.EstimatedDuration(t) / time.Minute)
}
