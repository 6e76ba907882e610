package classify

import (
	"strings"

	"github.com/homepros/booking-platform/internal/services"
)

// normalizeThreshold is the maximum edit distance at which a raw LLM
// category name is still mapped onto a known service type.
const normalizeThreshold = 3

// NormalizeServiceType maps a raw category name from the LLM onto the
// fixed service-type enum. Matching is case- and separator-insensitive
// with an edit-distance tolerance for minor spelling drift; anything
// beyond the threshold falls back to general maintenance. The returned
// distance is 0 for exact matches.
func NormalizeServiceType(raw string) (services.ServiceType, int) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.NewReplacer(" ", "_", "-", "_").Replace(cleaned)
	if cleaned == "" {
		return services.GeneralMaintenance, normalizeThreshold + 1
	}

	if services.Exists(services.ServiceType(cleaned)) {
		return services.ServiceType(cleaned), 0
	}

	best := services.GeneralMaintenance
	bestDist := normalizeThreshold + 1
	for _, def := range services.All() {
		candidates := []string{
			string(def.Type),
			strings.ToLower(strings.ReplaceAll(def.DisplayName, " ", "_")),
		}
		for _, cand := range candidates {
			if d := editDistance(cleaned, cand); d < bestDist {
				best = def.Type
				bestDist = d
			}
		}
	}

	if bestDist > normalizeThreshold {
		return services.GeneralMaintenance, bestDist
	}
	return best, bestDist
}

// editDistance is the Levenshtein distance with unit costs.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
