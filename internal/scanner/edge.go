package scanner

import "strings"

// categoryMarkers flag niche markets where pricing attention is thin.
var categoryMarkers = []string{"obscure", "international", "minor"}

// EdgeScorer computes the heuristic 0-100 edge score. The model intentionally
// rewards thin, illiquid, and obscure markets as more likely to be mispriced;
// it is a deterministic rule of thumb, not a statistical estimate.
type EdgeScorer struct{}

// Score returns the edge score for a market with the given category, volume,
// and liquidity. Base 50, fixed additive bonuses, clamped to [0, 100].
func (EdgeScorer) Score(category string, volume, liquidity float64) float64 {
	score := 50.0

	// Lower volume = potentially less efficient = edge.
	switch {
	case volume < 50_000:
		score += 15
	case volume < 100_000:
		score += 10
	case volume > 1_000_000:
		score -= 10
	}

	// Low liquidity = potential edge.
	switch {
	case liquidity < 10_000:
		score += 10
	case liquidity < 50_000:
		score += 5
	}

	if cat := strings.ToLower(category); cat != "" {
		for _, marker := range categoryMarkers {
			if strings.Contains(cat, marker) {
				score += 10
				break
			}
		}
	}

	return min(max(score, 0), 100)
}

// Reasoning builds the short human-readable tag for an opportunity.
func (EdgeScorer) Reasoning(edgeScore, volume float64) string {
	var parts []string

	if edgeScore >= 70 {
		parts = append(parts, "HIGH EDGE")
	} else if edgeScore >= 50 {
		parts = append(parts, "MODERATE EDGE")
	}

	if volume < 100_000 {
		parts = append(parts, "low volume (less efficient)")
	}

	if len(parts) == 0 {
		return "standard opportunity"
	}
	return strings.Join(parts, " | ")
}
