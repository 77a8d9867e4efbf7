package domain

import "time"

// RiskTier buckets an opportunity by the magnitude of its payoff multiplier.
type RiskTier string

const (
	RiskTierYolo     RiskTier = "YOLO"     // 1000x+ potential, mass extinction event odds
	RiskTierMoonshot RiskTier = "MOONSHOT" // 100-1000x, genuine longshot
	RiskTierLongshot RiskTier = "LONGSHOT" // 20-100x, unlikely but possible
	RiskTierValue    RiskTier = "VALUE"    // 5-20x, underpriced favorite upset
)

// ClassifyRisk maps a payoff multiplier to its risk tier. Boundaries are
// inclusive on the higher tier: exactly 100x is MOONSHOT, not LONGSHOT.
func ClassifyRisk(multiplier float64) RiskTier {
	switch {
	case multiplier >= 1000:
		return RiskTierYolo
	case multiplier >= 100:
		return RiskTierMoonshot
	case multiplier >= 20:
		return RiskTierLongshot
	default:
		return RiskTierValue
	}
}

// Opportunity is a candidate moonshot: the cheap side of a binary market that
// survived the price, volume, and expiry filters. Immutable once built.
type Opportunity struct {
	MarketID            string   `json:"market_id"`
	Question            string   `json:"question"`
	Slug                string   `json:"slug"`
	Side                string   `json:"side"` // "YES" or "NO", whichever outcome is cheaper
	Price               float64  `json:"price"`
	PotentialMultiplier float64  `json:"potential_multiplier"`
	Volume              float64  `json:"volume"`
	Liquidity           float64  `json:"liquidity"`
	DaysToExpiry        float64  `json:"days_to_expiry"`
	EndDate             time.Time `json:"end_date"`
	RiskTier            RiskTier `json:"risk_tier"`
	EdgeScore           float64  `json:"edge_score"`
	Category            string   `json:"category,omitempty"`
	Reasoning           string   `json:"reasoning"`
}

// URL returns the canonical Polymarket event link for the opportunity.
func (o Opportunity) URL() string {
	return "https://polymarket.com/event/" + o.Slug
}
