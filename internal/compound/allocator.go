package compound

import (
	"fmt"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

const (
	// DefaultMaxPositions bounds how many opportunities one stage bets on.
	DefaultMaxPositions = 10

	// viabilityFactor: an opportunity is viable for a stage when its payoff
	// multiplier covers at least half the multiplier the stage needs.
	viabilityFactor = 0.5

	// questionDisplayLen truncates position questions for display.
	questionDisplayLen = 60
)

// Allocate selects up to maxPositions opportunities that are viable for the
// stage's target multiplier and splits capital equally across them. When
// nothing is viable it falls back to the head of the (already edge-ranked)
// input list rather than sitting out the stage.
//
// Equal split is deliberate: positions are lottery tickets and the payoff math
// assumes any single winner recovers the stage, so there is nothing to gain
// from Kelly-style sizing against unknowable true probabilities.
func Allocate(opps []domain.Opportunity, capital, targetMultiplier float64, maxPositions int) ([]domain.Position, error) {
	if capital <= 0 {
		return nil, fmt.Errorf("%w: capital must be positive, got %v",
			domain.ErrInvalidConfiguration, capital)
	}
	if maxPositions < 1 {
		maxPositions = DefaultMaxPositions
	}
	if len(opps) == 0 {
		return nil, fmt.Errorf("%w: nothing to allocate against", domain.ErrNoViableOpportunities)
	}

	viable := make([]domain.Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.PotentialMultiplier >= targetMultiplier*viabilityFactor {
			viable = append(viable, o)
		}
	}
	if len(viable) == 0 {
		viable = opps
	}

	count := min(len(viable), maxPositions)
	allocation := capital / float64(count)

	positions := make([]domain.Position, 0, count)
	for _, opp := range viable[:count] {
		shares := allocation / opp.Price
		potentialValue := shares * 1.0 // binary contracts pay $1 per share

		positions = append(positions, domain.Position{
			MarketID:            opp.MarketID,
			Question:            truncate(opp.Question, questionDisplayLen),
			Side:                opp.Side,
			Price:               opp.Price,
			Allocation:          allocation,
			Shares:              shares,
			PotentialValue:      potentialValue,
			PotentialMultiplier: potentialValue / allocation,
			EdgeScore:           opp.EdgeScore,
			RiskTier:            opp.RiskTier,
			DaysLeft:            opp.DaysToExpiry,
			URL:                 opp.URL(),
		})
	}

	return positions, nil
}

// TotalPotential sums the payout across positions: what the stage returns if
// exactly one position resolves favorably.
func TotalPotential(positions []domain.Position) float64 {
	var total float64
	for _, p := range positions {
		total += p.PotentialValue
	}
	return total
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
