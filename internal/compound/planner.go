// Package compound plans staged capital-compounding strategies and allocates
// stage capital across ranked opportunities.
package compound

import (
	"fmt"
	"math"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

const (
	// maxPerStageMultiplier caps how much a single stage may be asked to
	// return. Anything above 50x in one leg is not practically achievable.
	maxPerStageMultiplier = 50.0

	// DefaultMaxStages bounds the stage search.
	DefaultMaxStages = 5
)

// Plan searches for the smallest stage count whose per-stage multiplier is at
// most 50x and returns the resulting strategy. If no count within maxStages
// qualifies, the plan is pinned at maxStages with whatever multiplier that
// implies. Inputs are validated up front so degenerate plans (division by a
// non-positive capital, multipliers below 1) never get built.
func Plan(startingCapital, target float64, maxStages int) (*domain.CompoundStrategy, error) {
	if startingCapital <= 0 {
		return nil, fmt.Errorf("%w: starting capital must be positive, got %v",
			domain.ErrInvalidConfiguration, startingCapital)
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: target must be positive, got %v",
			domain.ErrInvalidConfiguration, target)
	}
	if target < startingCapital {
		return nil, fmt.Errorf("%w: target %v is below starting capital %v",
			domain.ErrInvalidConfiguration, target, startingCapital)
	}
	if maxStages < 1 {
		maxStages = DefaultMaxStages
	}

	required := target / startingCapital

	// per-stage multiplier is non-increasing in the stage count, so the first
	// qualifying count is also the one with the fewest stages.
	stages := maxStages
	perStage := math.Pow(required, 1/float64(maxStages))
	for n := 1; n <= maxStages; n++ {
		p := math.Pow(required, 1/float64(n))
		if p <= maxPerStageMultiplier {
			stages, perStage = n, p
			break
		}
	}

	return &domain.CompoundStrategy{
		StartingCapital:    startingCapital,
		Target:             target,
		RequiredMultiplier: required,
		RecommendedStages:  stages,
		PerStageMultiplier: perStage,
	}, nil
}
