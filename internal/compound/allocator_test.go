package compound

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

func opp(id string, price, multiplier float64) domain.Opportunity {
	return domain.Opportunity{
		MarketID:            id,
		Question:            "Will " + id + " happen?",
		Slug:                id,
		Side:                "YES",
		Price:               price,
		PotentialMultiplier: multiplier,
		EdgeScore:           70,
		RiskTier:            domain.ClassifyRisk(multiplier),
	}
}

func TestAllocateEqualSplit(t *testing.T) {
	opps := []domain.Opportunity{
		opp("a", 0.02, 50),
		opp("b", 0.04, 25),
		opp("c", 0.025, 40),
	}

	positions, err := Allocate(opps, 50, 44.7, 10)
	require.NoError(t, err)
	require.Len(t, positions, 3)

	for _, p := range positions {
		assert.InDelta(t, 50.0/3, p.Allocation, 1e-9)
		assert.InDelta(t, p.Allocation/p.Price, p.Shares, 1e-9)
		assert.InDelta(t, p.Shares, p.PotentialValue, 1e-9)
		assert.InDelta(t, p.PotentialValue/p.Allocation, p.PotentialMultiplier, 1e-9)
	}

	// $16.67 at $0.02 buys ~833 shares, each paying $1.
	assert.InDelta(t, 833.33, positions[0].Shares, 0.01)
}

func TestAllocateViabilityFilter(t *testing.T) {
	opps := []domain.Opportunity{
		opp("viable", 0.02, 50),
		opp("weak", 0.5, 2),
	}

	// Target 44.7x: viability floor is 22.35x, so only "viable" passes.
	positions, err := Allocate(opps, 50, 44.7, 10)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "viable", positions[0].MarketID)
	assert.InDelta(t, 50, positions[0].Allocation, 1e-9)
}

func TestAllocateFallsBackWhenNothingViable(t *testing.T) {
	opps := []domain.Opportunity{
		opp("a", 0.5, 2),
		opp("b", 0.4, 2.5),
	}

	positions, err := Allocate(opps, 50, 44.7, 10)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, "a", positions[0].MarketID)
	assert.Equal(t, "b", positions[1].MarketID)
}

func TestAllocateCapsPositions(t *testing.T) {
	var opps []domain.Opportunity
	for i := 0; i < 15; i++ {
		opps = append(opps, opp("m", 0.02, 50))
	}

	positions, err := Allocate(opps, 100, 40, 10)
	require.NoError(t, err)
	assert.Len(t, positions, 10)
	assert.InDelta(t, 10, positions[0].Allocation, 1e-9)
}

func TestAllocateDefaultsMaxPositions(t *testing.T) {
	var opps []domain.Opportunity
	for i := 0; i < 15; i++ {
		opps = append(opps, opp("m", 0.02, 50))
	}

	positions, err := Allocate(opps, 100, 40, 0)
	require.NoError(t, err)
	assert.Len(t, positions, DefaultMaxPositions)
}

func TestAllocateErrors(t *testing.T) {
	opps := []domain.Opportunity{opp("a", 0.02, 50)}

	_, err := Allocate(opps, 0, 40, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = Allocate(opps, -5, 40, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = Allocate(nil, 50, 40, 10)
	assert.ErrorIs(t, err, domain.ErrNoViableOpportunities)
}

func TestAllocateTruncatesQuestion(t *testing.T) {
	long := opp("a", 0.02, 50)
	long.Question = strings.Repeat("x", 80)

	positions, err := Allocate([]domain.Opportunity{long}, 50, 40, 10)
	require.NoError(t, err)
	assert.Len(t, positions[0].Question, 60)
}

func TestTotalPotential(t *testing.T) {
	positions := []domain.Position{
		{PotentialValue: 800},
		{PotentialValue: 400},
	}
	assert.InDelta(t, 1200, TotalPotential(positions), 1e-9)
	assert.Zero(t, TotalPotential(nil))
}
