package compound

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

func TestPlanFindsSmallestStageCount(t *testing.T) {
	st, err := Plan(50, 100_000, 5)
	require.NoError(t, err)

	assert.InDelta(t, 2000, st.RequiredMultiplier, 1e-9)
	assert.Equal(t, 2, st.RecommendedStages)
	assert.InDelta(t, math.Sqrt(2000), st.PerStageMultiplier, 1e-9)
	assert.Equal(t, 1, st.CurrentStage())

	// Compounding the per-stage multiplier over every stage recovers the
	// overall requirement.
	compounded := math.Pow(st.PerStageMultiplier, float64(st.RecommendedStages))
	assert.InDelta(t, st.RequiredMultiplier, compounded, 1e-6)
}

func TestPlanSingleStageWhenEasy(t *testing.T) {
	st, err := Plan(100, 2000, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, st.RecommendedStages)
	assert.InDelta(t, 20, st.PerStageMultiplier, 1e-9)
}

func TestPlanPinsAtMaxStages(t *testing.T) {
	// 10^10 overall: even 5 stages needs 100x each, above the 50x cap, so
	// the plan pins at maxStages.
	st, err := Plan(1, 1e10, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, st.RecommendedStages)
	assert.InDelta(t, math.Pow(1e10, 0.2), st.PerStageMultiplier, 1e-6)
	assert.Greater(t, st.PerStageMultiplier, 50.0)
}

func TestPlanDefaultsMaxStages(t *testing.T) {
	st, err := Plan(1, 1e10, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxStages, st.RecommendedStages)
}

func TestPlanRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name             string
		capital, target  float64
	}{
		{"zero capital", 0, 100_000},
		{"negative capital", -50, 100_000},
		{"zero target", 50, 0},
		{"target below capital", 1000, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(tt.capital, tt.target, 5)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}

func TestPlanTargetEqualToCapital(t *testing.T) {
	st, err := Plan(100, 100, 5)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, st.RequiredMultiplier, 1e-9)
	assert.Equal(t, 1, st.RecommendedStages)
}

func TestStageTargets(t *testing.T) {
	st, err := Plan(50, 100_000, 5)
	require.NoError(t, err)

	targets := st.StageTargets()
	require.Len(t, targets, 2)

	assert.InDelta(t, 50, targets[0].Start, 1e-9)
	assert.InDelta(t, 50*st.PerStageMultiplier, targets[0].Target, 1e-6)
	assert.Equal(t, domain.StageStatusCurrent, targets[0].Status)

	assert.InDelta(t, targets[0].Target, targets[1].Start, 1e-9)
	assert.InDelta(t, 100_000, targets[1].Target, 1e-3)
	assert.Equal(t, domain.StageStatusPending, targets[1].Status)

	require.NoError(t, st.AdvanceStage())
	targets = st.StageTargets()
	assert.Equal(t, domain.StageStatusCompleted, targets[0].Status)
	assert.Equal(t, domain.StageStatusCurrent, targets[1].Status)
}

func TestAdvanceStageOverflow(t *testing.T) {
	st, err := Plan(50, 100_000, 5)
	require.NoError(t, err)

	require.NoError(t, st.AdvanceStage())
	assert.Equal(t, 2, st.CurrentStage())

	err = st.AdvanceStage()
	assert.ErrorIs(t, err, domain.ErrStageOverflow)
	assert.Equal(t, 2, st.CurrentStage())
}

func TestRestoreStage(t *testing.T) {
	st, err := Plan(50, 100_000, 5)
	require.NoError(t, err)

	require.NoError(t, st.RestoreStage(2))
	assert.Equal(t, 2, st.CurrentStage())

	assert.ErrorIs(t, st.RestoreStage(0), domain.ErrStageOverflow)
	assert.ErrorIs(t, st.RestoreStage(3), domain.ErrStageOverflow)
}
