package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

type memoryStore struct {
	strategies map[string]*domain.CompoundStrategy
	order      []string
	positions  map[string]map[int][]domain.Position
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		strategies: make(map[string]*domain.CompoundStrategy),
		positions:  make(map[string]map[int][]domain.Position),
	}
}

func (m *memoryStore) Save(_ context.Context, s *domain.CompoundStrategy) error {
	if _, ok := m.strategies[s.ID]; !ok {
		m.order = append(m.order, s.ID)
	}
	cp := *s
	m.strategies[s.ID] = &cp
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*domain.CompoundStrategy, error) {
	s, ok := m.strategies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryStore) GetLatest(ctx context.Context) (*domain.CompoundStrategy, error) {
	if len(m.order) == 0 {
		return nil, domain.ErrNotFound
	}
	return m.Get(ctx, m.order[len(m.order)-1])
}

func (m *memoryStore) SetStage(_ context.Context, id string, stage int) error {
	s, ok := m.strategies[id]
	if !ok {
		return domain.ErrNotFound
	}
	return s.RestoreStage(stage)
}

func (m *memoryStore) SavePositions(_ context.Context, strategyID string, stage int, positions []domain.Position) error {
	if m.positions[strategyID] == nil {
		m.positions[strategyID] = make(map[int][]domain.Position)
	}
	m.positions[strategyID][stage] = positions
	return nil
}

func (m *memoryStore) ListPositions(_ context.Context, strategyID string, stage int) ([]domain.Position, error) {
	return m.positions[strategyID][stage], nil
}

func TestLoadOrPlanPlansAndPersists(t *testing.T) {
	store := newMemoryStore()
	svc := NewStrategyService(store, nil, testLogger())

	st, err := svc.LoadOrPlan(context.Background(), 50, 100_000, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, 2, st.RecommendedStages)

	saved, err := store.GetLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, st.ID, saved.ID)
}

func TestLoadOrPlanResumesMatchingStrategy(t *testing.T) {
	store := newMemoryStore()
	svc := NewStrategyService(store, nil, testLogger())

	first, err := svc.LoadOrPlan(context.Background(), 50, 100_000, 5)
	require.NoError(t, err)
	require.NoError(t, svc.Advance(context.Background(), first))

	resumed, err := svc.LoadOrPlan(context.Background(), 50, 100_000, 5)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resumed.ID)
	assert.Equal(t, 2, resumed.CurrentStage())
}

func TestLoadOrPlanStartsFreshOnChangedChallenge(t *testing.T) {
	store := newMemoryStore()
	svc := NewStrategyService(store, nil, testLogger())

	first, err := svc.LoadOrPlan(context.Background(), 50, 100_000, 5)
	require.NoError(t, err)

	second, err := svc.LoadOrPlan(context.Background(), 100, 100_000, 5)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.order, 2)
}

func TestLoadOrPlanWithoutStore(t *testing.T) {
	svc := NewStrategyService(nil, nil, testLogger())

	st, err := svc.LoadOrPlan(context.Background(), 50, 100_000, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
}

func TestAdvancePersistsStage(t *testing.T) {
	store := newMemoryStore()
	svc := NewStrategyService(store, nil, testLogger())

	st, err := svc.LoadOrPlan(context.Background(), 50, 100_000, 5)
	require.NoError(t, err)

	require.NoError(t, svc.Advance(context.Background(), st))
	assert.Equal(t, 2, st.CurrentStage())

	saved, err := store.Get(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.CurrentStage())

	err = svc.Advance(context.Background(), st)
	assert.ErrorIs(t, err, domain.ErrStageOverflow)
}

func TestRecommendPositions(t *testing.T) {
	store := newMemoryStore()
	svc := NewStrategyService(store, nil, testLogger())

	st, err := svc.LoadOrPlan(context.Background(), 50, 100_000, 5)
	require.NoError(t, err)

	opps := []domain.Opportunity{
		{MarketID: "a", Question: "A?", Side: "YES", Price: 0.02, PotentialMultiplier: 50, EdgeScore: 75, RiskTier: domain.RiskTierLongshot},
		{MarketID: "b", Question: "B?", Side: "NO", Price: 0.04, PotentialMultiplier: 25, EdgeScore: 70, RiskTier: domain.RiskTierLongshot},
	}

	positions, err := svc.RecommendPositions(context.Background(), st, opps, 10)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.InDelta(t, 25, positions[0].Allocation, 1e-9)
	assert.Equal(t, positions, st.Positions)

	stored, err := store.ListPositions(context.Background(), st.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, positions, stored)
}

func TestRecommendPositionsNoOpportunities(t *testing.T) {
	svc := NewStrategyService(nil, nil, testLogger())

	st, err := svc.LoadOrPlan(context.Background(), 50, 100_000, 5)
	require.NoError(t, err)

	_, err = svc.RecommendPositions(context.Background(), st, nil, 10)
	assert.ErrorIs(t, err, domain.ErrNoViableOpportunities)
}
