package domain

import "context"

// StrategyStore persists compound-strategy progress so the stage cursor and
// recorded positions survive restarts. Opportunities themselves are never
// stored; every scan rebuilds them from a fresh snapshot.
type StrategyStore interface {
	// Save inserts the strategy or updates its stage cursor if it exists.
	Save(ctx context.Context, s *CompoundStrategy) error

	// Get returns the strategy with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*CompoundStrategy, error)

	// GetLatest returns the most recently saved strategy, or ErrNotFound.
	GetLatest(ctx context.Context) (*CompoundStrategy, error)

	// SetStage records a stage advancement.
	SetStage(ctx context.Context, id string, stage int) error

	// SavePositions replaces the recorded positions for one stage.
	SavePositions(ctx context.Context, strategyID string, stage int, positions []Position) error

	// ListPositions returns the recorded positions for one stage.
	ListPositions(ctx context.Context, strategyID string, stage int) ([]Position, error)
}
