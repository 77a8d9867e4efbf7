package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

// StrategyStore persists compound strategies and their stage positions.
type StrategyStore struct {
	client *Client
}

// NewStrategyStore creates a StrategyStore backed by the given client.
func NewStrategyStore(client *Client) *StrategyStore {
	return &StrategyStore{client: client}
}

var _ domain.StrategyStore = (*StrategyStore)(nil)

// Save inserts the strategy or, if it already exists, refreshes its stage
// cursor. The plan parameters are immutable once written.
func (s *StrategyStore) Save(ctx context.Context, st *domain.CompoundStrategy) error {
	const query = `
		INSERT INTO strategies (
			id, starting_capital, target, required_multiplier,
			recommended_stages, per_stage_multiplier, current_stage
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			current_stage = EXCLUDED.current_stage,
			updated_at = NOW()`

	_, err := s.client.Pool().Exec(ctx, query,
		st.ID,
		st.StartingCapital,
		st.Target,
		st.RequiredMultiplier,
		st.RecommendedStages,
		st.PerStageMultiplier,
		st.CurrentStage(),
	)
	if err != nil {
		return fmt.Errorf("postgres: save strategy %s: %w", st.ID, err)
	}
	return nil
}

// Get returns the strategy with the given ID.
func (s *StrategyStore) Get(ctx context.Context, id string) (*domain.CompoundStrategy, error) {
	const query = `
		SELECT id, starting_capital, target, required_multiplier,
		       recommended_stages, per_stage_multiplier, current_stage
		FROM strategies
		WHERE id = $1`

	return s.scanStrategy(ctx, s.client.Pool().QueryRow(ctx, query, id))
}

// GetLatest returns the most recently created strategy.
func (s *StrategyStore) GetLatest(ctx context.Context) (*domain.CompoundStrategy, error) {
	const query = `
		SELECT id, starting_capital, target, required_multiplier,
		       recommended_stages, per_stage_multiplier, current_stage
		FROM strategies
		ORDER BY created_at DESC
		LIMIT 1`

	return s.scanStrategy(ctx, s.client.Pool().QueryRow(ctx, query))
}

func (s *StrategyStore) scanStrategy(ctx context.Context, row pgx.Row) (*domain.CompoundStrategy, error) {
	var (
		st    domain.CompoundStrategy
		stage int
	)
	err := row.Scan(
		&st.ID,
		&st.StartingCapital,
		&st.Target,
		&st.RequiredMultiplier,
		&st.RecommendedStages,
		&st.PerStageMultiplier,
		&stage,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: scan strategy: %w", err)
	}
	if err := st.RestoreStage(stage); err != nil {
		return nil, fmt.Errorf("postgres: strategy %s has invalid stage %d: %w", st.ID, stage, err)
	}
	return &st, nil
}

// SetStage records a stage advancement for the given strategy.
func (s *StrategyStore) SetStage(ctx context.Context, id string, stage int) error {
	const query = `
		UPDATE strategies
		SET current_stage = $2, updated_at = NOW()
		WHERE id = $1`

	tag, err := s.client.Pool().Exec(ctx, query, id, stage)
	if err != nil {
		return fmt.Errorf("postgres: set stage for strategy %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SavePositions replaces the recorded positions for one stage of a strategy.
func (s *StrategyStore) SavePositions(ctx context.Context, strategyID string, stage int, positions []domain.Position) error {
	tx, err := s.client.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin save positions: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		"DELETE FROM strategy_positions WHERE strategy_id = $1 AND stage = $2",
		strategyID, stage,
	); err != nil {
		return fmt.Errorf("postgres: clear positions for strategy %s stage %d: %w", strategyID, stage, err)
	}

	const insert = `
		INSERT INTO strategy_positions (
			strategy_id, stage, seq, market_id, question, side, price,
			allocation, shares, potential_value, potential_mult,
			edge_score, risk_tier, days_left, url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	for seq, p := range positions {
		if _, err := tx.Exec(ctx, insert,
			strategyID, stage, seq,
			p.MarketID, p.Question, p.Side, p.Price,
			p.Allocation, p.Shares, p.PotentialValue, p.PotentialMultiplier,
			p.EdgeScore, string(p.RiskTier), p.DaysLeft, p.URL,
		); err != nil {
			return fmt.Errorf("postgres: insert position %d for strategy %s stage %d: %w", seq, strategyID, stage, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit save positions: %w", err)
	}
	return nil
}

// ListPositions returns the recorded positions for one stage of a strategy in
// insertion order.
func (s *StrategyStore) ListPositions(ctx context.Context, strategyID string, stage int) ([]domain.Position, error) {
	const query = `
		SELECT market_id, question, side, price, allocation, shares,
		       potential_value, potential_mult, edge_score, risk_tier,
		       days_left, url
		FROM strategy_positions
		WHERE strategy_id = $1 AND stage = $2
		ORDER BY seq`

	rows, err := s.client.Pool().Query(ctx, query, strategyID, stage)
	if err != nil {
		return nil, fmt.Errorf("postgres: list positions for strategy %s stage %d: %w", strategyID, stage, err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var (
			p    domain.Position
			tier string
		)
		if err := rows.Scan(
			&p.MarketID, &p.Question, &p.Side, &p.Price, &p.Allocation,
			&p.Shares, &p.PotentialValue, &p.PotentialMultiplier,
			&p.EdgeScore, &tier, &p.DaysLeft, &p.URL,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan position: %w", err)
		}
		p.RiskTier = domain.RiskTier(tier)
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate positions: %w", err)
	}
	return positions, nil
}
