package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alanyoungcy/moonshotbot/internal/compound"
	"github.com/alanyoungcy/moonshotbot/internal/domain"
	"github.com/alanyoungcy/moonshotbot/internal/notify"
)

// StrategyService owns the compound strategy's lifecycle: planning, stage
// advancement, and position recommendation. With a store attached, progress
// survives restarts; without one everything lives for a single run.
type StrategyService struct {
	store    domain.StrategyStore
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewStrategyService creates a StrategyService. store and notifier may be nil.
func NewStrategyService(store domain.StrategyStore, notifier *notify.Notifier, logger *slog.Logger) *StrategyService {
	return &StrategyService{
		store:    store,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "strategy_service")),
	}
}

// LoadOrPlan resumes the persisted strategy when one exists for the same
// capital/target pair, otherwise plans a new one and saves it. Changing
// capital or target starts a fresh challenge; the old row stays for the
// record.
func (s *StrategyService) LoadOrPlan(ctx context.Context, startingCapital, target float64, maxStages int) (*domain.CompoundStrategy, error) {
	if s.store != nil {
		st, err := s.store.GetLatest(ctx)
		switch {
		case err == nil && st.StartingCapital == startingCapital && st.Target == target:
			s.logger.InfoContext(ctx, "resuming strategy",
				slog.String("id", st.ID),
				slog.Int("current_stage", st.CurrentStage()),
			)
			return st, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("strategy_service: load latest: %w", err)
		}
	}

	st, err := compound.Plan(startingCapital, target, maxStages)
	if err != nil {
		return nil, err
	}
	st.ID = uuid.NewString()

	if s.store != nil {
		if err := s.store.Save(ctx, st); err != nil {
			return nil, fmt.Errorf("strategy_service: save: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "planned strategy",
		slog.String("id", st.ID),
		slog.Int("stages", st.RecommendedStages),
		slog.Float64("per_stage", st.PerStageMultiplier),
	)
	return st, nil
}

// Advance moves the strategy to its next stage and records the transition.
func (s *StrategyService) Advance(ctx context.Context, st *domain.CompoundStrategy) error {
	if err := st.AdvanceStage(); err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.SetStage(ctx, st.ID, st.CurrentStage()); err != nil {
			return fmt.Errorf("strategy_service: persist stage: %w", err)
		}
	}
	s.logger.InfoContext(ctx, "advanced stage",
		slog.String("id", st.ID),
		slog.Int("stage", st.CurrentStage()),
	)

	if s.notifier != nil {
		title := fmt.Sprintf("Advanced to stage %d of %d", st.CurrentStage(), st.RecommendedStages)
		if err := s.notifier.Notify(ctx, notify.EventStageAdvanced, title, ""); err != nil {
			s.logger.WarnContext(ctx, "stage-advance notification failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

// RecommendPositions allocates the current stage's capital across the ranked
// opportunities and records the result on the strategy (and in the store when
// one is attached).
func (s *StrategyService) RecommendPositions(ctx context.Context, st *domain.CompoundStrategy, opps []domain.Opportunity, maxPositions int) ([]domain.Position, error) {
	targets := st.StageTargets()
	stage := targets[st.CurrentStage()-1]

	positions, err := compound.Allocate(opps, stage.Start, stage.MultiplierNeeded, maxPositions)
	if err != nil {
		return nil, err
	}

	st.Positions = positions
	if s.store != nil {
		if err := s.store.SavePositions(ctx, st.ID, stage.Stage, positions); err != nil {
			return nil, fmt.Errorf("strategy_service: save positions: %w", err)
		}
	}
	return positions, nil
}
