package domain

// StageStatus tracks where a stage sits relative to the plan's progress.
type StageStatus string

const (
	StageStatusCompleted StageStatus = "COMPLETED"
	StageStatusCurrent   StageStatus = "CURRENT"
	StageStatusPending   StageStatus = "PENDING"
)

// CompoundStrategy is a staged plan for multiplying starting capital into a
// target sum. All fields are fixed at planning time; only the stage cursor
// moves, and only through AdvanceStage.
type CompoundStrategy struct {
	ID                 string
	StartingCapital    float64
	Target             float64
	RequiredMultiplier float64
	RecommendedStages  int
	PerStageMultiplier float64
	Positions          []Position

	currentStage int
}

// CurrentStage returns the 1-based stage the plan is currently on. A freshly
// planned strategy starts at stage 1.
func (s *CompoundStrategy) CurrentStage() int {
	if s.currentStage < 1 {
		return 1
	}
	return s.currentStage
}

// AdvanceStage moves the plan to the next stage. It returns ErrStageOverflow
// when the final stage has already been reached.
func (s *CompoundStrategy) AdvanceStage() error {
	cur := s.CurrentStage()
	if cur >= s.RecommendedStages {
		return ErrStageOverflow
	}
	s.currentStage = cur + 1
	return nil
}

// RestoreStage sets the stage cursor directly. It is intended for rehydrating
// a persisted strategy; stages outside [1, RecommendedStages] are rejected.
func (s *CompoundStrategy) RestoreStage(stage int) error {
	if stage < 1 || stage > s.RecommendedStages {
		return ErrStageOverflow
	}
	s.currentStage = stage
	return nil
}

// StageTarget is the capital checkpoint for one stage of the plan.
type StageTarget struct {
	Stage            int         `json:"stage"`
	Start            float64     `json:"start"`
	Target           float64     `json:"target"`
	MultiplierNeeded float64     `json:"multiplier_needed"`
	Status           StageStatus `json:"status"`
}

// StageTargets walks the plan stage by stage, compounding the per-stage
// multiplier, and reports each stage's capital window and status relative to
// the current stage.
func (s *CompoundStrategy) StageTargets() []StageTarget {
	targets := make([]StageTarget, 0, s.RecommendedStages)
	current := s.StartingCapital
	cur := s.CurrentStage()

	for stage := 1; stage <= s.RecommendedStages; stage++ {
		next := current * s.PerStageMultiplier

		status := StageStatusPending
		switch {
		case stage < cur:
			status = StageStatusCompleted
		case stage == cur:
			status = StageStatusCurrent
		}

		targets = append(targets, StageTarget{
			Stage:            stage,
			Start:            current,
			Target:           next,
			MultiplierNeeded: s.PerStageMultiplier,
			Status:           status,
		})
		current = next
	}

	return targets
}

// Position is one recommended allocation within a stage: an equal slice of the
// stage's capital placed on a single opportunity.
type Position struct {
	MarketID            string   `json:"market_id"`
	Question            string   `json:"question"`
	Side                string   `json:"side"`
	Price               float64  `json:"price"`
	Allocation          float64  `json:"allocation"`
	Shares              float64  `json:"shares"`
	PotentialValue      float64  `json:"potential_value"`
	PotentialMultiplier float64  `json:"potential_multiplier"`
	EdgeScore           float64  `json:"edge_score"`
	RiskTier            RiskTier `json:"risk_tier"`
	DaysLeft            float64  `json:"days_left"`
	URL                 string   `json:"url"`
}
