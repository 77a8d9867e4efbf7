package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
	"github.com/alanyoungcy/moonshotbot/internal/service"
)

// StrategyHandler serves the compound-strategy endpoints. It owns the live
// strategy for the process; concurrent advance and read requests are
// serialized through its mutex.
type StrategyHandler struct {
	svc      *service.StrategyService
	scans    *service.ScanService
	maxPos   int
	mu       sync.Mutex
	strategy *domain.CompoundStrategy
	logger   *slog.Logger
}

// NewStrategyHandler creates a StrategyHandler wrapping the given live
// strategy.
func NewStrategyHandler(
	svc *service.StrategyService,
	scans *service.ScanService,
	strategy *domain.CompoundStrategy,
	maxPositions int,
	logger *slog.Logger,
) *StrategyHandler {
	return &StrategyHandler{
		svc:      svc,
		scans:    scans,
		maxPos:   maxPositions,
		strategy: strategy,
		logger:   logHandler(logger, "strategy"),
	}
}

// strategyView is the JSON shape for a strategy. The domain type keeps its
// stage cursor private, so the handler flattens it here.
type strategyView struct {
	ID                 string  `json:"id"`
	StartingCapital    float64 `json:"starting_capital"`
	Target             float64 `json:"target"`
	RequiredMultiplier float64 `json:"required_multiplier"`
	RecommendedStages  int     `json:"recommended_stages"`
	PerStageMultiplier float64 `json:"per_stage_multiplier"`
	CurrentStage       int     `json:"current_stage"`
}

func viewOf(st *domain.CompoundStrategy) strategyView {
	return strategyView{
		ID:                 st.ID,
		StartingCapital:    st.StartingCapital,
		Target:             st.Target,
		RequiredMultiplier: st.RequiredMultiplier,
		RecommendedStages:  st.RecommendedStages,
		PerStageMultiplier: st.PerStageMultiplier,
		CurrentStage:       st.CurrentStage(),
	}
}

// GetStrategy returns the live strategy's plan and progress.
// GET /api/strategy
func (h *StrategyHandler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	view := viewOf(h.strategy)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

// GetStages returns the stage-by-stage capital checkpoints.
// GET /api/strategy/stages
func (h *StrategyHandler) GetStages(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	stages := h.strategy.StageTargets()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"stages": stages})
}

// Advance marks the current stage complete and moves to the next one.
// POST /api/strategy/advance
func (h *StrategyHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.svc.Advance(r.Context(), h.strategy); err != nil {
		if errors.Is(err, domain.ErrStageOverflow) {
			writeError(w, http.StatusConflict, "already at the final stage")
			return
		}
		h.logger.ErrorContext(r.Context(), "stage advance failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to advance stage")
		return
	}

	writeJSON(w, http.StatusOK, viewOf(h.strategy))
}

// ListPositions allocates the current stage's capital across the latest
// scan's opportunities and returns the recommended positions.
// GET /api/positions
func (h *StrategyHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	result, err := h.scans.Latest(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no scan has completed yet")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "latest scan lookup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load latest scan")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	positions, err := h.svc.RecommendPositions(r.Context(), h.strategy, result.Opportunities, h.maxPos)
	if err != nil {
		if errors.Is(err, domain.ErrNoViableOpportunities) {
			writeError(w, http.StatusNotFound, "no viable opportunities in the latest scan")
			return
		}
		h.logger.ErrorContext(r.Context(), "position recommendation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to recommend positions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stage":     h.strategy.CurrentStage(),
		"positions": positions,
	})
}
