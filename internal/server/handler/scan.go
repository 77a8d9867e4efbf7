package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
	"github.com/alanyoungcy/moonshotbot/internal/service"
)

// ScanHandler serves the opportunity endpoints backed by the scan service.
type ScanHandler struct {
	svc    *service.ScanService
	logger *slog.Logger
}

// NewScanHandler creates a ScanHandler.
func NewScanHandler(svc *service.ScanService, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		svc:    svc,
		logger: logHandler(logger, "scan"),
	}
}

// ListOpportunities returns the latest scan's ranked opportunities. Supports
// ?tier=MOONSHOT to filter by risk tier and ?limit=N to cap the result.
// GET /api/opportunities
func (h *ScanHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Latest(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no scan has completed yet")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "latest scan lookup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load latest scan")
		return
	}

	opps := result.Opportunities
	if tier := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("tier"))); tier != "" {
		filtered := make([]domain.Opportunity, 0, len(opps))
		for _, o := range opps {
			if string(o.RiskTier) == tier {
				filtered = append(filtered, o)
			}
		}
		opps = filtered
	}

	limit := parseLimit(r, len(opps), 500)
	if limit < len(opps) {
		opps = opps[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":        result.RunID,
		"scanned_at":    result.ScannedAt,
		"markets_seen":  result.MarketsSeen,
		"discards":      result.Discards,
		"opportunities": opps,
	})
}

// TriggerScan runs a scan immediately and returns its summary.
// POST /api/scan/trigger
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Run(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "triggered scan failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "scan failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"run_id":        result.RunID,
		"scanned_at":    result.ScannedAt,
		"markets_seen":  result.MarketsSeen,
		"opportunities": len(result.Opportunities),
	})
}
