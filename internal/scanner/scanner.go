package scanner

import (
	"log/slog"
	"time"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

// Scanner runs the full normalize-score-rank pass over a market snapshot.
type Scanner struct {
	norm   *Normalizer
	logger *slog.Logger
}

// New creates a Scanner.
func New(logger *slog.Logger) *Scanner {
	return &Scanner{
		norm:   NewNormalizer(logger),
		logger: logger.With(slog.String("component", "scanner")),
	}
}

// Scan normalizes every record, keeps the survivors, and returns them ranked
// by edge score and capped at maxResults. Discard counts are tallied per
// reason; an empty record list is valid and yields an empty result.
func (s *Scanner) Scan(records []domain.RawMarket, now time.Time, f Filters, maxResults int) domain.ScanResult {
	var opps []domain.Opportunity
	discards := make(map[string]int)

	for _, raw := range records {
		opp, reason := s.norm.Normalize(raw, now, f)
		if reason != DiscardNone {
			discards[string(reason)]++
			continue
		}
		opps = append(opps, opp)
	}

	ranked := Rank(opps, maxResults)

	s.logger.Info("scan complete",
		slog.Int("markets_seen", len(records)),
		slog.Int("candidates", len(opps)),
		slog.Int("ranked", len(ranked)),
	)

	return domain.ScanResult{
		ScannedAt:     now,
		MarketsSeen:   len(records),
		Discards:      discards,
		Opportunities: ranked,
	}
}
