package scanner

import (
	"sort"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

// Rank orders opportunities by edge score, highest first, and truncates to
// maxResults. The sort is stable: equal scores keep their input order, so an
// upstream ordering (e.g. by volume) survives as the tie-break.
func Rank(opps []domain.Opportunity, maxResults int) []domain.Opportunity {
	ranked := make([]domain.Opportunity, len(opps))
	copy(ranked, opps)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EdgeScore > ranked[j].EdgeScore
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}
