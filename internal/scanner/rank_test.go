package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

func oppWithEdge(id string, edge float64) domain.Opportunity {
	return domain.Opportunity{MarketID: id, EdgeScore: edge}
}

func rankedIDs(opps []domain.Opportunity) []string {
	ids := make([]string, len(opps))
	for i, o := range opps {
		ids[i] = o.MarketID
	}
	return ids
}

func TestRankOrdersByEdgeDescending(t *testing.T) {
	in := []domain.Opportunity{
		oppWithEdge("a", 60),
		oppWithEdge("b", 85),
		oppWithEdge("c", 75),
	}

	got := Rank(in, 0)
	assert.Equal(t, []string{"b", "c", "a"}, rankedIDs(got))
	// Input slice stays untouched.
	assert.Equal(t, []string{"a", "b", "c"}, rankedIDs(in))
}

func TestRankStableOnTies(t *testing.T) {
	in := []domain.Opportunity{
		oppWithEdge("first", 75),
		oppWithEdge("second", 75),
		oppWithEdge("third", 75),
	}

	got := Rank(in, 0)
	assert.Equal(t, []string{"first", "second", "third"}, rankedIDs(got))
}

func TestRankTruncates(t *testing.T) {
	in := []domain.Opportunity{
		oppWithEdge("a", 60),
		oppWithEdge("b", 85),
		oppWithEdge("c", 75),
		oppWithEdge("d", 90),
	}

	got := Rank(in, 2)
	assert.Equal(t, []string{"d", "b"}, rankedIDs(got))

	// Zero means no cap.
	assert.Len(t, Rank(in, 0), 4)
	// A cap larger than the input is harmless.
	assert.Len(t, Rank(in, 10), 4)
}
