package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/moonshotbot/internal/compound"
	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Header(50, 100_000)

	assert.Contains(t, buf.String(), "MOONSHOT TRACKER - $50 -> $100K CHALLENGE")
}

func TestStrategyBreakdown(t *testing.T) {
	st, err := compound.Plan(50, 100_000, 5)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewRenderer(&buf).Strategy(st)
	out := buf.String()

	assert.Contains(t, out, "Starting: $50.00")
	assert.Contains(t, out, "Target: $100,000.00")
	assert.Contains(t, out, "Required: 2,000x total")
	assert.Contains(t, out, "Stages: 2")
	assert.Contains(t, out, "Per stage: 44.7x")
	assert.Contains(t, out, "[>] Stage 1:")
	assert.Contains(t, out, "[ ] Stage 2:")

	require.NoError(t, st.AdvanceStage())
	buf.Reset()
	NewRenderer(&buf).Strategy(st)
	assert.Contains(t, buf.String(), "[X] Stage 1:")
	assert.Contains(t, buf.String(), "[>] Stage 2:")
}

func TestOpportunitiesList(t *testing.T) {
	opps := []domain.Opportunity{{
		Question:            "Will the extremely unlikely thing happen before the end of the decade, against all odds?",
		Slug:                "unlikely-thing",
		Side:                "YES",
		Price:               0.02,
		PotentialMultiplier: 50,
		Volume:              5000,
		DaysToExpiry:        10,
		RiskTier:            domain.RiskTierLongshot,
		EdgeScore:           75,
	}}

	var buf bytes.Buffer
	NewRenderer(&buf).Opportunities(opps)
	out := buf.String()

	assert.Contains(t, out, "TOP OPPORTUNITIES (by edge score)")
	assert.Contains(t, out, " 1. [LONG] $0.0200 -> 50x")
	assert.Contains(t, out, "Edge: 75/100 | Vol: $5,000 | 10d")
	assert.Contains(t, out, "https://polymarket.com/event/unlikely-thing")
	// Long questions are truncated for display.
	assert.NotContains(t, out, "against all odds?")
}

func TestOpportunitiesDisplayCap(t *testing.T) {
	var opps []domain.Opportunity
	for i := 0; i < 20; i++ {
		opps = append(opps, domain.Opportunity{
			Price:               0.02,
			PotentialMultiplier: 50,
			RiskTier:            domain.RiskTierLongshot,
		})
	}

	var buf bytes.Buffer
	NewRenderer(&buf).Opportunities(opps)
	out := buf.String()

	assert.Contains(t, out, "15. [LONG]")
	assert.NotContains(t, out, "16. [LONG]")
}

func TestPositions(t *testing.T) {
	st, err := compound.Plan(50, 100_000, 5)
	require.NoError(t, err)

	positions := []domain.Position{{
		Question:            "Will it happen?",
		Side:                "YES",
		Price:               0.02,
		Allocation:          25,
		Shares:              1250,
		PotentialValue:      1250,
		PotentialMultiplier: 50,
		URL:                 "https://polymarket.com/event/it",
	}}

	var buf bytes.Buffer
	NewRenderer(&buf).Positions(st, positions)
	out := buf.String()

	assert.Contains(t, out, "RECOMMENDED POSITIONS FOR STAGE 1 ($50 ->")
	assert.Contains(t, out, "$25.00 -> YES @ $0.0200")
	assert.Contains(t, out, "1250.0 shares -> potential $1250.00 (50x)")
	assert.Contains(t, out, "TOTAL POTENTIAL: $1,250.00 (if ONE hits)")
}

func TestRealityCheck(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).RealityCheck(5, 50)
	out := buf.String()

	assert.Contains(t, out, "REALITY CHECK")
	assert.Contains(t, out, "betting on 5 longshots")
	assert.Contains(t, out, "you lose $50")
	assert.Contains(t, out, "gambling, not investing")
}

func TestMoneyFormats(t *testing.T) {
	assert.Equal(t, "1,234.50", money(1234.5))
	assert.Equal(t, "0.02", money(0.02))
	assert.Equal(t, "-1,000.00", money(-1000))
	assert.Equal(t, "1,234,567.89", money(1234567.89))

	assert.Equal(t, "100K", compactMoney(100_000))
	assert.Equal(t, "1,000K", compactMoney(1_000_000))
	assert.Equal(t, "50", compactMoney(50))
	assert.Equal(t, "1,500", compactMoney(1500))
	assert.Equal(t, "12.34", compactMoney(12.34))

	assert.Equal(t, "2,000", commaInt(2000))
	assert.Equal(t, "999", commaInt(999))
}
