package scanner

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFilters() Filters {
	return Filters{MaxPrice: 0.05, MinVolume: 1000, MinDays: 1}
}

func TestNormalizeCheapYesMarket(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	raw := domain.RawMarket{
		"id":            "mkt-1",
		"question":      "Will a longshot outcome happen?",
		"slug":          "longshot-outcome",
		"endDate":       now.Add(10 * 24 * time.Hour).Format(time.RFC3339),
		"outcomePrices": `["0.02", "0.98"]`,
		"volume":        5000.0,
		"liquidity":     2000.0,
	}

	n := NewNormalizer(testLogger())
	opp, reason := n.Normalize(raw, now, testFilters())
	require.Equal(t, DiscardNone, reason)

	assert.Equal(t, "mkt-1", opp.MarketID)
	assert.Equal(t, "YES", opp.Side)
	assert.InDelta(t, 0.02, opp.Price, 1e-9)
	assert.InDelta(t, 50.0, opp.PotentialMultiplier, 1e-9)
	assert.Equal(t, domain.RiskTierLongshot, opp.RiskTier)
	assert.InDelta(t, 75.0, opp.EdgeScore, 1e-9)
	assert.Equal(t, "HIGH EDGE | low volume (less efficient)", opp.Reasoning)
	assert.InDelta(t, 10.0, opp.DaysToExpiry, 1e-6)
	assert.Equal(t, "https://polymarket.com/event/longshot-outcome", opp.URL())
}

func TestNormalizePicksCheaperNoSide(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	raw := domain.RawMarket{
		"id":            "mkt-2",
		"endDate":       "2026-06-01",
		"outcomePrices": []any{"0.97", "0.03"},
		"volume":        20_000.0,
	}

	n := NewNormalizer(testLogger())
	opp, reason := n.Normalize(raw, now, testFilters())
	require.Equal(t, DiscardNone, reason)

	assert.Equal(t, "NO", opp.Side)
	assert.InDelta(t, 0.03, opp.Price, 1e-9)
}

func TestNormalizeTieGoesToYes(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	raw := domain.RawMarket{
		"endDate":       "2026-06-01",
		"outcomePrices": []any{"0.04", "0.04"},
		"volume":        20_000.0,
	}

	n := NewNormalizer(testLogger())
	opp, reason := n.Normalize(raw, now, testFilters())
	require.Equal(t, DiscardNone, reason)
	assert.Equal(t, "YES", opp.Side)
}

func TestNormalizeDiscards(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := now.Add(30 * 24 * time.Hour).Format(time.RFC3339)

	tests := []struct {
		name   string
		raw    domain.RawMarket
		reason DiscardReason
	}{
		{
			name:   "missing end date",
			raw:    domain.RawMarket{"outcomePrices": `["0.02","0.98"]`, "volume": 5000.0},
			reason: DiscardNoEndDate,
		},
		{
			name:   "garbage end date",
			raw:    domain.RawMarket{"endDate": "soon", "outcomePrices": `["0.02","0.98"]`},
			reason: DiscardBadEndDate,
		},
		{
			name: "expiring too soon",
			raw: domain.RawMarket{
				"endDate":       now.Add(6 * time.Hour).Format(time.RFC3339),
				"outcomePrices": `["0.02","0.98"]`,
				"volume":        5000.0,
			},
			reason: DiscardExpiringSoon,
		},
		{
			name:   "missing prices",
			raw:    domain.RawMarket{"endDate": end, "volume": 5000.0},
			reason: DiscardNoPrices,
		},
		{
			name:   "single outcome price",
			raw:    domain.RawMarket{"endDate": end, "outcomePrices": `["0.02"]`, "volume": 5000.0},
			reason: DiscardNoPrices,
		},
		{
			name:   "unparsable price json",
			raw:    domain.RawMarket{"endDate": end, "outcomePrices": `not json`, "volume": 5000.0},
			reason: DiscardBadPrices,
		},
		{
			name:   "non-numeric price entry",
			raw:    domain.RawMarket{"endDate": end, "outcomePrices": []any{"cheap", "0.98"}, "volume": 5000.0},
			reason: DiscardBadPrices,
		},
		{
			name:   "price above max",
			raw:    domain.RawMarket{"endDate": end, "outcomePrices": `["0.20","0.80"]`, "volume": 5000.0},
			reason: DiscardPriceRange,
		},
		{
			name:   "volume below minimum",
			raw:    domain.RawMarket{"endDate": end, "outcomePrices": `["0.02","0.98"]`, "volume": 10.0},
			reason: DiscardLowVolume,
		},
		{
			name:   "non-numeric volume",
			raw:    domain.RawMarket{"endDate": end, "outcomePrices": `["0.02","0.98"]`, "volume": "lots"},
			reason: DiscardBadNumeric,
		},
	}

	n := NewNormalizer(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reason := n.Normalize(tt.raw, now, testFilters())
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestNormalizeZeroPriceEntryCountsAsOne(t *testing.T) {
	// A zero outcome price means "no market"; it must never be selected as
	// the cheap side.
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	raw := domain.RawMarket{
		"endDate":       "2026-06-01",
		"outcomePrices": []any{"0.03", 0.0},
		"volume":        20_000.0,
	}

	n := NewNormalizer(testLogger())
	opp, reason := n.Normalize(raw, now, testFilters())
	require.Equal(t, DiscardNone, reason)
	assert.Equal(t, "YES", opp.Side)
	assert.InDelta(t, 0.03, opp.Price, 1e-9)
}

func TestNormalizeFieldAliases(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	raw := domain.RawMarket{
		"conditionId":   "cond-9",
		"end_date_iso":  "2026-06-01T12:00:00",
		"outcomePrices": `["0.01", "0.99"]`,
		"volume":        0.0, // zero falls through to volumeNum
		"volumeNum":     30_000.0,
		"liquidityNum":  4000.0,
		"market_slug":   "aliased-market",
	}

	n := NewNormalizer(testLogger())
	opp, reason := n.Normalize(raw, now, testFilters())
	require.Equal(t, DiscardNone, reason)

	assert.Equal(t, "cond-9", opp.MarketID)
	assert.Equal(t, "aliased-market", opp.Slug)
	assert.InDelta(t, 30_000.0, opp.Volume, 1e-9)
	assert.InDelta(t, 4000.0, opp.Liquidity, 1e-9)
	assert.Equal(t, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), opp.EndDate)
}

func TestParseEndDateFormats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-06-01T12:00:00Z", time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2026-06-01T14:00:00+02:00", time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2026-06-01T12:00:00", time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2026-06-01", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseEndDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(tt.want), "parse %s: got %s", tt.in, got)
	}

	_, err := parseEndDate("June 1, 2026")
	assert.Error(t, err)
}
