// Package scanner turns raw Gamma market records into ranked moonshot
// opportunities. Records that are missing fields or fail to parse are
// discarded with a typed reason; nothing in here is fatal per record.
package scanner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

// Filters are the record-level acceptance thresholds for a scan.
type Filters struct {
	MaxPrice  float64 // cheap side must cost at most this, in (0, 1]
	MinVolume float64 // minimum USD volume
	MinDays   float64 // minimum days until market end
}

// DiscardReason says why the normalizer dropped a record.
type DiscardReason string

const (
	DiscardNone          DiscardReason = ""
	DiscardNoEndDate     DiscardReason = "no_end_date"
	DiscardBadEndDate    DiscardReason = "bad_end_date"
	DiscardExpiringSoon  DiscardReason = "expiring_too_soon"
	DiscardNoPrices      DiscardReason = "no_outcome_prices"
	DiscardBadPrices     DiscardReason = "bad_outcome_prices"
	DiscardPriceRange    DiscardReason = "price_out_of_range"
	DiscardLowVolume     DiscardReason = "below_min_volume"
	DiscardBadNumeric    DiscardReason = "non_numeric_field"
)

// Normalizer extracts zero or one Opportunity per raw market record.
type Normalizer struct {
	scorer EdgeScorer
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// Normalize applies the date, price, and volume filters to one raw record and
// builds an Opportunity from it. The second return value is DiscardNone when
// the record was kept, otherwise the reason it was dropped.
func (n *Normalizer) Normalize(raw domain.RawMarket, now time.Time, f Filters) (domain.Opportunity, DiscardReason) {
	endDateStr := stringField(raw, "endDate", "end_date_iso")
	if endDateStr == "" {
		return domain.Opportunity{}, DiscardNoEndDate
	}

	endDate, err := parseEndDate(endDateStr)
	if err != nil {
		n.logger.Debug("unparsable end date",
			slog.String("end_date", endDateStr),
			slog.String("error", err.Error()),
		)
		return domain.Opportunity{}, DiscardBadEndDate
	}

	daysLeft := endDate.Sub(now).Hours() / 24
	if daysLeft < f.MinDays {
		return domain.Opportunity{}, DiscardExpiringSoon
	}

	prices, reason := outcomePrices(raw)
	if reason != DiscardNone {
		return domain.Opportunity{}, reason
	}

	yesPrice, err := priceEntry(prices[0])
	if err != nil {
		return domain.Opportunity{}, DiscardBadPrices
	}
	noPrice, err := priceEntry(prices[1])
	if err != nil {
		return domain.Opportunity{}, DiscardBadPrices
	}

	// Find the cheap side; ties go to YES.
	side, price := "YES", yesPrice
	if noPrice < yesPrice {
		side, price = "NO", noPrice
	}

	if price <= 0 || price > f.MaxPrice {
		return domain.Opportunity{}, DiscardPriceRange
	}

	volume, err := floatField(raw, 0, "volume", "volumeNum")
	if err != nil {
		return domain.Opportunity{}, DiscardBadNumeric
	}
	if volume < f.MinVolume {
		return domain.Opportunity{}, DiscardLowVolume
	}

	liquidity, err := floatField(raw, 0, "liquidity", "liquidityNum")
	if err != nil {
		return domain.Opportunity{}, DiscardBadNumeric
	}

	multiplier := 1.0 / price
	category := stringField(raw, "groupItemTitle", "category")
	edgeScore := n.scorer.Score(category, volume, liquidity)

	return domain.Opportunity{
		MarketID:            stringField(raw, "id", "conditionId"),
		Question:            stringField(raw, "question"),
		Slug:                stringField(raw, "slug", "market_slug"),
		Side:                side,
		Price:               price,
		PotentialMultiplier: multiplier,
		Volume:              volume,
		Liquidity:           liquidity,
		DaysToExpiry:        daysLeft,
		EndDate:             endDate,
		RiskTier:            domain.ClassifyRisk(multiplier),
		EdgeScore:           edgeScore,
		Category:            category,
		Reasoning:           n.scorer.Reasoning(edgeScore, volume),
	}, DiscardNone
}

// parseEndDate accepts RFC 3339 timestamps (trailing Z or explicit offset)
// plus zone-naive ISO forms, which are taken as UTC. The result is always UTC.
func parseEndDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("scanner: unsupported date format %q", s)
}

// outcomePrices extracts the two-element price array, decoding it from a JSON
// string when the API sends it encoded.
func outcomePrices(raw domain.RawMarket) ([]any, DiscardReason) {
	v, ok := raw["outcomePrices"]
	if !ok || v == nil {
		return nil, DiscardNoPrices
	}

	var arr []any
	switch t := v.(type) {
	case []any:
		arr = t
	case string:
		if t == "" {
			return nil, DiscardNoPrices
		}
		if err := json.Unmarshal([]byte(t), &arr); err != nil {
			return nil, DiscardBadPrices
		}
	default:
		return nil, DiscardBadPrices
	}

	if len(arr) < 2 {
		return nil, DiscardNoPrices
	}
	return arr, DiscardNone
}

// priceEntry coerces one outcome price. Missing, empty, and zero entries count
// as price 1.0 so they can never be picked as the cheap side.
func priceEntry(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 1.0, nil
	case float64:
		if t == 0 {
			return 1.0, nil
		}
		return t, nil
	case string:
		if t == "" {
			return 1.0, nil
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("scanner: price entry %q: %w", t, err)
		}
		return p, nil
	case json.Number:
		p, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("scanner: price entry %q: %w", t.String(), err)
		}
		if p == 0 {
			return 1.0, nil
		}
		return p, nil
	default:
		return 0, fmt.Errorf("scanner: price entry has type %T", v)
	}
}

// stringField returns the first non-empty string among the given key aliases.
// Numeric IDs are formatted rather than rejected.
func stringField(raw domain.RawMarket, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case json.Number:
			return t.String()
		}
	}
	return ""
}

// floatField returns the first usable numeric value among the given key
// aliases. Empty and zero values fall through to the next alias so that e.g. a
// blank "volume" still picks up "volumeNum". A present but non-numeric value
// is an error, which discards the record.
func floatField(raw domain.RawMarket, def float64, keys ...string) (float64, error) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			if t == 0 {
				continue
			}
			return t, nil
		case string:
			if t == "" {
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				return 0, fmt.Errorf("scanner: field %s=%q: %w", k, t, err)
			}
			return f, nil
		case json.Number:
			f, err := t.Float64()
			if err != nil {
				return 0, fmt.Errorf("scanner: field %s=%q: %w", k, t.String(), err)
			}
			return f, nil
		default:
			return 0, fmt.Errorf("scanner: field %s has type %T", k, v)
		}
	}
	return def, nil
}
