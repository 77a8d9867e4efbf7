package domain

import "time"

// RawMarket is one untyped market record as returned by the data provider.
// Field names, presence, and value types vary between Gamma API responses;
// the scanner extracts what it needs and discards records it cannot read.
type RawMarket map[string]any

// MarketSnapshot is the fully materialized result of one provider fetch. Raw
// keeps the original response body so snapshots can be archived verbatim.
type MarketSnapshot struct {
	TakenAt time.Time
	Records []RawMarket
	Raw     []byte
}

// ScanResult bundles everything one scan run produced: the ranked candidate
// list plus bookkeeping about what was seen and why records were dropped.
type ScanResult struct {
	RunID         string         `json:"run_id"`
	ScannedAt     time.Time      `json:"scanned_at"`
	MarketsSeen   int            `json:"markets_seen"`
	Discards      map[string]int `json:"discards,omitempty"`
	Opportunities []Opportunity  `json:"opportunities"`
}
