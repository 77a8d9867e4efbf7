// Package service coordinates the scan pipeline and strategy lifecycle,
// joining the scanner and compound packages to caches, stores, the signal
// bus, archiving, and notifications.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
	"github.com/alanyoungcy/moonshotbot/internal/notify"
	"github.com/alanyoungcy/moonshotbot/internal/scanner"
)

// MarketFetcher retrieves a materialized market snapshot from the provider.
type MarketFetcher interface {
	GetMarketSnapshot(ctx context.Context, limit int) (domain.MarketSnapshot, error)
}

// ScanConfig holds the tunables for one scan service instance.
type ScanConfig struct {
	Filters    scanner.Filters
	MaxResults int
	FetchLimit int

	// EdgeAlert is the edge score at or above which a discovery notification
	// fires. Zero disables alerts.
	EdgeAlert float64
}

// ScanService runs the fetch-normalize-rank pipeline and owns its side
// effects. Cache, bus, archiver, and notifier are all optional; a nil
// dependency simply skips that effect, so scan mode can run with nothing but
// the fetcher.
type ScanService struct {
	fetcher  MarketFetcher
	scanner  *scanner.Scanner
	cache    domain.ScanCache
	bus      domain.SignalBus
	archiver domain.SnapshotArchiver
	notifier *notify.Notifier
	cfg      ScanConfig
	logger   *slog.Logger
}

// NewScanService creates a ScanService.
func NewScanService(
	fetcher MarketFetcher,
	sc *scanner.Scanner,
	cache domain.ScanCache,
	bus domain.SignalBus,
	archiver domain.SnapshotArchiver,
	notifier *notify.Notifier,
	cfg ScanConfig,
	logger *slog.Logger,
) *ScanService {
	return &ScanService{
		fetcher:  fetcher,
		scanner:  sc,
		cache:    cache,
		bus:      bus,
		archiver: archiver,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "scan_service")),
	}
}

// scanEvent is the payload published on the bus after each run.
type scanEvent struct {
	RunID         string    `json:"run_id"`
	ScannedAt     time.Time `json:"scanned_at"`
	MarketsSeen   int       `json:"markets_seen"`
	Opportunities int       `json:"opportunities"`
	TopEdge       float64   `json:"top_edge,omitempty"`
}

// Run executes one full scan: fetch a fresh snapshot, derive and rank
// opportunities, then cache, broadcast, archive, and alert. Only the fetch
// can fail the run; every side effect degrades to a warning.
func (s *ScanService) Run(ctx context.Context) (domain.ScanResult, error) {
	snap, err := s.fetcher.GetMarketSnapshot(ctx, s.cfg.FetchLimit)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("scan_service: fetch snapshot: %w", err)
	}

	result := s.scanner.Scan(snap.Records, snap.TakenAt, s.cfg.Filters, s.cfg.MaxResults)
	result.RunID = uuid.NewString()

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, result); err != nil {
			s.logger.WarnContext(ctx, "cache latest scan failed",
				slog.String("run_id", result.RunID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.broadcast(ctx, result)

	if s.archiver != nil {
		path, err := s.archiver.ArchiveSnapshot(ctx, result.RunID, snap.TakenAt, snap.Raw)
		if err != nil {
			s.logger.WarnContext(ctx, "snapshot archive failed",
				slog.String("run_id", result.RunID),
				slog.String("error", err.Error()),
			)
		} else {
			s.logger.DebugContext(ctx, "snapshot archived", slog.String("path", path))
		}
	}

	s.alert(ctx, result)
	s.notifyScanComplete(ctx, result)

	return result, nil
}

// Latest returns the most recent cached scan result.
func (s *ScanService) Latest(ctx context.Context) (domain.ScanResult, error) {
	if s.cache == nil {
		return domain.ScanResult{}, domain.ErrNotFound
	}
	result, err := s.cache.GetLatest(ctx)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("scan_service: latest: %w", err)
	}
	return result, nil
}

// broadcast publishes the scan summary on the pub/sub channel and appends it
// to the durable run journal.
func (s *ScanService) broadcast(ctx context.Context, result domain.ScanResult) {
	if s.bus == nil {
		return
	}

	ev := scanEvent{
		RunID:         result.RunID,
		ScannedAt:     result.ScannedAt,
		MarketsSeen:   result.MarketsSeen,
		Opportunities: len(result.Opportunities),
	}
	if len(result.Opportunities) > 0 {
		ev.TopEdge = result.Opportunities[0].EdgeScore
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.bus.Publish(ctx, notify.ChannelScan, payload); err != nil {
		s.logger.WarnContext(ctx, "publish scan event failed", slog.String("error", err.Error()))
	}
	if err := s.bus.StreamAppend(ctx, "scan_runs", payload); err != nil {
		s.logger.WarnContext(ctx, "journal scan event failed", slog.String("error", err.Error()))
	}
}

// alert notifies about newly found high-edge opportunities.
func (s *ScanService) alert(ctx context.Context, result domain.ScanResult) {
	if s.notifier == nil || s.cfg.EdgeAlert <= 0 {
		return
	}

	var hot []domain.Opportunity
	for _, o := range result.Opportunities {
		if o.EdgeScore >= s.cfg.EdgeAlert {
			hot = append(hot, o)
		}
	}
	if len(hot) == 0 {
		return
	}

	title := fmt.Sprintf("%d high-edge markets found", len(hot))
	body := notify.FormatOpportunities(hot, 5)
	if err := s.notifier.Notify(ctx, notify.EventHighEdge, title, body); err != nil {
		s.logger.WarnContext(ctx, "high-edge notification failed", slog.String("error", err.Error()))
	}
}

// notifyScanComplete reports the run summary. Off by default; operators opt
// in through the notify event list.
func (s *ScanService) notifyScanComplete(ctx context.Context, result domain.ScanResult) {
	if s.notifier == nil {
		return
	}

	title := fmt.Sprintf("Scan complete: %d markets, %d opportunities",
		result.MarketsSeen, len(result.Opportunities))
	body := notify.FormatOpportunities(result.Opportunities, 3)
	if err := s.notifier.Notify(ctx, notify.EventScanComplete, title, body); err != nil {
		s.logger.WarnContext(ctx, "scan-complete notification failed", slog.String("error", err.Error()))
	}
}
