// Package pipeline runs the recurring scan loop for watch and full modes.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
	"github.com/alanyoungcy/moonshotbot/internal/notify"
)

// ScanSource runs one scan and reports its result.
type ScanSource interface {
	Run(ctx context.Context) (domain.ScanResult, error)
}

// ScanRunner drives a ScanSource on a fixed interval. A failed run is logged
// and the loop keeps going; transient upstream errors should not kill the
// watch.
type ScanRunner struct {
	source   ScanSource
	interval time.Duration
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewScanRunner creates a ScanRunner that scans every interval. notifier may
// be nil.
func NewScanRunner(source ScanSource, interval time.Duration, notifier *notify.Notifier, logger *slog.Logger) *ScanRunner {
	return &ScanRunner{
		source:   source,
		interval: interval,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "scan_runner")),
	}
}

// Run scans once immediately, then on every tick until the context is
// cancelled. It returns the context's error on shutdown.
func (r *ScanRunner) Run(ctx context.Context) error {
	r.logger.Info("scan loop starting", slog.Duration("interval", r.interval))

	r.scanOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("scan loop stopped")
			return ctx.Err()
		case <-ticker.C:
			r.scanOnce(ctx)
		}
	}
}

func (r *ScanRunner) scanOnce(ctx context.Context) {
	start := time.Now()
	result, err := r.source.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("scan run failed", slog.String("error", err.Error()))
		if r.notifier != nil {
			if nerr := r.notifier.Notify(ctx, notify.EventError, "Scan run failed", err.Error()); nerr != nil {
				r.logger.Warn("error notification failed", slog.String("error", nerr.Error()))
			}
		}
		return
	}

	r.logger.Info("scan run complete",
		slog.String("run_id", result.RunID),
		slog.Int("markets_seen", result.MarketsSeen),
		slog.Int("opportunities", len(result.Opportunities)),
		slog.Duration("took", time.Since(start)),
	)
}
