package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
	"github.com/alanyoungcy/moonshotbot/internal/pipeline"
	"github.com/alanyoungcy/moonshotbot/internal/report"
	"github.com/alanyoungcy/moonshotbot/internal/server"
	"github.com/alanyoungcy/moonshotbot/internal/server/handler"
	"github.com/alanyoungcy/moonshotbot/internal/server/ws"
)

// ScanMode runs one scan and prints the full dashboard: strategy plan, ranked
// opportunities, and recommended positions for the current stage.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	out := report.NewRenderer(os.Stdout)
	moon := a.cfg.Moonshot

	st, err := deps.StrategySvc.LoadOrPlan(ctx, moon.StartingCapital, moon.Target, moon.MaxStages)
	if err != nil {
		return fmt.Errorf("scan mode: plan strategy: %w", err)
	}

	out.Header(moon.StartingCapital, moon.Target)
	out.Strategy(st)
	out.Scanning()

	result, err := deps.ScanSvc.Run(ctx)
	if err != nil {
		return fmt.Errorf("scan mode: %w", err)
	}

	if len(result.Opportunities) == 0 {
		out.NoOpportunities()
		return nil
	}

	out.Opportunities(result.Opportunities)

	positions, err := deps.StrategySvc.RecommendPositions(ctx, st, result.Opportunities, moon.MaxPositions)
	if err != nil {
		if errors.Is(err, domain.ErrNoViableOpportunities) {
			out.NoOpportunities()
			return nil
		}
		return fmt.Errorf("scan mode: recommend positions: %w", err)
	}

	out.Positions(st, positions)
	out.RealityCheck(len(positions), moon.StartingCapital)

	return nil
}

// WatchMode runs the scan loop forever, caching and broadcasting each run.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting watch mode")

	runner := pipeline.NewScanRunner(deps.ScanSvc, a.cfg.Pipeline.ScanInterval.Duration, deps.Notifier, a.logger)
	err := runner.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// ServerMode serves the HTTP API and WebSocket feed. Scans happen on demand
// through POST /api/scan/trigger.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startServer(ctx, g, deps)
	return g.Wait()
}

// FullMode runs the scan loop and the API server together.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	runner := pipeline.NewScanRunner(deps.ScanSvc, a.cfg.Pipeline.ScanInterval.Duration, deps.Notifier, a.logger)
	g.Go(func() error {
		err := runner.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("scan runner: %w", err)
	})

	a.startServer(ctx, g, deps)

	return g.Wait()
}

// startServer adds the HTTP server and WebSocket hub goroutines to the given
// errgroup, loading the strategy first so the API can serve it.
func (a *App) startServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	moon := a.cfg.Moonshot

	g.Go(func() error {
		st, err := deps.StrategySvc.LoadOrPlan(ctx, moon.StartingCapital, moon.Target, moon.MaxStages)
		if err != nil {
			return fmt.Errorf("server: plan strategy: %w", err)
		}

		startedAt := time.Now().UTC()

		var hub *ws.Hub
		if deps.SignalBus != nil {
			hub = ws.NewHub(deps.SignalBus, a.logger, ws.Config{
				Mode:      a.cfg.Mode,
				StartedAt: startedAt,
			})
			g.Go(func() error {
				if err := hub.Run(ctx); ctx.Err() == nil {
					return err
				}
				return nil
			})
		}

		srv := server.NewServer(
			server.Config{
				Port:        a.cfg.Server.Port,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				APIKey:      a.cfg.Server.APIKey,
				RateLimit:   a.cfg.Server.RateLimit,
				RateWindow:  a.cfg.Server.RateWindow.Duration,
			},
			server.Handlers{
				Health:   handler.NewHealthHandler(a.cfg.Mode, startedAt),
				Scan:     handler.NewScanHandler(deps.ScanSvc, a.logger),
				Strategy: handler.NewStrategyHandler(deps.StrategySvc, deps.ScanSvc, st, moon.MaxPositions, a.logger),
			},
			hub,
			deps.RateLimiter,
			a.logger,
		)

		g.Go(func() error {
			<-ctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutCtx)
		})

		return srv.Start()
	})
}
