package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/sharpboard/internal/dashboard"
	"github.com/yourusername/sharpboard/internal/health"
	"github.com/yourusername/sharpboard/internal/scheduler"
)

var (
	watchOpts boardFlags
	watchDemo bool
)

func init() {
	watchOpts.register(watchCmd)
	watchCmd.Flags().BoolVar(&watchDemo, "demo", false, "Fall back to the demo board whenever the backend is down")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the backend and redraw the board on every refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, client, err := newSession()
		if err != nil {
			return err
		}
		defer client.Close()

		criteria, err := watchOpts.apply(cmd.Flags(), session.Criteria())
		if err != nil {
			return err
		}
		session.SetCriteria(criteria)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var healthServer *health.Server
		if cfg.Metrics.Enabled {
			healthServer = health.NewServer(health.Config{
				ServiceName:    cfg.App.Name,
				Version:        Version,
				Port:           cfg.Metrics.Port,
				MetricsPath:    cfg.Metrics.Path,
				Logger:         logger,
				Backend:        client,
				AllowedOrigins: cfg.Metrics.AllowedOrigins,
			})
			if err := healthServer.Start(ctx); err != nil {
				return fmt.Errorf("failed to start health server: %w", err)
			}
		}

		updates := make(chan struct{}, 1)
		refresh := func(ctx context.Context) error {
			err := session.Refresh(ctx)
			if err != nil && watchDemo && !errors.Is(err, dashboard.ErrRefreshInFlight) {
				session.LoadDemo()
			}
			if healthServer != nil {
				healthServer.SetReady(session.Ready())
			}
			select {
			case updates <- struct{}{}:
			default:
			}
			return err
		}

		sched := scheduler.NewScheduler(logger, dashboard.ErrRefreshInFlight)
		if err := sched.ScheduleEvery("board-refresh", cfg.Refresh.Interval, refresh); err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"backend":  cfg.Backend.String(),
			"interval": cfg.Refresh.Interval,
			"metrics":  cfg.Metrics.Enabled,
		}).Info("Watching board")

		if cfg.Refresh.RunOnStart {
			runCtx, cancel := context.WithTimeout(ctx, cfg.Refresh.RefreshTimeout())
			_ = refresh(runCtx)
			cancel()
		}

		if err := sched.Start(); err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return drawLoop(gctx, cmd.OutOrStdout(), session, updates, sched)
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Shutdown signal received")
			return sched.Stop()
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("Watch stopped")
		return nil
	},
}

// nextRunner reports when the refresh job fires next.
type nextRunner interface {
	IsRunning() bool
	GetNextRun() time.Time
}

// drawLoop redraws the board after every refresh until ctx ends.
func drawLoop(ctx context.Context, w io.Writer, session *dashboard.Session, updates <-chan struct{}, sched nextRunner) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			if watchOpts.output == outputTable {
				// Clear screen and home the cursor
				fmt.Fprint(w, "\033[H\033[2J")
			}
			if err := writeOutput(w, watchOpts.output, session.Snapshot(), watchOpts.top); err != nil {
				return err
			}
			// Structured output stays machine-readable
			if watchOpts.output == outputTable && sched.IsRunning() {
				if next := sched.GetNextRun(); !next.IsZero() {
					fmt.Fprintf(w, "next refresh %s\n", next.Format("15:04:05"))
				}
			}
		}
	}
}
