package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/daywatch/internal/schedule"
	"github.com/alexanderramin/daywatch/internal/timer"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the reminder daemon for today's timetable",
		Long: "Builds today's schedule, fires start/end reminders at slot " +
			"boundaries, and drives the activity timer. Rebuilds the " +
			"schedule at midnight. Stops on SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			ts := timer.NewService(app.Sessions, app.Logger,
				timer.WithTickInterval(time.Duration(app.Config.TickIntervalSeconds)*time.Second))

			sink := schedule.SinkFunc(func(message string) {
				fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), message)
			})
			policy := schedule.NewPolicy(ts, app.Activities, app.Settings, sink, app.Logger,
				schedule.WithSnoozeDelay(time.Duration(app.Config.SnoozeMinutes)*time.Minute))

			driver := schedule.NewDriver(app.Timetables, policy, app.Logger)
			defer driver.Stop()

			if err := driver.Rebuild(ctx); err != nil {
				return fmt.Errorf("building today's schedule: %w", err)
			}
			app.Logger.Info("daemon started", "pending_events", len(driver.Pending()))

			// Rebuild at midnight so the new day's timetable takes over.
			c := cron.New()
			if _, err := c.AddFunc("0 0 * * *", func() {
				if err := driver.Rebuild(ctx); err != nil {
					app.Logger.Error("midnight rebuild failed", "error", err)
				}
			}); err != nil {
				return fmt.Errorf("scheduling midnight rebuild: %w", err)
			}
			c.Start()
			defer c.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-sigCh:
				app.Logger.Info("signal received, shutting down", "signal", sig.String())
			case <-ctx.Done():
			}

			// Close out any running session so its time is not lost.
			if sessionID, err := ts.Stop(context.Background()); err != nil {
				app.Logger.Error("stopping timer on shutdown", "session_id", sessionID, "error", err)
			}
			return nil
		},
	}
}
