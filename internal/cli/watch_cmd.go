package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/daywatch/internal/schedule"
	"github.com/alexanderramin/daywatch/internal/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Interactive dashboard with live timer and reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("watch requires an interactive terminal")
			}

			ctx := context.Background()

			ts := timer.NewService(app.Sessions, app.Logger,
				timer.WithTickInterval(time.Duration(app.Config.TickIntervalSeconds)*time.Second))

			noticeCh := make(chan string, 32)
			sink := schedule.SinkFunc(func(message string) {
				select {
				case noticeCh <- message:
				default:
				}
			})
			policy := schedule.NewPolicy(ts, app.Activities, app.Settings, sink, app.Logger,
				schedule.WithSnoozeDelay(time.Duration(app.Config.SnoozeMinutes)*time.Minute))

			driver := schedule.NewDriver(app.Timetables, policy, app.Logger)
			defer driver.Stop()

			if err := driver.Rebuild(ctx); err != nil {
				return fmt.Errorf("building today's schedule: %w", err)
			}

			m := newWatchModel(app, ts, policy, noticeCh)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return err
			}

			// Close out any running session before exiting.
			if sessionID, err := ts.Stop(context.Background()); err != nil {
				app.Logger.Error("stopping timer on exit", "session_id", sessionID, "error", err)
			}
			return nil
		},
	}
}
