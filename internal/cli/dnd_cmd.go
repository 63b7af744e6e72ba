package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/daywatch/internal/schedule"
	"github.com/alexanderramin/daywatch/internal/timer"
	"github.com/spf13/cobra"
)

func newDNDCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dnd [on|off]",
		Short: "Show or toggle do-not-disturb",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// A throwaway policy over a detached timer; only the setting
			// and the confirmation notification are exercised here.
			ts := timer.NewService(app.Sessions, app.Logger, timer.WithTickInterval(0))
			sink := schedule.SinkFunc(func(message string) {
				fmt.Println(message)
			})
			policy := schedule.NewPolicy(ts, app.Activities, app.Settings, sink, app.Logger)

			if len(args) == 0 {
				if policy.DoNotDisturb(ctx) {
					fmt.Println("Do Not Disturb is ON")
				} else {
					fmt.Println("Do Not Disturb is OFF")
				}
				return nil
			}

			switch args[0] {
			case "on":
				return policy.SetDoNotDisturb(ctx, true)
			case "off":
				return policy.SetDoNotDisturb(ctx, false)
			default:
				return fmt.Errorf("expected \"on\" or \"off\", got %q", args[0])
			}
		},
	}

	return cmd
}
