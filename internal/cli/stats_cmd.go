package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alexanderramin/daywatch/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show tracked time per activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			totals, err := app.Sessions.TotalsByActivity(context.Background(), days)
			if err != nil {
				return err
			}

			if len(totals) == 0 {
				fmt.Printf("No finished sessions in the last %d day(s).\n", days)
				return nil
			}

			headers := []string{"ACTIVITY", "SESSIONS", "TOTAL"}
			rows := make([][]string, 0, len(totals))
			var grandTotal int
			for _, t := range totals {
				rows = append(rows, []string{
					t.Title,
					strconv.Itoa(t.Sessions),
					formatter.FormatDuration(t.TotalSeconds),
				})
				grandTotal += t.TotalSeconds
			}
			rows = append(rows, []string{
				formatter.Bold("All activities"),
				"",
				formatter.Bold(formatter.FormatDuration(grandTotal)),
			})

			title := fmt.Sprintf("Last %d days", days)
			fmt.Print(formatter.RenderBox(title, formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of recent days to include")

	return cmd
}
