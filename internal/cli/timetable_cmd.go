package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/daywatch/internal/cli/formatter"
	"github.com/alexanderramin/daywatch/internal/db"
	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/alexanderramin/daywatch/internal/export"
	"github.com/alexanderramin/daywatch/internal/repository"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTimetableCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Manage daily timetables",
	}

	cmd.AddCommand(
		newTimetableSetCmd(app),
		newTimetableShowCmd(app),
		newTimetableClearCmd(app),
		newTimetableExportCmd(app),
	)

	return cmd
}

// resolveDate turns a --date flag into YYYY-MM-DD, defaulting to today.
func resolveDate(date string) (string, error) {
	if date == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t.Format("2006-01-02"), nil
}

func newTimetableSetCmd(app *App) *cobra.Command {
	var date, mode string
	var slots []string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the timetable for a day, replacing any existing slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			day, err := resolveDate(date)
			if err != nil {
				return err
			}
			if !domain.ValidTimetableModes[mode] {
				return fmt.Errorf("invalid mode %q: expected chill or locked_in", mode)
			}
			if len(slots) == 0 {
				return fmt.Errorf("at least one --slot is required")
			}

			specs := make([]slotSpec, 0, len(slots))
			for _, raw := range slots {
				spec, err := parseSlotSpec(raw)
				if err != nil {
					return err
				}
				specs = append(specs, spec)
			}

			tt, err := app.Timetables.GetByDate(ctx, day)
			switch {
			case err == nil:
				// Replacing slots on an existing day.
			case repository.IsNotFound(err):
				tt = &domain.Timetable{
					ID:        uuid.New().String(),
					Date:      day,
					Mode:      domain.TimetableMode(mode),
					CreatedAt: time.Now(),
				}
				if err := app.Timetables.Create(ctx, tt); err != nil {
					return err
				}
			default:
				return err
			}

			entries := make([]*domain.TimetableEntry, 0, len(specs))
			for i, spec := range specs {
				activityID, err := resolveActivityID(ctx, app, spec.Activity)
				if err != nil {
					return err
				}
				entries = append(entries, &domain.TimetableEntry{
					ID:          uuid.New().String(),
					TimetableID: tt.ID,
					ActivityID:  activityID,
					StartTime:   spec.Start,
					EndTime:     spec.End,
					Note:        spec.Note,
					Position:    i,
					CreatedAt:   time.Now(),
				})
			}

			err = app.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				return repository.NewSQLiteTimetableRepo(tx).ReplaceEntries(ctx, tt.ID, entries)
			})
			if err != nil {
				return err
			}

			fmt.Printf("Set timetable for %s with %d slot(s)\n", day, len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to plan (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeChill), "Day mode: chill or locked_in")
	cmd.Flags().StringArrayVar(&slots, "slot", nil, "Slot spec HH:MM-HH:MM[@activity][#note] (repeatable)")

	return cmd
}

func newTimetableShowCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a day's timetable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			day, err := resolveDate(date)
			if err != nil {
				return err
			}

			tt, err := app.Timetables.GetByDate(ctx, day)
			if repository.IsNotFound(err) {
				fmt.Printf("No timetable for %s.\n", day)
				return nil
			}
			if err != nil {
				return err
			}

			entries, err := app.Timetables.ListEntries(ctx, tt.ID)
			if err != nil {
				return err
			}

			headers := []string{"START", "END", "ACTIVITY", "NOTE"}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.StartTime,
					e.EndTime,
					activityLabel(ctx, app, e.ActivityID),
					formatter.Dim(e.Note),
				})
			}

			title := fmt.Sprintf("%s  %s", day, formatter.ModeBadge(tt.Mode))
			fmt.Print(formatter.RenderBox(title, formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, default today)")

	return cmd
}

func newTimetableClearCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete a day's timetable and its slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			day, err := resolveDate(date)
			if err != nil {
				return err
			}

			tt, err := app.Timetables.GetByDate(ctx, day)
			if repository.IsNotFound(err) {
				fmt.Printf("No timetable for %s.\n", day)
				return nil
			}
			if err != nil {
				return err
			}

			if err := app.Timetables.Delete(ctx, tt.ID); err != nil {
				return err
			}
			fmt.Printf("Cleared timetable for %s\n", day)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to clear (YYYY-MM-DD, default today)")

	return cmd
}

func newTimetableExportCmd(app *App) *cobra.Command {
	var date, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a day's timetable as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			day, err := resolveDate(date)
			if err != nil {
				return err
			}

			tt, err := app.Timetables.GetByDate(ctx, day)
			if err != nil {
				return err
			}
			entries, err := app.Timetables.ListEntries(ctx, tt.ID)
			if err != nil {
				return err
			}

			dayTime, _ := time.ParseInLocation("2006-01-02", day, time.Local)
			cal, err := export.ICS(entries, dayTime, func(activityID string) string {
				return activityLabel(ctx, app, activityID)
			})
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Print(cal)
				return nil
			}
			if err := os.WriteFile(out, []byte(cal), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Printf("Exported %d slot(s) to %s\n", len(entries), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to export (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")

	return cmd
}

// activityLabel returns a display title for an activity ID, falling
// back to "Unassigned" for empty IDs.
func activityLabel(ctx context.Context, app *App, activityID string) string {
	if activityID == "" {
		return "Unassigned"
	}
	a, err := app.Activities.GetByID(ctx, activityID)
	if err != nil {
		return "Activity " + activityID
	}
	return a.Title
}
