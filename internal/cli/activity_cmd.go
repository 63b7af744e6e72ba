package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/daywatch/internal/cli/formatter"
	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage activities",
	}

	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityUpdateCmd(app),
		newActivityRemoveCmd(app),
	)

	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var title, description string
	var effort int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return fmt.Errorf("--title is required in non-interactive mode")
				}
				var effortStr string
				if err := activityForm(&title, &description, &effortStr).Run(); err != nil {
					return err
				}
				if effortStr != "" {
					effort, _ = strconv.Atoi(effortStr)
				}
			}

			a := &domain.Activity{
				ID:          uuid.New().String(),
				Title:       title,
				Description: description,
				EffortLevel: effort,
				CreatedAt:   time.Now(),
			}
			if err := app.Activities.Create(context.Background(), a); err != nil {
				return err
			}

			fmt.Printf("Created activity %s (%s)\n", a.Title, a.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Activity title")
	cmd.Flags().StringVar(&description, "desc", "", "Activity description")
	cmd.Flags().IntVar(&effort, "effort", 0, "Effort level (1-5)")

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			activities, err := app.Activities.List(context.Background())
			if err != nil {
				return err
			}

			if len(activities) == 0 {
				fmt.Println("No activities yet. Add one with 'daywatch activity add'.")
				return nil
			}

			headers := []string{"ID", "TITLE", "EFFORT", "DESCRIPTION"}
			rows := make([][]string, 0, len(activities))
			for _, a := range activities {
				effort := "--"
				if a.EffortLevel > 0 {
					effort = strconv.Itoa(a.EffortLevel)
				}
				desc := a.Description
				if len(desc) > 40 {
					desc = desc[:37] + "..."
				}
				rows = append(rows, []string{
					formatter.TruncID(a.ID),
					a.Title,
					effort,
					formatter.Dim(desc),
				})
			}

			fmt.Print(formatter.RenderBox("Activities", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}

func newActivityUpdateCmd(app *App) *cobra.Command {
	var title, description string
	var effort int

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveActivityID(ctx, app, args[0])
			if err != nil {
				return err
			}
			a, err := app.Activities.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("title") {
				a.Title = title
			}
			if cmd.Flags().Changed("desc") {
				a.Description = description
			}
			if cmd.Flags().Changed("effort") {
				a.EffortLevel = effort
			}

			if err := app.Activities.Update(ctx, a); err != nil {
				return err
			}
			fmt.Printf("Updated activity %s\n", a.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "desc", "", "New description")
	cmd.Flags().IntVar(&effort, "effort", 0, "New effort level (1-5)")

	return cmd
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveActivityID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Activities.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed activity %s\n", id[:8])
			return nil
		},
	}
}
