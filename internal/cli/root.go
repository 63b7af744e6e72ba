package cli

import (
	"database/sql"
	"log/slog"

	"github.com/alexanderramin/daywatch/internal/config"
	"github.com/alexanderramin/daywatch/internal/db"
	"github.com/alexanderramin/daywatch/internal/repository"
	"github.com/spf13/cobra"
)

// App holds the wired dependencies used by CLI commands.
type App struct {
	DB         *sql.DB
	UoW        db.UnitOfWork
	Activities repository.ActivityRepo
	Timetables repository.TimetableRepo
	Sessions   repository.SessionRepo
	Settings   repository.SettingRepo
	Config     *config.Config
	Logger     *slog.Logger

	// IsInteractive reports whether stdin is attached to a terminal.
	// Interactive-only surfaces (forms, the watch TUI) check it first.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "daywatch" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "daywatch",
		Short: "Daily timetable planner with an elapsed-time tracker",
	}

	root.AddCommand(
		newActivityCmd(app),
		newTimetableCmd(app),
		newStatsCmd(app),
		newDNDCmd(app),
		newRunCmd(app),
		newWatchCmd(app),
	)

	return root
}
