package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/daywatch/internal/cli"
	"github.com/alexanderramin/daywatch/internal/config"
	"github.com/alexanderramin/daywatch/internal/db"
	"github.com/alexanderramin/daywatch/internal/repository"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := &cli.App{
		DB:         database,
		UoW:        db.NewSQLiteUnitOfWork(database),
		Activities: repository.NewSQLiteActivityRepo(database),
		Timetables: repository.NewSQLiteTimetableRepo(database),
		Sessions:   repository.NewSQLiteSessionRepo(database),
		Settings:   repository.NewSQLiteSettingRepo(database),
		Config:     cfg,
		Logger:     logger,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// newLogger builds a stderr slog logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
