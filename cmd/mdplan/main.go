package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/mdplan/internal/cli"
	"github.com/alexanderramin/mdplan/internal/db"
	"github.com/alexanderramin/mdplan/internal/document"
	"github.com/alexanderramin/mdplan/internal/repository"
	"github.com/alexanderramin/mdplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{Connect: connect}

	// Detect interactive terminal for the task form.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	defer app.Close()

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}

// connect wires the document, services and index once the config is known.
func connect(app *cli.App) error {
	cfg := app.Config

	level := slog.LevelWarn
	if cfg.LogCalls {
		level = slog.LevelInfo
	}
	app.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store := document.NewStore(cfg.Document,
		document.WithBackups(cfg.BackupDir, cfg.MaxBackups),
		document.WithLogger(app.Logger),
	)
	app.DocumentPath = store.Path()

	var observers []service.UseCaseObserver
	if cfg.LogCalls {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	app.UseRepos(repository.NewRepos(store, nil, cfg.DefaultSections), nil, observers...)

	database, err := db.OpenDB(cfg.IndexPath)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	app.UseIndex(database, store)
	return nil
}
