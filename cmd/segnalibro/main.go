package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"segnalibro/internal/adapters/opener"
	"segnalibro/internal/adapters/sqlite"
	"segnalibro/internal/adapters/tui"
	"segnalibro/internal/config"
	"segnalibro/internal/engine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// The TUI owns the terminal, so diagnostics go to a file next to the
	// database instead of stderr.
	logger, closeLog := fileLogger(filepath.Join(filepath.Dir(store.Path()), "segnalibro.log"))
	defer closeLog()

	eng := engine.New(store, store.State(), engine.Config{
		RootID:    sqlite.RootID,
		PrimaryID: cfg.PrimaryID,
		Logger:    logger,
	})
	defer eng.Close()

	if err := eng.Start(context.Background()); err != nil {
		return err
	}

	app := tui.NewApp(eng, store, opener.NewBrowser())
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func fileLogger(path string) (*slog.Logger, func()) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }
}
