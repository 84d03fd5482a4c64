package main

import (
	"fmt"
	"os"

	"bistro/cmd"
	"bistro/internal/db"
	"bistro/internal/logger"
	"bistro/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	if err := cmd.NewRootCommand(version, run).Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *cmd.Config) error {
	cleanup, err := logger.Setup(logger.Config{Dir: cfg.LogDir, Debug: cfg.Debug})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer func() { _ = cleanup() }()

	log := logger.L()
	log.Info("app.start",
		"version", version,
		"config", cfg.ConfigFile,
		"thumbnails", cfg.Thumbnails,
		"alt_screen", cfg.AltScreen,
	)

	// The catalog lives only as long as the process.
	database, err := db.OpenMemory()
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer database.Close()

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	app := ui.WrapSafe(ui.New(database, ui.Options{Thumbnails: cfg.Thumbnails, Logger: log}), log)
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		log.Error("app.run_failed", "err", err)
		return fmt.Errorf("run app: %w", err)
	}

	log.Info("app.exit")
	return nil
}
