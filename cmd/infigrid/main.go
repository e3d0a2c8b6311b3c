package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/infigrid/internal/config"
	"github.com/mmcdole/infigrid/internal/logging"
	"github.com/mmcdole/infigrid/internal/pager"
	"github.com/mmcdole/infigrid/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// errNotTerminal is returned when stdout cannot host the TUI
var errNotTerminal = errors.New("infigrid needs an interactive terminal")

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "infigrid",
		Short:         "Infinitely scrolling grid of numbers",
		Long:          "infigrid shows a grid of sequential integers and loads the next page after a simulated delay whenever the last item scrolls into view.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(config.LoadOptions{File: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return run(cmd.Context(), cfg, os.Stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.config/infigrid/config.yaml)")
	flags.Int("page-size", pager.DefaultPageSize, "items appended per load")
	flags.Duration("delay", pager.DefaultLoadDelay, "simulated load delay")
	flags.Int("columns", 3, "grid columns")
	flags.String("log-file", "", "log file path")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, out *os.File) error {
	if !term.IsTerminal(int(out.Fd())) {
		return errNotTerminal
	}

	// Setup logger
	logger, logCloser, err := logging.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
		logCloser = nil
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting infigrid",
		"version", Version,
		"page_size", cfg.Pagination.PageSize,
		"load_delay", cfg.Pagination.LoadDelay,
		"columns", cfg.UI.GridColumns,
	)

	ctrl := pager.New(cfg.Pagination.PageSize,
		pager.WithLogger(logger),
		pager.WithRearmOnComplete(cfg.Pagination.FillViewport),
	)
	defer ctrl.Close()

	model := tui.NewModel(ctrl, pager.NewDelayLoader(cfg.Pagination.LoadDelay), tui.Options{
		Columns:    cfg.UI.GridColumns,
		CellHeight: cfg.UI.CellHeight,
		Logger:     logger,
	})

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	logger.Info("starting TUI")

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
