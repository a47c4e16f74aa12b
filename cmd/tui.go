package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sciencehub/shx/internal/shared"
	"github.com/sciencehub/shx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser. The terminal belongs to
// bubbletea while it runs, so logs go to a file instead of stderr.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	logger, err := shared.NewFileLogger("./tmp/shx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to open TUI log file: %w", err)
	}
	r.SetLogger(logger)

	model := ui.NewModel(ctx, r.taskEngine(), r.toggler, r.store, r.config.Downloads.Dir)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI exited with error: %w", err)
	}
	return nil
}
