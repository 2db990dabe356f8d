//go:build !gui

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/digest/internal/ui"
)

func runTUI(ctx context.Context, e *env) error {
	opts := ui.Options{
		Origin:      e.cfg.Origin(),
		ExpandLevel: e.cfg.ExpandLevel,
		NarrowWidth: e.cfg.NarrowWidth,
		Overlap:     e.cfg.Overlap,
		Timeout:     e.cfg.Timeout,
		Fresh:       e.fresh,
		Log:         e.log,
		Changes:     e.changes,
	}
	if e.store != nil {
		opts.Store = e.store
	}

	m := ui.New(e.src, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := newRootCommand("digest", "Read digest books in the terminal", runTUI)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
