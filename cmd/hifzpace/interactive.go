package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/hifzpace/internal/dashboard"
	"github.com/verte-zerg/hifzpace/internal/slider"
	"github.com/verte-zerg/hifzpace/internal/store"
)

var (
	sliderOpts    planOptions
	dashboardOpts planOptions
)

func newSliderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slider",
		Short: "Tune pace interactively with a live estimate",
		Args:  cobra.NoArgs,
		RunE:  runSliderCmd,
	}
	sliderOpts.register(cmd)
	return cmd
}

func runSliderCmd(cmd *cobra.Command, _ []string) error {
	if err := requireTerminal(); err != nil {
		return err
	}
	p, cleanup, err := interactivePlan(cmd, &sliderOpts)
	if err != nil {
		return err
	}
	defer cleanup()

	progress := p.progress
	progress.BaseLinesPerDay = p.pace
	m := slider.NewModel(p.engine, progress)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run slider TUI: %w", err)
	}
	return nil
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Explore the full projection in a tabbed view",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	dashboardOpts.register(cmd)
	return cmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	if err := requireTerminal(); err != nil {
		return err
	}
	p, cleanup, err := interactivePlan(cmd, &dashboardOpts)
	if err != nil {
		return err
	}
	defer cleanup()

	progress := p.progress
	progress.BaseLinesPerDay = p.pace
	m := dashboard.NewModel(p.engine, progress, p.calendar, p.phases)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard TUI: %w", err)
	}
	return nil
}

// interactivePlan resolves a plan for a TUI. The returned cleanup closes the
// logger and store.
func interactivePlan(cmd *cobra.Command, o *planOptions) (plan, func(), error) {
	fileCfg, err := loadConfig()
	if err != nil {
		return plan{}, nil, err
	}
	logger, err := newLogger(fileCfg, "")
	if err != nil {
		return plan{}, nil, err
	}
	o.applyConfig(cmd, fileCfg)

	var st *store.Store
	if o.needsStore() {
		st, err = openStore()
		if err != nil {
			syncLogger(logger)
			return plan{}, nil, err
		}
	}
	cleanup := func() {
		closeStore(st)
		syncLogger(logger)
	}
	p, err := resolvePlan(cmd.Context(), cmd, o, fileCfg, st, logger)
	if err != nil {
		cleanup()
		return plan{}, nil, err
	}
	return p, cleanup, nil
}

func requireTerminal() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("this command needs an interactive terminal")
	}
	return nil
}
