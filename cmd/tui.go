package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/tui"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"dashboard"},
	Short:   "Launch the interactive scenario dashboard",
	RunE:    runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, s, mode, err := currentScenario()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	meter, closeMeter, err := openMeter(cfg)
	if err != nil {
		return err
	}
	defer closeMeter()

	app := tui.NewApp(tui.Options{
		Config:     cfg,
		Scenario:   s,
		Mode:       mode,
		Meter:      meter,
		ConfigPath: configPath(),
		NeedSetup:  flagConfig == "" && !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
