package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gamelib/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:     "gamelib",
	Short:   "Browse every game library in one list",
	Long:    `gamelib merges Steam, GOG and local game folders into one searchable list and shows how well each game runs on this device.`,
	Version: Version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return runList(cmd, listOptions{})
		}
		return runTUI(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func runTUI(cmd *cobra.Command) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("starting gamelib", "version", Version)

	a, err := newApp(cfg, logger, 0)
	if err != nil {
		return err
	}
	defer a.Close()

	a.svc.Start(cmd.Context())

	model := tui.NewModel(a.svc)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
