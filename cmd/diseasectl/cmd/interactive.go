package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/giygas/disease-dashboard/termview"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch an interactive terminal UI for disease lookups.

Controls:
  Enter   Look up the typed disease
  Ctrl+S  Save the current report as disease_info.csv
  Esc     Quit`,
	RunE: runInteractive,
}

var exportDir string

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for saved CSV files")
}

func runInteractive(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}

	program := tea.NewProgram(
		termview.NewModel(cmd.Context(), p, exportDir),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
