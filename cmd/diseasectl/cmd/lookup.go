package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giygas/disease-dashboard/dashboard"
	"github.com/giygas/disease-dashboard/export"
	"github.com/giygas/disease-dashboard/termview"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <disease>",
	Short: "Look up one disease and print its dashboard",
	Long: `Look up a disease with a single completion call and print:
  - Total cases
  - Recovery and mortality rates
  - Global distribution, when the model provides one
  - Recovery options
  - Medications with side effects and dosage

Example:
  diseasectl lookup Influenza
  diseasectl lookup "Lyme disease" --csv disease_info.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

var (
	lookupCSV   string
	lookupWidth int
)

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVar(&lookupCSV, "csv", "", "also write the report as CSV to this path")
	lookupCmd.Flags().IntVar(&lookupWidth, "width", 0, "output width (0 fits the content)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	disease := strings.TrimSpace(strings.Join(args, " "))
	if disease == "" {
		return fmt.Errorf("disease name is empty")
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}

	rep, err := p.Run(cmd.Context(), disease)
	if err == nil {
		var view *dashboard.View
		if view, err = dashboard.Build(rep); err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), termview.Render(view, lookupWidth))
		}
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), termview.RenderError(err))
		return err
	}

	if lookupCSV != "" {
		out, err := export.CSV(rep)
		if err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}
		if err := os.WriteFile(lookupCSV, out, 0o644); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved", lookupCSV)
	}

	return nil
}
