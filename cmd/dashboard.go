package cmd

import (
	"fmt"
	"os"

	"github.com/frahmantamala/savings/internal/dashboard"
	"github.com/spf13/cobra"
)

var dashboardWidth int

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the dashboard",
	Long:  `Compute totals and ratios from the ledger and print them as terminal cards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := initializeDependencies(ctx, initOptions{logOutput: os.Stderr, migrate: true})
		if err != nil {
			return err
		}
		defer deps.Close()

		summary, err := deps.Dashboard.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute dashboard: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), dashboard.Render(summary, dashboardWidth))
		return nil
	},
}

func init() {
	dashboardCmd.Flags().IntVarP(&dashboardWidth, "width", "w", 80, "Terminal width used for layout")
}
