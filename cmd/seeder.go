package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/frahmantamala/savings/internal/moneyflow"
	"github.com/spf13/cobra"
)

var (
	seedCount int
	seedValue int64
	clearData bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the ledger with random sample money flows for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := initializeDependencies(ctx, initOptions{logOutput: os.Stderr, migrate: true, notify: true})
		if err != nil {
			return err
		}
		defer deps.Close()

		if clearData {
			flows, err := deps.Ledger.All(ctx)
			if err != nil {
				return fmt.Errorf("failed to read ledger: %w", err)
			}
			for _, f := range flows {
				if err := deps.Ledger.Delete(ctx, f.ID); err != nil {
					return fmt.Errorf("failed to delete money flow %d: %w", f.ID, err)
				}
			}
			fmt.Printf("Cleared %d money flows\n", len(flows))
		}

		if seedValue == 0 {
			seedValue = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seedValue))
		now := time.Now()

		for i := 1; i <= seedCount; i++ {
			if _, err := deps.Ledger.Create(ctx, moneyflow.RandomSample(rng, i, now)); err != nil {
				return fmt.Errorf("failed to insert sample %d: %w", i, err)
			}
		}

		summary := deps.Dashboard.Summary()
		fmt.Printf("Seeded %d money flows (expense %s, earning %s)\n",
			seedCount, summary.TotalExpense.StringFixed(2), summary.TotalEarning.StringFixed(2))
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 20, "Number of sample money flows to insert")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed (default: current time)")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
