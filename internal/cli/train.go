package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/edgesentry/internal/dtree"
	"github.com/me/edgesentry/internal/trainer"
)

func newTrainCmd() *cobra.Command {
	var scenarios int
	var seed int64

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the run/drop classifier and print its rules",
		Long: `Generates labeled scenarios from the priority-aware ground truth, fits
the decision tree, and prints the learned rules.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenarios == 0 {
				scenarios = cfg.Scenarios
			}
			if seed == 0 {
				seed = cfg.Seed
			}

			tr := trainer.New(cfg.BudgetPercent, dtree.Config{
				MaxDepth:       cfg.MaxDepth,
				MinSamplesLeaf: cfg.MinSamplesLeaf,
			}, logger)

			tree, err := tr.Train(scenarios, seed)
			if err != nil {
				return fmt.Errorf("train classifier: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fitted on %s examples (%s scenarios, seed %d), depth %d\n\n",
				humanize.Comma(int64(tree.Examples())), humanize.Comma(int64(scenarios)), seed, tree.Depth())
			fmt.Fprintln(out, tree.String())
			return nil
		},
	}

	cmd.Flags().IntVar(&scenarios, "scenarios", 0, "Number of training scenarios (default: config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Training seed (default: config seed)")
	return cmd
}
