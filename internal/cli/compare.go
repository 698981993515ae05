package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/me/edgesentry/internal/compare"
	"github.com/me/edgesentry/internal/dtree"
	"github.com/me/edgesentry/internal/load"
	"github.com/me/edgesentry/internal/policy"
	"github.com/me/edgesentry/internal/store"
	"github.com/me/edgesentry/internal/sysprobe"
	"github.com/me/edgesentry/internal/trainer"
	"github.com/me/edgesentry/internal/workload"
	"github.com/me/edgesentry/pkg/model"
)

func newCompareCmd() *cobra.Command {
	var workloadFile string
	var seed int64
	var noTrain bool
	var probe bool
	var dbPath string

	cmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "Run one workload through every policy and print the results",
		Long: `Replays a workload through round-robin, strict-priority and (once
trained) the intelligent policy, then prints per-policy metrics side by
side. The workload comes from a named scenario (default routine) or from
a YAML file produced by edgesentry generate.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if seed == 0 {
				seed = cfg.Seed
			}

			batches, label, err := resolveWorkload(args, workloadFile, seed)
			if err != nil {
				return err
			}

			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			policies := []policy.Policy{
				policy.NewRoundRobin(cfg.BudgetPercent, logger),
				policy.NewStrictPriority(cfg.BudgetPercent, logger),
			}
			if !noTrain {
				tr := trainer.New(cfg.BudgetPercent, dtree.Config{
					MaxDepth:       cfg.MaxDepth,
					MinSamplesLeaf: cfg.MinSamplesLeaf,
				}, logger)
				tree, err := tr.Train(cfg.Scenarios, cfg.Seed)
				if err != nil {
					return fmt.Errorf("train classifier: %w", err)
				}
				policies = append(policies, policy.NewIntelligent(tree, logger))
			}

			comparator := compare.New(load.New(cfg.Multipliers, cfg.JitterPercent), st, nil, cfg.DecayFactor, logger)
			if probe {
				snap, err := sysprobe.Sample(ctx, time.Second)
				if err != nil {
					return fmt.Errorf("probe host cpu: %w", err)
				}
				if snap.Overloaded() {
					logger.Warn("host already over budget", "cpu_percent", snap.CPUPercent)
				}
				logger.Info("host baseline", "cpu_percent", snap.CPUPercent)
				comparator.SetStartLoad(snap.CPUPercent)
			}

			results, err := comparator.CompareAll(ctx, batches, policies)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "workload %s: %d batches, seed %d\n\n", label, len(batches), seed)
			printResults(out, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&workloadFile, "workload", "", "YAML workload file (from edgesentry generate)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Workload seed (default: config seed)")
	cmd.Flags().BoolVar(&noTrain, "no-train", false, "Skip the intelligent policy")
	cmd.Flags().BoolVar(&probe, "probe", false, "Start from the sampled host CPU load instead of zero")
	cmd.Flags().StringVar(&dbPath, "db", "", "Persist the decision log to this SQLite file")
	return cmd
}

// resolveWorkload builds the batch sequence from either a workload file or a
// named scenario; the two sources are mutually exclusive.
func resolveWorkload(args []string, workloadFile string, seed int64) ([][]model.Task, string, error) {
	if workloadFile != "" {
		if len(args) > 0 {
			return nil, "", fmt.Errorf("pass a scenario name or --workload, not both")
		}
		batches, err := loadWorkloadFile(workloadFile)
		return batches, workloadFile, err
	}

	name := "routine"
	if len(args) > 0 {
		name = args[0]
	}
	scenario, ok := workload.ScenarioByName(name)
	if !ok {
		return nil, "", fmt.Errorf("unknown scenario %q (known: %s)", name, strings.Join(scenarioNames(), ", "))
	}
	return workload.NewGenerator(seed).Workload(scenario), scenario.Name, nil
}

// loadWorkloadFile parses a generate-format YAML document back into batches.
func loadWorkloadFile(path string) ([][]model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workload %s: %w", path, err)
	}
	var doc batchDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse workload %s: %w", path, err)
	}

	batches := make([][]model.Task, 0, len(doc.Batches))
	for _, b := range doc.Batches {
		batch := make([]model.Task, 0, len(b.Tasks))
		for _, t := range b.Tasks {
			batch = append(batch, model.Task{
				ID:       t.ID,
				Sensor:   model.SensorKind(t.Sensor),
				Priority: model.Priority(t.Priority),
				Cost:     t.Cost,
				Arrival:  t.Arrival,
			})
		}
		batches = append(batches, batch)
	}
	if err := model.ValidateBatch(flatten(batches)); err != nil {
		return nil, fmt.Errorf("workload %s: %w", path, err)
	}
	return batches, nil
}

func flatten(batches [][]model.Task) []model.Task {
	var all []model.Task
	for _, b := range batches {
		all = append(all, b...)
	}
	return all
}

func openStore(dbPath string) (store.DecisionStore, error) {
	if dbPath == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStore(dbPath, logger)
}

func printResults(out io.Writer, results map[string]model.Metrics) {
	names := maps.Keys(results)
	slices.Sort(names)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POLICY\tRUNS\tDROPS\tHIGH-PRIO DROPS\tOVERLOADS\tPEAK LOAD")
	for _, name := range names {
		m := results[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f%%\n",
			name,
			humanize.Comma(int64(m.Runs)),
			humanize.Comma(int64(m.Drops)),
			humanize.Comma(int64(m.HighPriorityDrops)),
			humanize.Comma(int64(m.Overloads)),
			m.PeakLoad,
		)
	}
	w.Flush()
}
