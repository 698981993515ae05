package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/me/edgesentry/internal/workload"
)

// batchDoc is the YAML shape generate prints; the same document can be fed
// back to compare --workload or POSTed as inline batches.
type batchDoc struct {
	Scenario string      `yaml:"scenario"`
	Seed     int64       `yaml:"seed"`
	Batches  []batchYAML `yaml:"batches"`
}

type batchYAML struct {
	Tick  int        `yaml:"tick"`
	Tasks []taskYAML `yaml:"tasks"`
}

type taskYAML struct {
	ID       string  `yaml:"id"`
	Sensor   string  `yaml:"sensor"`
	Priority string  `yaml:"priority"`
	Cost     float64 `yaml:"cost"`
	Arrival  int     `yaml:"arrival"`
}

func newGenerateCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate <scenario>",
		Short: "Print a scenario's workload as YAML",
		Long: `Draws the full batch sequence for a named scenario and prints it to
stdout. The same seed always yields the same workload.

Known scenarios: ` + strings.Join(scenarioNames(), ", ") + `.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, ok := workload.ScenarioByName(args[0])
			if !ok {
				return fmt.Errorf("unknown scenario %q (known: %s)", args[0], strings.Join(scenarioNames(), ", "))
			}
			if seed == 0 {
				seed = cfg.Seed
			}

			doc := batchDoc{Scenario: scenario.Name, Seed: seed}
			for tick, batch := range workload.NewGenerator(seed).Workload(scenario) {
				b := batchYAML{Tick: tick, Tasks: make([]taskYAML, 0, len(batch))}
				for _, t := range batch {
					b.Tasks = append(b.Tasks, taskYAML{
						ID:       t.ID,
						Sensor:   t.Sensor.String(),
						Priority: t.Priority.String(),
						Cost:     t.Cost,
						Arrival:  t.Arrival,
					})
				}
				doc.Batches = append(doc.Batches, b)
			}

			out, err := yaml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("marshal workload: %w", err)
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Workload seed (default: config seed)")
	return cmd
}

func scenarioNames() []string {
	names := make([]string, 0, 3)
	for _, s := range workload.Scenarios() {
		names = append(names, s.Name)
	}
	return names
}
