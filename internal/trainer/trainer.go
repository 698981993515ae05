// Package trainer turns simulated workload traces into the run/drop
// classifier used by the intelligent policy.
package trainer

import (
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/me/edgesentry/internal/dtree"
	"github.com/me/edgesentry/internal/policy"
	"github.com/me/edgesentry/pkg/model"
)

// MinExamples is the smallest training set Fit accepts.
const MinExamples = 10

var priorities = []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow}

// Trainer generates synthetic labeled scenarios and fits the decision tree.
// Labels come from the strict-priority ground-truth rule, so the fitted
// tree approximates strict-priority admission from local features only.
type Trainer struct {
	budget  float64
	treeCfg dtree.Config
	logger  *slog.Logger
}

// New creates a Trainer. budget is the admission threshold the ground-truth
// rule labels against.
func New(budget float64, treeCfg dtree.Config, logger *slog.Logger) *Trainer {
	return &Trainer{
		budget:  budget,
		treeCfg: treeCfg,
		logger:  logger.With("component", "trainer"),
	}
}

// GenerateScenarios draws n randomized task queues for a deterministic seed
// and yields one labeled example per task-in-context. The load feature of
// each example is the load the intelligent policy would observe at that
// point: the scenario's starting load plus the cost of every earlier task
// the ground truth admitted, in arrival order.
func (tr *Trainer) GenerateScenarios(n int, seed int64) []model.TrainingExample {
	r := rand.New(rand.NewSource(seed))
	examples := make([]model.TrainingExample, 0, n*6)

	for i := 0; i < n; i++ {
		startLoad := r.Float64() * 80
		queue := randomQueue(r)
		labels := policy.LabelQueue(queue, startLoad, tr.budget)

		cumulative := startLoad
		for j, t := range queue {
			examples = append(examples, model.TrainingExample{
				Load:            cumulative,
				PriorityOrdinal: t.Priority.Ordinal(),
				Cost:            t.Cost,
				Run:             labels[j],
			})
			if labels[j] {
				cumulative += t.Cost
			}
		}
	}

	tr.logger.Debug("generated scenarios", "scenarios", n, "seed", seed, "examples", len(examples))
	return examples
}

// Fit induces the decision tree. It fails with InsufficientDataError when
// fewer than MinExamples examples are supplied.
func (tr *Trainer) Fit(examples []model.TrainingExample) (*dtree.Tree, error) {
	if len(examples) < MinExamples {
		return nil, &model.InsufficientDataError{Got: len(examples), Want: MinExamples}
	}
	tree, err := dtree.Fit(examples, tr.treeCfg)
	if err != nil {
		return nil, err
	}
	tr.logger.Info("classifier fitted", "examples", len(examples), "depth", tree.Depth())
	return tree, nil
}

// Train is the one-shot path: generate scenarios, then fit.
func (tr *Trainer) Train(n int, seed int64) (*dtree.Tree, error) {
	return tr.Fit(tr.GenerateScenarios(n, seed))
}

// randomQueue draws a queue of 3 to 12 tasks with random priority, sensor
// kind and cost. Task ids do not feed any feature; they only keep the
// ground-truth labeling unambiguous.
func randomQueue(r *rand.Rand) []model.Task {
	n := 3 + r.Intn(10)
	queue := make([]model.Task, n)
	for i := range queue {
		queue[i] = model.Task{
			ID:       "task_" + uuid.NewString()[:8],
			Sensor:   model.SensorKinds[r.Intn(len(model.SensorKinds))],
			Priority: priorities[r.Intn(len(priorities))],
			Cost:     float64(1 + r.Intn(60)),
			Arrival:  i,
		}
	}
	return queue
}
