package policy

import (
	"log/slog"
	"sort"

	"github.com/me/edgesentry/pkg/model"
)

// StrictPriority stable-sorts the queue by priority class before applying
// the same cumulative-budget loop as round robin, shielding high-priority
// tasks from drops caused by earlier low-priority arrivals. It also defines
// the ground-truth labeling rule the trainer uses.
type StrictPriority struct {
	budget float64
	logger *slog.Logger
}

// NewStrictPriority creates the priority policy with the given budget.
func NewStrictPriority(budget float64, logger *slog.Logger) *StrictPriority {
	return &StrictPriority{
		budget: budget,
		logger: logger.With("component", "policy", "policy", "strict-priority"),
	}
}

// Name implements Policy.
func (p *StrictPriority) Name() string {
	return "strict-priority"
}

// Schedule implements Policy. Decisions are returned in priority order,
// arrival order within a class. An invalid task fails the whole tick.
func (p *StrictPriority) Schedule(queue []model.Task, current model.LoadSnapshot) ([]model.Decision, error) {
	if err := model.ValidateBatch(queue); err != nil {
		return nil, err
	}
	decisions := admitInOrder(p.Name(), sortByPriority(queue), current.CPUPercent, p.budget)
	p.logger.Debug("scheduled batch", "tasks", len(queue), "start_load", current.CPUPercent)
	return decisions, nil
}

// LabelQueue applies the ground-truth rule to a queue and returns one label
// per task in the queue's original order: true when the task falls within
// budget after priority sorting. This is the target concept the intelligent
// policy approximates from local features only. Labels are keyed by queue
// position, not task id, so the result is well defined even for queues the
// batch validation would reject.
func LabelQueue(queue []model.Task, startLoad, budget float64) []bool {
	order := make([]int, len(queue))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return queue[order[a]].Priority.Ordinal() > queue[order[b]].Priority.Ordinal()
	})

	labels := make([]bool, len(queue))
	cumulative := startLoad
	exceeded := false
	for _, idx := range order {
		run := false
		if !exceeded && cumulative+queue[idx].Cost <= budget {
			cumulative += queue[idx].Cost
			run = true
		} else {
			exceeded = true
		}
		labels[idx] = run
	}
	return labels
}

// sortByPriority returns a copy of the queue stable-sorted high to low.
// The stable sort preserves arrival order within a class, which keeps
// repeated runs on identical input reproducible.
func sortByPriority(queue []model.Task) []model.Task {
	sorted := make([]model.Task, len(queue))
	copy(sorted, queue)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Ordinal() > sorted[j].Priority.Ordinal()
	})
	return sorted
}
