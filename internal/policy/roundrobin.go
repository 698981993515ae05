package policy

import (
	"log/slog"

	"github.com/me/edgesentry/pkg/model"
)

// RoundRobin admits tasks in arrival order against a fixed cumulative
// budget. It is the deliberately naive baseline: no reordering, no priority
// awareness, first overflow drops the rest of the queue.
type RoundRobin struct {
	budget float64
	logger *slog.Logger
}

// NewRoundRobin creates the baseline policy with the given budget threshold.
func NewRoundRobin(budget float64, logger *slog.Logger) *RoundRobin {
	return &RoundRobin{
		budget: budget,
		logger: logger.With("component", "policy", "policy", "round-robin"),
	}
}

// Name implements Policy.
func (p *RoundRobin) Name() string {
	return "round-robin"
}

// Schedule implements Policy. An invalid task fails the whole tick.
func (p *RoundRobin) Schedule(queue []model.Task, current model.LoadSnapshot) ([]model.Decision, error) {
	if err := model.ValidateBatch(queue); err != nil {
		return nil, err
	}
	decisions := admitInOrder(p.Name(), queue, current.CPUPercent, p.budget)
	p.logger.Debug("scheduled batch", "tasks", len(queue), "start_load", current.CPUPercent)
	return decisions, nil
}
