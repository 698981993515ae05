// Package compare drives one workload through every policy and aggregates
// the resulting decision log into side-by-side metrics.
package compare

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/me/edgesentry/internal/load"
	"github.com/me/edgesentry/internal/metrics"
	"github.com/me/edgesentry/internal/policy"
	"github.com/me/edgesentry/internal/store"
	"github.com/me/edgesentry/pkg/model"
)

// Comparator runs every policy over the identical batch sequence. Each
// policy's load state is threaded forward tick to tick independently;
// policies never observe one another's decisions.
type Comparator struct {
	estimator *load.Estimator
	store     store.DecisionStore
	recorder  *metrics.Recorder
	decay     float64
	startLoad float64
	logger    *slog.Logger
}

// New creates a Comparator. recorder may be nil when scraping is disabled.
func New(estimator *load.Estimator, st store.DecisionStore, recorder *metrics.Recorder, decay float64, logger *slog.Logger) *Comparator {
	return &Comparator{
		estimator: estimator,
		store:     st,
		recorder:  recorder,
		decay:     decay,
		logger:    logger.With("component", "comparator"),
	}
}

// SetStartLoad sets the carried load every policy begins its first tick
// with, e.g. a sampled host CPU baseline. Zero by default.
func (c *Comparator) SetStartLoad(pct float64) {
	c.startLoad = pct
}

// CompareAll schedules the workload under each policy in turn and returns
// per-policy metrics keyed by policy name. Any scheduling error fails the
// whole run: no partial-batch state is retained.
func (c *Comparator) CompareAll(ctx context.Context, workload [][]model.Task, policies []policy.Policy) (map[string]model.Metrics, error) {
	results := make(map[string]model.Metrics, len(policies))
	for _, p := range policies {
		m, err := c.runPolicy(ctx, workload, p)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", p.Name(), err)
		}
		results[p.Name()] = m
	}
	return results, nil
}

func (c *Comparator) runPolicy(ctx context.Context, workload [][]model.Task, p policy.Policy) (model.Metrics, error) {
	var m model.Metrics
	carried := c.startLoad

	for tick, batch := range workload {
		decisions, err := p.Schedule(batch, model.LoadSnapshot{CPUPercent: carried})
		if err != nil {
			return model.Metrics{}, fmt.Errorf("tick %d: %w", tick, err)
		}
		if len(decisions) != len(batch) {
			return model.Metrics{}, fmt.Errorf("tick %d: %d decisions for %d tasks", tick, len(decisions), len(batch))
		}

		priorities := make(map[string]model.Priority, len(batch))
		admitted := make(map[string]bool, len(batch))
		for _, t := range batch {
			priorities[t.ID] = t.Priority
		}

		for _, d := range decisions {
			if _, known := priorities[d.TaskID]; !known {
				return model.Metrics{}, fmt.Errorf("tick %d: decision for task %s outside the batch", tick, d.TaskID)
			}
			d.Tick = tick
			if err := c.store.AppendDecision(ctx, d); err != nil {
				return model.Metrics{}, fmt.Errorf("tick %d: append decision: %w", tick, err)
			}
			c.recorder.ObserveDecision(d)

			switch d.Action {
			case model.ActionRun:
				m.Runs++
				admitted[d.TaskID] = true
			case model.ActionDrop:
				m.Drops++
				if priorities[d.TaskID] == model.PriorityHigh {
					m.HighPriorityDrops++
				}
			}
		}

		// The estimator's weighted view of this tick's admitted set is
		// what detects overload; the raw cumulative cost is what gets
		// carried forward, shedding decay between ticks.
		running := make([]model.Task, 0, len(admitted))
		rawCost := 0.0
		for _, t := range batch {
			if admitted[t.ID] {
				running = append(running, t)
				rawCost += t.Cost
			}
		}
		tickLoad := carried + c.estimator.Estimate(running).CPUPercent
		if tickLoad > m.PeakLoad {
			m.PeakLoad = tickLoad
		}
		if tickLoad > 100 {
			m.Overloads++
		}
		carried = (carried + rawCost) * (1 - c.decay)
	}

	c.recorder.SetPeakLoad(p.Name(), m.PeakLoad)
	c.logger.Info("policy compared",
		"policy", p.Name(),
		"runs", m.Runs,
		"drops", m.Drops,
		"high_priority_drops", m.HighPriorityDrops,
		"peak_load", m.PeakLoad,
	)
	return m, nil
}
