// Package policy implements the interchangeable admission policies: round
// robin, strict priority, and the decision-tree driven intelligent policy.
package policy

import (
	"fmt"
	"time"

	"github.com/me/edgesentry/pkg/model"
)

// Policy decides, per task in a queue, whether to run or drop it given the
// current load. Implementations are deterministic and keep no state across
// ticks; the caller threads load forward between ticks.
type Policy interface {
	Name() string
	Schedule(queue []model.Task, current model.LoadSnapshot) ([]model.Decision, error)
}

// Classifier is the fitted run/drop predictor the intelligent policy
// consults. A decision tree satisfies this, but any deterministic
// fit/predict capability will do.
type Classifier interface {
	Predict(features [model.FeatureCount]float64) bool
}

// admitInOrder applies the cumulative-budget admission loop shared by the
// round-robin and strict-priority policies: tasks are admitted in the given
// order while the running total stays at or below the budget; the first
// task that would exceed it, and every task after it, is dropped.
func admitInOrder(policy string, queue []model.Task, startLoad, budget float64) []model.Decision {
	decisions := make([]model.Decision, 0, len(queue))
	cumulative := startLoad
	exceeded := false

	for _, t := range queue {
		projected := cumulative + t.Cost
		if !exceeded && projected <= budget {
			cumulative = projected
			decisions = append(decisions, model.Decision{
				TaskID:        t.ID,
				Action:        model.ActionRun,
				Policy:        policy,
				ProjectedLoad: cumulative,
				Rationale:     fmt.Sprintf("cumulative load %.1f%% within budget %.1f%%", cumulative, budget),
				DecidedAt:     time.Now().UTC(),
			})
			continue
		}
		if !exceeded {
			exceeded = true
		}
		decisions = append(decisions, model.Decision{
			TaskID:        t.ID,
			Action:        model.ActionDrop,
			Policy:        policy,
			ProjectedLoad: cumulative,
			Rationale:     fmt.Sprintf("admitting cost %.1f would raise load to %.1f%%, over budget %.1f%%", t.Cost, cumulative+t.Cost, budget),
			DecidedAt:     time.Now().UTC(),
		})
	}
	return decisions
}
