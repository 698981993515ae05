package policy

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/me/edgesentry/pkg/model"
)

// Intelligent queries a fitted classifier per task, in original arrival
// order, using only local features: the load accumulated so far this tick,
// the task's priority ordinal, and its unit cost. Because the classifier
// approximates a sorting-dependent policy from order-dependent features,
// its verdicts may diverge from strict priority on borderline loads; the
// comparison surfaces that divergence.
type Intelligent struct {
	classifier Classifier
	logger     *slog.Logger
}

// NewIntelligent creates the policy around a previously fitted classifier.
// The classifier may be nil; Schedule then fails with
// UnfittedClassifierError.
func NewIntelligent(classifier Classifier, logger *slog.Logger) *Intelligent {
	return &Intelligent{
		classifier: classifier,
		logger:     logger.With("component", "policy", "policy", "intelligent"),
	}
}

// Name implements Policy.
func (p *Intelligent) Name() string {
	return "intelligent"
}

// Schedule implements Policy. Each rationale records the full feature
// vector and the predicted class so the decision log stays explainable.
func (p *Intelligent) Schedule(queue []model.Task, current model.LoadSnapshot) ([]model.Decision, error) {
	if p.classifier == nil {
		return nil, &model.UnfittedClassifierError{Policy: p.Name()}
	}
	if err := model.ValidateBatch(queue); err != nil {
		return nil, err
	}

	decisions := make([]model.Decision, 0, len(queue))
	cumulative := current.CPUPercent

	for _, t := range queue {
		features := [model.FeatureCount]float64{cumulative, float64(t.Priority.Ordinal()), t.Cost}
		run := p.classifier.Predict(features)

		action := model.ActionDrop
		predicted := "drop"
		if run {
			action = model.ActionRun
			predicted = "run"
			cumulative += t.Cost
		}

		decisions = append(decisions, model.Decision{
			TaskID:        t.ID,
			Action:        action,
			Policy:        p.Name(),
			ProjectedLoad: cumulative,
			Rationale: fmt.Sprintf("classifier(load=%.1f, priority=%d, cost=%.1f) => %s",
				features[0], t.Priority.Ordinal(), t.Cost, predicted),
			DecidedAt: time.Now().UTC(),
		})
	}

	p.logger.Debug("scheduled batch", "tasks", len(queue), "start_load", current.CPUPercent)
	return decisions, nil
}
