// Package load projects CPU utilization for a set of running sensor tasks.
package load

import (
	"hash/fnv"

	"github.com/me/edgesentry/pkg/model"
)

// Estimator maps a set of running tasks to a projected CPU utilization
// percentage. It is a pure function of its input set: the jitter emulating
// sensor noise is derived from each task's id, never from a live clock or
// RNG, so repeated estimates of the same set are identical.
type Estimator struct {
	multipliers map[model.SensorKind]float64
	jitter      float64
}

// New creates an Estimator with the given per-sensor-kind cost multipliers
// and jitter amplitude (fraction of each task's weighted cost).
func New(multipliers map[model.SensorKind]float64, jitter float64) *Estimator {
	m := make(map[model.SensorKind]float64, len(multipliers))
	for k, v := range multipliers {
		m[k] = v
	}
	return &Estimator{multipliers: m, jitter: jitter}
}

// Estimate computes the projected load of the running set. The result is
// not clamped: values above 100 must pass through so overload can be
// detected downstream.
func (e *Estimator) Estimate(running []model.Task) model.LoadSnapshot {
	snap := model.LoadSnapshot{}
	if len(running) > 0 {
		snap.RunningIDs = make([]string, 0, len(running))
	}
	for _, t := range running {
		snap.CPUPercent += e.WeightedCost(t)
		snap.RunningIDs = append(snap.RunningIDs, t.ID)
	}
	return snap
}

// WeightedCost returns one task's contribution to the load estimate:
// unit cost scaled by its sensor-kind multiplier plus deterministic jitter.
// Kinds without a configured multiplier count at weight 1.
func (e *Estimator) WeightedCost(t model.Task) float64 {
	mult, ok := e.multipliers[t.Sensor]
	if !ok {
		mult = 1.0
	}
	weighted := t.Cost * mult
	return weighted + weighted*e.jitter*noise(t.ID)
}

// noise maps a task id to a stable value in [-1, 1).
func noise(id string) float64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return float64(int32(h.Sum32()))/float64(1<<31)
}
