package load

import (
	"math"
	"testing"

	"github.com/me/edgesentry/internal/config"
	"github.com/me/edgesentry/pkg/model"
)

func newTestEstimator() *Estimator {
	cfg := config.Default()
	return New(cfg.Multipliers, cfg.JitterPercent)
}

func TestEstimate_Deterministic(t *testing.T) {
	e := newTestEstimator()
	running := []model.Task{
		{ID: "task_1", Sensor: model.SensorCamera, Priority: model.PriorityHigh, Cost: 40},
		{ID: "task_2", Sensor: model.SensorTemperature, Priority: model.PriorityLow, Cost: 20},
	}

	a := e.Estimate(running)
	b := e.Estimate(running)
	if a.CPUPercent != b.CPUPercent {
		t.Errorf("repeated estimates differ: %v vs %v", a.CPUPercent, b.CPUPercent)
	}
	if len(a.RunningIDs) != 2 {
		t.Errorf("RunningIDs = %v, want both task ids", a.RunningIDs)
	}
}

func TestEstimate_EmptySet(t *testing.T) {
	e := newTestEstimator()
	snap := e.Estimate(nil)
	if snap.CPUPercent != 0 {
		t.Errorf("empty set load = %v, want 0", snap.CPUPercent)
	}
	if snap.Overloaded() {
		t.Error("empty set must not report overload")
	}
}

func TestEstimate_NotClampedAbove100(t *testing.T) {
	e := newTestEstimator()
	running := []model.Task{
		{ID: "task_1", Sensor: model.SensorCamera, Priority: model.PriorityHigh, Cost: 90},
		{ID: "task_2", Sensor: model.SensorCamera, Priority: model.PriorityHigh, Cost: 90},
	}
	snap := e.Estimate(running)
	if snap.CPUPercent <= 100 {
		t.Errorf("load = %v, want raw value above 100 for overload detection", snap.CPUPercent)
	}
	if !snap.Overloaded() {
		t.Error("overload not detected")
	}
}

func TestWeightedCost_KindMultipliers(t *testing.T) {
	e := newTestEstimator()
	camera := model.Task{ID: "same-id", Sensor: model.SensorCamera, Cost: 50}
	uv := model.Task{ID: "same-id", Sensor: model.SensorUV, Cost: 50}
	if e.WeightedCost(camera) <= e.WeightedCost(uv) {
		t.Error("camera must be weighted higher than uv at equal cost")
	}
}

func TestWeightedCost_JitterBounded(t *testing.T) {
	cfg := config.Default()
	e := New(cfg.Multipliers, cfg.JitterPercent)
	task := model.Task{ID: "task_x", Sensor: model.SensorHumidity, Cost: 50}

	base := task.Cost * cfg.Multipliers[model.SensorHumidity]
	got := e.WeightedCost(task)
	if math.Abs(got-base) > base*cfg.JitterPercent {
		t.Errorf("jitter exceeds amplitude: base %v, got %v", base, got)
	}
}

func TestWeightedCost_UnknownKindDefaultsToUnity(t *testing.T) {
	e := New(map[model.SensorKind]float64{}, 0)
	task := model.Task{ID: "task_y", Sensor: model.SensorAcoustic, Cost: 33}
	if got := e.WeightedCost(task); got != 33 {
		t.Errorf("WeightedCost = %v, want raw cost 33", got)
	}
}
