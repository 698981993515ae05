// Package workload builds ordered task batches for the comparator, either
// from named scenario presets or fully randomized draws.
package workload

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/me/edgesentry/pkg/model"
)

// Template describes one kind of recurring sensor work a scenario can draw.
type Template struct {
	Sensor   model.SensorKind
	Priority model.Priority
	Cost     float64
}

// Scenario is a named workload preset: a pool of task templates plus the
// shape of the batch sequence drawn from it.
type Scenario struct {
	Name        string
	Description string
	Pool        []Template
	Batches     int
	MaxPerBatch int
}

// templates for the full sensor mix. Costs echo the relative expense of the
// streams: scalar probes are cheap, audio is mid-range, frames are nearly a
// whole core.
var (
	tmplVibration   = Template{model.SensorVibration, model.PriorityHigh, 8.5}
	tmplHumidity    = Template{model.SensorHumidity, model.PriorityHigh, 8.5}
	tmplUV          = Template{model.SensorUV, model.PriorityLow, 12}
	tmplTemperature = Template{model.SensorTemperature, model.PriorityMedium, 18}
	tmplAcoustic    = Template{model.SensorAcoustic, model.PriorityMedium, 35}
	tmplCamera      = Template{model.SensorCamera, model.PriorityLow, 95}
)

// Scenarios lists the built-in presets in a stable order.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "routine",
			Description: "the full sensor mix on a normal day",
			Pool:        []Template{tmplVibration, tmplHumidity, tmplUV, tmplTemperature, tmplAcoustic, tmplCamera},
			Batches:     5,
			MaxPerBatch: 6,
		},
		{
			Name:        "alert",
			Description: "high-priority monitors flooding in during an incident",
			Pool:        []Template{tmplVibration, tmplHumidity, tmplAcoustic},
			Batches:     4,
			MaxPerBatch: 5,
		},
		{
			Name:        "camera-trap",
			Description: "expensive frames crowding out cheap probes",
			Pool:        []Template{tmplTemperature, tmplCamera},
			Batches:     4,
			MaxPerBatch: 4,
		},
	}
}

// ScenarioByName looks up a preset.
func ScenarioByName(name string) (Scenario, bool) {
	for _, s := range Scenarios() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Generator draws task batches from a seeded source, so the same seed
// always yields the same workload.
type Generator struct {
	r    *rand.Rand
	seed int64
}

// NewGenerator creates a Generator for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{r: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Batch draws up to max tasks (at least one) from the pool, in arrival order.
func (g *Generator) Batch(pool []Template, max int) []model.Task {
	n := 1 + g.r.Intn(max)
	batch := make([]model.Task, n)
	for i := range batch {
		t := pool[g.r.Intn(len(pool))]
		batch[i] = model.Task{
			ID:       "task_" + uuid.NewString()[:8],
			Sensor:   t.Sensor,
			Priority: t.Priority,
			Cost:     t.Cost,
			Arrival:  i,
		}
	}
	return batch
}

// Workload draws the full batch sequence for a scenario.
func (g *Generator) Workload(s Scenario) [][]model.Task {
	batches := make([][]model.Task, s.Batches)
	for i := range batches {
		batches[i] = g.Batch(s.Pool, s.MaxPerBatch)
	}
	return batches
}
