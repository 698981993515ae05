package model

import "time"

// LoadSnapshot is the projected CPU utilization for a set of running tasks.
// CPUPercent may exceed 100: values above 100 represent detected overload
// and must not be clamped before decision-making.
type LoadSnapshot struct {
	CPUPercent float64  `json:"cpu_percent"`
	RunningIDs []string `json:"running_ids,omitempty"`
}

// Overloaded returns true if the snapshot indicates catastrophic load.
func (s LoadSnapshot) Overloaded() bool {
	return s.CPUPercent > 100
}

// Decision is one append-only admission record: which policy decided what
// for which task, at what projected load, and why.
type Decision struct {
	TaskID        string    `json:"task_id"`
	Action        Action    `json:"action"`
	Policy        string    `json:"policy"`
	Tick          int       `json:"tick"`
	ProjectedLoad float64   `json:"projected_load"`
	Rationale     string    `json:"rationale"`
	DecidedAt     time.Time `json:"decided_at"`
}

// Metrics aggregates the decision log of one policy over one workload.
type Metrics struct {
	Runs int `json:"runs"`

	Drops int `json:"drops"`

	// HighPriorityDrops counts dropped high-priority tasks. These are the
	// catastrophic events the comparison is designed to surface.
	HighPriorityDrops int `json:"high_priority_drops"`

	// Overloads counts ticks whose admitted load exceeded 100%.
	Overloads int `json:"overloads"`

	PeakLoad float64 `json:"peak_load"`
}

// Decisions returns the total number of decisions behind the metrics.
func (m Metrics) Decisions() int {
	return m.Runs + m.Drops
}
