package model

// Task is one immutable unit of sensor work awaiting an admission decision.
// Tasks are created by a workload source, never mutated, and discarded once
// a decision has been recorded for them.
type Task struct {
	ID       string     `json:"id"`
	Sensor   SensorKind `json:"sensor"`
	Priority Priority   `json:"priority"`

	// Cost is the estimated unit CPU cost on a 0-100 scale.
	Cost float64 `json:"cost"`

	// Arrival is the position of the task in its batch, used for
	// round-robin fairness and priority tie-breaks.
	Arrival int `json:"arrival"`
}

// Validate checks the task against the model invariants: a recognized
// sensor kind and priority class, and a cost within [0, 100].
func (t Task) Validate() error {
	if t.ID == "" {
		return &InvalidTaskError{TaskID: t.ID, Reason: "missing id"}
	}
	if !t.Sensor.Valid() {
		return &InvalidTaskError{TaskID: t.ID, Reason: "unknown sensor kind '" + t.Sensor.String() + "'"}
	}
	if !t.Priority.Valid() {
		return &InvalidTaskError{TaskID: t.ID, Reason: "unknown priority '" + t.Priority.String() + "'"}
	}
	if t.Cost < 0 || t.Cost > 100 {
		return &InvalidTaskError{TaskID: t.ID, Reason: "cost out of range [0,100]"}
	}
	return nil
}

// ValidateBatch validates every task in a batch and rejects duplicate ids,
// which would make the decision log ambiguous. The first violation fails
// the whole batch; callers must not schedule a partially valid tick.
func ValidateBatch(batch []Task) error {
	seen := make(map[string]struct{}, len(batch))
	for _, t := range batch {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.ID]; dup {
			return &InvalidTaskError{TaskID: t.ID, Reason: "duplicate id in batch"}
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
