package model

// FeatureCount is the width of a training feature vector:
// current load, priority ordinal, task unit cost.
const FeatureCount = 3

// TrainingExample is one labeled observation used to fit the run/drop
// classifier. Examples exist only during tree fitting and are produced by
// applying the strict-priority ground-truth rule to a synthetic scenario.
type TrainingExample struct {
	Load            float64 `json:"load"`
	PriorityOrdinal int     `json:"priority_ordinal"`
	Cost            float64 `json:"cost"`

	// Run is the label: true when the ground-truth rule admits the task.
	Run bool `json:"run"`
}

// Features returns the example as a feature vector in the fixed order the
// classifier expects.
func (e TrainingExample) Features() [FeatureCount]float64 {
	return [FeatureCount]float64{e.Load, float64(e.PriorityOrdinal), e.Cost}
}
