package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Error     *APIError `json:"error"`
}

// CompareRequest asks the reporting API to run all policies over a workload.
// Either Scenario names a built-in workload preset, or Batches supplies the
// task batches inline. Seed only applies to named scenarios.
type CompareRequest struct {
	Scenario string   `json:"scenario,omitempty"`
	Batches  [][]Task `json:"batches,omitempty"`
	Seed     int64    `json:"seed,omitempty"`
}

// CompareResponse carries side-by-side metrics keyed by policy name.
type CompareResponse struct {
	Metrics map[string]Metrics `json:"metrics"`
}

// TrainRequest asks the reporting API to fit a fresh classifier. Absent
// fields fall back to the server's configured defaults; fields the caller
// sets are honored as given, zero included.
type TrainRequest struct {
	Scenarios *int   `json:"scenarios,omitempty"`
	Seed      *int64 `json:"seed,omitempty"`
}

// TrainResponse summarizes a completed training run.
type TrainResponse struct {
	Examples int    `json:"examples"`
	Depth    int    `json:"depth"`
	Rules    string `json:"rules"`
}
