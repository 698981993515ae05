package model

// SensorKind identifies the sensor stream a task processes.
type SensorKind string

const (
	SensorVibration   SensorKind = "vibration"
	SensorAcoustic    SensorKind = "acoustic"
	SensorTemperature SensorKind = "temperature"
	SensorUV          SensorKind = "uv"
	SensorCamera      SensorKind = "camera"
	SensorHumidity    SensorKind = "humidity"
)

// String returns the string representation of the sensor kind.
func (k SensorKind) String() string {
	return string(k)
}

// Valid returns true if the kind is one of the recognized sensor streams.
func (k SensorKind) Valid() bool {
	switch k {
	case SensorVibration, SensorAcoustic, SensorTemperature, SensorUV, SensorCamera, SensorHumidity:
		return true
	}
	return false
}

// SensorKinds lists all recognized sensor kinds in a stable order.
var SensorKinds = []SensorKind{
	SensorVibration,
	SensorAcoustic,
	SensorTemperature,
	SensorUV,
	SensorCamera,
	SensorHumidity,
}

// Priority is the admission priority class of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Valid returns true if the priority is a recognized class.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Ordinal encodes the priority as a numeric feature: high=2, medium=1, low=0.
// Unknown priorities map to 0.
func (p Priority) Ordinal() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	}
	return 0
}

// Action is the admission verdict for a single task.
type Action string

const (
	ActionRun  Action = "run"
	ActionDrop Action = "drop"
)

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}
