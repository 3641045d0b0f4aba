package sim

import "github.com/san-kum/oscillator/internal/dynamo"

// Config controls a trajectory run. The solver is asked to land on every
// multiple of Interval; its internal steps are free between them.
type Config struct {
	Duration float64
	Interval float64
	RelTol   float64
	DxEst    float64
}

type Result struct {
	States      []dynamo.State
	Times       []float64
	Metrics     map[string]float64
	Intervals   int
	EnergyDrift float64
}
