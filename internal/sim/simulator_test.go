package sim

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	d "github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/integrators"
	"github.com/san-kum/oscillator/internal/logging"
	"github.com/san-kum/oscillator/internal/physics"
)

func newOscillator(t *testing.T, damping float64) *physics.Oscillator {
	t.Helper()
	p := physics.Properties{
		Mass:                d.NewScalar("mass", d.DimMass, 1),
		EquilibriumPosition: d.NewVector("equilibriumPosition", d.DimLength, d.Vec3{}),
		LinearSpring:        d.NewDiagTensor("linearSpring", d.DimStiffness, d.Vec3{1, 1, 1}),
		LinearDamping:       d.NewDiagTensor("linearDamping", d.DimDamping, d.Vec3{damping, damping, damping}),
		Xrel:                d.NewVector("Xrel", d.DimLength, d.Vec3{1, 0, 0}),
		U:                   d.NewVector("U", d.DimVelocity, d.Vec3{}),
		Uold:                d.NewVector("Uold", d.DimVelocity, d.Vec3{}),
		Force:               d.NewVector("force", d.DimForce, d.Vec3{}),
	}
	o, err := physics.NewOscillator(p)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(y dynamo.State, x float64) {
	t.count++
	t.sum += y[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorRun(t *testing.T) {
	o := newOscillator(t, 0)
	sim := New(o, integrators.NewRKDP45(o))

	cfg := Config{Duration: 1.0, Interval: 0.1, RelTol: 1e-8, DxEst: 0.01}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 || len(result.Times) != 11 {
		t.Fatalf("expected 11 samples, got %d states %d times", len(result.States), len(result.Times))
	}
	if result.Times[10] != 1.0 {
		t.Errorf("expected final time 1.0, got %f", result.Times[10])
	}

	final := result.States[10]
	if math.Abs(final[0]-math.Cos(1)) > 1e-6 {
		t.Errorf("expected x ~%.6f, got %.6f", math.Cos(1), final[0])
	}
	if math.Abs(final[3]+math.Sin(1)) > 1e-6 {
		t.Errorf("expected u ~%.6f, got %.6f", -math.Sin(1), final[3])
	}
	if result.EnergyDrift > 1e-6 {
		t.Errorf("undamped energy drift too high: %e", result.EnergyDrift)
	}
}

func TestSimulatorSyncsModel(t *testing.T) {
	o := newOscillator(t, 0.5)
	sim := New(o, integrators.NewRKCK45(o))

	cfg := Config{Duration: 0.5, Interval: 0.25, RelTol: 1e-6, DxEst: 0.01}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	last := result.States[len(result.States)-1]
	prev := result.States[len(result.States)-2]
	for i := 0; i < 3; i++ {
		if o.Xrel().Value[i] != last[i] {
			t.Errorf("Xrel[%d] = %f, state %f", i, o.Xrel().Value[i], last[i])
		}
		if o.U().Value[i] != last[3+i] {
			t.Errorf("U[%d] = %f, state %f", i, o.U().Value[i], last[3+i])
		}
		if o.Uold().Value[i] != prev[3+i] {
			t.Errorf("Uold[%d] = %f, previous state %f", i, o.Uold().Value[i], prev[3+i])
		}
	}
}

func TestSimulatorObservers(t *testing.T) {
	o := newOscillator(t, 0.1)
	sim := New(o, integrators.NewRKDP45(o))

	var buf bytes.Buffer
	obs := NewTraceObserver(logging.NewLogger("trace", &buf))
	sim.AddObserver(obs)

	cfg := Config{Duration: 0.5, Interval: 0.1, RelTol: 1e-6, DxEst: 0.01}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if obs.Samples() != len(result.States) {
		t.Errorf("observer saw %d samples, result has %d", obs.Samples(), len(result.States))
	}
	if got := strings.Count(buf.String(), "level=TRACE"); got != len(result.States) {
		t.Errorf("expected %d trace lines, got %d", len(result.States), got)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	o := newOscillator(t, 0)
	sim := New(o, integrators.NewRKDP45(o))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero interval", Config{Interval: 0, Duration: 1.0, RelTol: 1e-4, DxEst: 0.1}},
		{"negative interval", Config{Interval: -0.1, Duration: 1.0, RelTol: 1e-4, DxEst: 0.1}},
		{"zero duration", Config{Interval: 0.1, Duration: 0, RelTol: 1e-4, DxEst: 0.1}},
		{"zero tolerance", Config{Interval: 0.1, Duration: 1.0, RelTol: 0, DxEst: 0.1}},
		{"zero step", Config{Interval: 0.1, Duration: 1.0, RelTol: 1e-4, DxEst: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSimulatorMetrics(t *testing.T) {
	o := newOscillator(t, 0.1)
	sim := New(o, integrators.NewRKF45(o))

	metric := &testMetric{}
	sim.AddMetric(metric)

	cfg := Config{Duration: 1.0, Interval: 0.1, RelTol: 1e-6, DxEst: 0.01}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
}

func TestSimulatorCancel(t *testing.T) {
	o := newOscillator(t, 0)
	sim := New(o, integrators.NewRKDP45(o))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Duration: 1.0, Interval: 0.1, RelTol: 1e-6, DxEst: 0.01}
	result, err := sim.Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(result.States) != 1 {
		t.Errorf("expected only the initial sample, got %d", len(result.States))
	}
}
