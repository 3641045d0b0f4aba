package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/oscillator/internal/config"
	d "github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/integrators"
	"github.com/san-kum/oscillator/internal/physics"
	"github.com/san-kum/oscillator/internal/sim"
)

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5, 5})
	if len(ps) != 4 {
		t.Fatalf("expected 4 bins after padding to 8, got %d", len(ps))
	}
	if ps[0] > 1e-12 {
		t.Errorf("expected empty DC bin, got %g", ps[0])
	}
}

func TestDominantFrequency(t *testing.T) {
	const interval = 0.01
	data := make([]float64, 1024)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*interval)
	}

	f, err := DominantFrequency(data, interval)
	if err != nil {
		t.Fatal(err)
	}
	resolution := 1 / (1024 * interval)
	if math.Abs(f-5) > resolution {
		t.Errorf("expected ~5 Hz, got %f", f)
	}
}

func TestDominantFrequencyTooShort(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2}, 0.1); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
}

func TestModes(t *testing.T) {
	p := physics.Properties{
		Mass:          d.NewScalar("mass", d.DimMass, 4),
		LinearSpring:  d.NewDiagTensor("linearSpring", d.DimStiffness, d.Vec3{16, 0, 64}),
		LinearDamping: d.NewDiagTensor("linearDamping", d.DimDamping, d.Vec3{8, 1, 0}),
	}

	f := NaturalFrequencies(p)
	if math.Abs(f[0]-2/(2*math.Pi)) > 1e-12 || f[1] != 0 || math.Abs(f[2]-4/(2*math.Pi)) > 1e-12 {
		t.Errorf("unexpected natural frequencies %v", f)
	}

	z := DampingRatios(p)
	if math.Abs(z[0]-0.5) > 1e-12 || !math.IsInf(z[1], 1) || z[2] != 0 {
		t.Errorf("unexpected damping ratios %v", z)
	}
}

func TestSpringReferenceStart(t *testing.T) {
	p, _ := config.GetPreset("anisotropic")
	y, err := SpringReference(p, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := dynamo.State{0.1, 0.1, 0.1, 0, 0.2, 0}
	for i := range want {
		if math.Abs(y[i]-want[i]) > 1e-12 {
			t.Errorf("y[%d]: expected %g, got %g", i, want[i], y[i])
		}
	}
}

func TestSpringReferenceNeedsSpring(t *testing.T) {
	p, _ := config.GetPreset("damped")
	p.LinearSpring.Value[1] = 0
	if _, err := SpringReference(p, 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestTrajectoryMatchesSpringReference(t *testing.T) {
	for _, name := range []string{"undamped", "damped", "critical", "loaded", "anisotropic"} {
		t.Run(name, func(t *testing.T) {
			p, ok := config.GetPreset(name)
			if !ok {
				t.Fatalf("missing preset %s", name)
			}
			osc, err := physics.NewOscillator(p)
			if err != nil {
				t.Fatal(err)
			}
			solver, err := integrators.New("RKDP45", osc)
			if err != nil {
				t.Fatal(err)
			}

			s := sim.New(osc, solver)
			result, err := s.Run(context.Background(), sim.Config{Duration: 2, Interval: 0.05, RelTol: 1e-8, DxEst: 0.01})
			if err != nil {
				t.Fatal(err)
			}

			states := make([][]float64, len(result.States))
			for i, y := range result.States {
				states[i] = y
			}
			dev, err := MaxDeviation(p, states, result.Times)
			if err != nil {
				t.Fatal(err)
			}
			if dev > 1e-5 {
				t.Errorf("trajectory deviates from the closed form by %g", dev)
			}
		})
	}
}
