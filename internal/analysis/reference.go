package analysis

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/physics"
)

// SpringReference returns the closed-form state [x0 x1 x2 u0 u1 u2] at
// time t of an oscillator released from p under its constant force. Every
// axis needs a spring.
func SpringReference(p physics.Properties, t float64) (dynamo.State, error) {
	m := p.Mass.Value
	y := make(dynamo.State, 6)
	for i := 0; i < 3; i++ {
		k, c := p.LinearSpring.Value[i], p.LinearDamping.Value[i]
		if !(k > 0) {
			return nil, fmt.Errorf("%w: axis %d has no spring", dynamo.ErrParameterBounds, i)
		}
		spring := harmonica.NewSpring(t, math.Sqrt(k/m), c/(2*math.Sqrt(k*m)))
		y[i], y[i+3] = spring.Update(p.Xrel.Value[i], p.U.Value[i], p.Force.Value[i]/k)
	}
	return y, nil
}

// MaxDeviation is the largest absolute difference between the sampled
// states and SpringReference at the matching times.
func MaxDeviation(p physics.Properties, states [][]float64, times []float64) (float64, error) {
	worst := 0.0
	for i, s := range states {
		if len(s) < 6 || i >= len(times) {
			return 0, ErrTooFewSamples
		}
		ref, err := SpringReference(p, times[i])
		if err != nil {
			return 0, err
		}
		for j, v := range ref {
			worst = math.Max(worst, math.Abs(s[j]-v))
		}
	}
	return worst, nil
}
