package analysis

import (
	"math"

	"github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/physics"
)

// NaturalFrequencies returns the undamped frequency of each axis in
// cycles per second, sqrt(k/m) / 2π.
func NaturalFrequencies(p physics.Properties) dimensioned.Vec3 {
	var f dimensioned.Vec3
	for i, k := range p.LinearSpring.Value {
		f[i] = math.Sqrt(k/p.Mass.Value) / (2 * math.Pi)
	}
	return f
}

// DampingRatios returns c / (2 sqrt(k m)) per axis. An axis without a
// spring reports +Inf.
func DampingRatios(p physics.Properties) dimensioned.Vec3 {
	var z dimensioned.Vec3
	for i := range z {
		k, c := p.LinearSpring.Value[i], p.LinearDamping.Value[i]
		if k == 0 {
			z[i] = math.Inf(1)
			continue
		}
		z[i] = c / (2 * math.Sqrt(k*p.Mass.Value))
	}
	return z
}
