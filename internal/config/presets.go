package config

import (
	"sort"

	d "github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/physics"
)

func props(mass float64, spring, damping, xrel, u, force d.Vec3) physics.Properties {
	return physics.Properties{
		Mass:                d.NewScalar("mass", d.DimMass, mass),
		EquilibriumPosition: d.NewVector("equilibriumPosition", d.DimLength, d.Vec3{}),
		LinearSpring:        d.NewDiagTensor("linearSpring", d.DimStiffness, spring),
		LinearDamping:       d.NewDiagTensor("linearDamping", d.DimDamping, damping),
		Xrel:                d.NewVector("Xrel", d.DimLength, xrel),
		U:                   d.NewVector("U", d.DimVelocity, u),
		Uold:                d.NewVector("Uold", d.DimVelocity, u),
		Force:               d.NewVector("force", d.DimForce, force),
	}
}

var Presets = map[string]physics.Properties{
	"undamped": props(1.0,
		d.Vec3{4, 4, 4}, d.Vec3{}, d.Vec3{0.1, 0, 0}, d.Vec3{}, d.Vec3{}),
	"damped": props(1.0,
		d.Vec3{4, 4, 4}, d.Vec3{0.4, 0.4, 0.4}, d.Vec3{0.1, 0, 0}, d.Vec3{}, d.Vec3{}),
	"critical": props(1.0,
		d.Vec3{4, 4, 4}, d.Vec3{4, 4, 4}, d.Vec3{0.1, 0, 0}, d.Vec3{}, d.Vec3{}),
	"loaded": props(2.0,
		d.Vec3{10, 10, 10}, d.Vec3{0.5, 0.5, 0.5}, d.Vec3{}, d.Vec3{}, d.Vec3{0, 0, -19.62}),
	"anisotropic": props(0.5,
		d.Vec3{1, 9, 25}, d.Vec3{0.05, 0.05, 0.05}, d.Vec3{0.1, 0.1, 0.1}, d.Vec3{0, 0.2, 0}, d.Vec3{}),
}

func GetPreset(name string) (physics.Properties, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
