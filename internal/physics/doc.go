// Package physics provides the ODE systems integrated by the solvers.
//
// Each model implements the [dynamo.System] interface:
//
//   - [Oscillator]: rigid body on a linear spring-damper mount, three
//     translational degrees of freedom
//   - [Bessel]: reference system with a closed-form solution, used to
//     check solver accuracy
//
// [Oscillator] also implements [dynamo.Model], owning the state buffer the
// solver integrates, and [dynamo.Hamiltonian] for energy monitoring:
//
//	osc, _ := physics.NewOscillator(props)
//	if h, ok := dynamo.System(osc).(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(osc.StateVector())
//	}
package physics
