// Package dynamo provides the core primitives shared by ODE systems and
// the adaptive solvers that integrate them.
//
// The package defines:
//
//   - [State]: flat vector of ODE variables
//   - [System]: an ODE system dy/dx = f(x, y)
//   - [Model]: a System that owns a state buffer and is synchronised
//     after accepted steps
//   - [Solver]: a step-adaptive integrator bound to one System
//
// # Example
//
//	osc, _ := physics.NewOscillator(props)
//	solver, _ := integrators.New("RKDP45", osc)
//	solver.SetRelTol(1e-4)
//	dxNext, err := solver.Solve(0, 1, osc.StateVector(), 0.01)
//	osc.Update(1)
//
// # Thread Safety
//
// Systems and solvers are NOT thread-safe. A solver mutates the state it
// is handed in place and keeps scratch buffers between calls.
package dynamo
