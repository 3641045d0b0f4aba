package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/oscillator/internal/dynamo"
)

var constructors = map[string]func(dynamo.System) (*Adaptive, error){
	"Euler":        wrap(NewEuler),
	"Trapezoid":    wrap(NewTrapezoid),
	"RK4":          wrap(NewRK4),
	"RKF45":        wrap(NewRKF45),
	"RKCK45":       wrap(NewRKCK45),
	"RKDP45":       wrap(NewRKDP45),
	"Rosenbrock12": NewRosenbrock12,
}

func wrap(fn func(dynamo.System) *Adaptive) func(dynamo.System) (*Adaptive, error) {
	return func(sys dynamo.System) (*Adaptive, error) { return fn(sys), nil }
}

// New builds the named solver bound to sys.
func New(name string, sys dynamo.System) (*Adaptive, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %v)", dynamo.ErrUnknownSolver, name, Names())
	}
	return fn(sys)
}

// Names lists the registered solvers in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
