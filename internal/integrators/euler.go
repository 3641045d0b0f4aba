package integrators

import "github.com/san-kum/oscillator/internal/dynamo"

// Euler is forward Euler with the error taken from step doubling: one
// full step against two half steps. The two half step result is kept.
type euler struct {
	half dynamo.State
}

func NewEuler(sys dynamo.System) *Adaptive {
	return newAdaptive("Euler", sys, &euler{})
}

func (e *euler) advance(sys dynamo.System, x float64, y0, dydx0 dynamo.State, dx float64, y, yErr dynamo.State) error {
	if len(e.half) != len(y0) {
		e.half = make(dynamo.State, len(y0))
	}

	h := 0.5 * dx
	for i := range y0 {
		e.half[i] = y0[i] + h*dydx0[i]
	}
	dydxHalf := sys.Derivatives(x+h, e.half)

	for i := range y0 {
		full := y0[i] + dx*dydx0[i]
		y[i] = e.half[i] + h*dydxHalf[i]
		yErr[i] = y[i] - full
	}
	return nil
}
