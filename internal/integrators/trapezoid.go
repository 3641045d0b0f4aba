package integrators

import "github.com/san-kum/oscillator/internal/dynamo"

// trapezoid predicts with Euler and corrects with the trapezoidal rule;
// the predictor-corrector difference is the error estimate.
type trapezoid struct {
	predicted dynamo.State
}

func NewTrapezoid(sys dynamo.System) *Adaptive {
	return newAdaptive("Trapezoid", sys, &trapezoid{})
}

func (t *trapezoid) advance(sys dynamo.System, x float64, y0, dydx0 dynamo.State, dx float64, y, yErr dynamo.State) error {
	if len(t.predicted) != len(y0) {
		t.predicted = make(dynamo.State, len(y0))
	}

	for i := range y0 {
		t.predicted[i] = y0[i] + dx*dydx0[i]
	}
	dydx1 := sys.Derivatives(x+dx, t.predicted)

	halfDx := 0.5 * dx
	for i := range y0 {
		y[i] = y0[i] + halfDx*(dydx0[i]+dydx1[i])
		yErr[i] = halfDx * (dydx1[i] - dydx0[i])
	}
	return nil
}
